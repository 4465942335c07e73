package blocks

import (
	"github.com/boljen/go-bitmap"

	vmuerrors "github.com/dreamsync/vmufs/errors"
)

// AllocationDirection is the policy parameter that makes GAME and DATA
// allocation a single strategy instead of two near-duplicate routines
// (spec.md section 9's "allocation as a policy, not a type" design note).
type AllocationDirection int

const (
	// Ascending scans user blocks from 0 upward, taking the first free block.
	// GAME files use this so they end up contiguous from block 0, where the
	// BIOS expects to execute them in place.
	Ascending AllocationDirection = iota
	// Descending scans from the highest user block downward. DATA files use
	// this so the low end of the card stays free for a future GAME file.
	Descending
)

// Allocator tracks free/used state for the user-data region as a bitmap
// mirrored from the FAT, so repeated allocation scans don't have to re-walk
// every FAT entry. It must be resynced whenever the FAT changes through any
// path other than Allocator.Allocate/Allocator.Free.
type Allocator struct {
	layer *Layer
	free  bitmap.Bitmap
}

// NewAllocator builds an allocator over layer, populating its free-block
// bitmap from the current FAT state.
func NewAllocator(layer *Layer) (*Allocator, error) {
	alloc := &Allocator{layer: layer}
	if err := alloc.Resync(); err != nil {
		return nil, err
	}
	return alloc, nil
}

// Resync rebuilds the free-block bitmap from the live FAT. Call this after
// any out-of-band FAT mutation (format, defragment rollback) before using the
// allocator again.
func (a *Allocator) Resync() error {
	userBlocks, err := a.layer.UserDataBlocks()
	if err != nil {
		return err
	}

	a.free = bitmap.New(userBlocks)
	for b := 0; b < userBlocks; b++ {
		entry, err := a.layer.FATEntry(BlockID(b))
		if err != nil {
			return err
		}
		a.free.Set(b, entry == Unallocated)
	}
	return nil
}

// Allocate finds and claims one free block in the given direction, zeroes its
// contents, marks it LAST_IN_FILE, and — if previous is a valid chain
// predecessor (not UNALLOCATED, not LAST_IN_FILE) — patches fat[previous] to
// point at the newly chosen block (spec.md section 4.1). It returns
// UNALLOCATED with no mutation if no free block exists in that direction.
func (a *Allocator) Allocate(previous BlockID, direction AllocationDirection) (BlockID, error) {
	userBlocks, err := a.layer.UserDataBlocks()
	if err != nil {
		return Unallocated, err
	}

	chosen := Unallocated
	switch direction {
	case Ascending:
		for b := 0; b < userBlocks; b++ {
			if a.free.Get(b) {
				chosen = BlockID(b)
				break
			}
		}
	case Descending:
		for b := userBlocks - 1; b >= 0; b-- {
			if a.free.Get(b) {
				chosen = BlockID(b)
				break
			}
		}
	}

	if chosen == Unallocated {
		return Unallocated, nil
	}

	if err := a.layer.setFATEntry(chosen, LastInFile); err != nil {
		return Unallocated, err
	}
	zero := a.layer.BlockBytes(chosen)
	for i := range zero {
		zero[i] = 0
	}
	a.free.Set(int(chosen), false)

	if previous != Unallocated && previous != LastInFile {
		if err := a.layer.setFATEntry(previous, chosen); err != nil {
			return Unallocated, err
		}
	}

	return chosen, nil
}

// Free zeroes block b's contents and marks its FAT entry UNALLOCATED. It does
// not touch any predecessor; callers that free an interior block of a chain
// create a dangling predecessor. Safe use is restricted to whole-chain walks
// that free strictly in chain order (vmufile.Engine.Delete).
func (a *Allocator) Free(b BlockID) error {
	userBlocks, err := a.layer.UserDataBlocks()
	if err != nil {
		return err
	}
	if int(b) >= userBlocks {
		return vmuerrors.ErrDeviceWriteError.WithMessage("block index out of user-data range")
	}

	zero := a.layer.BlockBytes(b)
	for i := range zero {
		zero[i] = 0
	}
	if err := a.layer.setFATEntry(b, Unallocated); err != nil {
		return err
	}
	a.free.Set(int(b), true)
	return nil
}
