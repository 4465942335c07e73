package blocks

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	vmuerrors "github.com/dreamsync/vmufs/errors"
)

// ChainWalker is satisfied by the directory layer; it's defined here (rather
// than imported from package directory) to avoid a dependency cycle, since
// the directory layer itself depends on package blocks.
type ChainWalker interface {
	// Chains returns, for every live DATA/GAME entry, its first block and its
	// recorded file size in blocks.
	Chains() (firstBlocks []BlockID, fileSizes []int, gameCount int, err error)
}

// CheckInvariants validates spec.md section 3's invariants 1-6 against the
// current state of layer (and, transitively, its directory via dir).
// Every violation found is accumulated rather than stopping at the first, via
// hashicorp/go-multierror, the same way the defragmenter accumulates
// rollback causes.
func CheckInvariants(layer *Layer, dir ChainWalker) error {
	var result *multierror.Error

	root, err := layer.Root()
	if err != nil {
		return multierror.Append(result, err)
	}

	userBlocks := int(root.UserSize)
	reached := make(map[BlockID]bool)

	firstBlocks, fileSizes, gameCount, err := dir.Chains()
	if err != nil {
		result = multierror.Append(result, err)
	}

	// Invariant 3: at most one GAME entry.
	if gameCount > 1 {
		result = multierror.Append(result, fmt.Errorf("invariant 3 violated: %d GAME entries found", gameCount))
	}

	for i, first := range firstBlocks {
		expectedHops := fileSizes[i]
		hops := 0
		b := first
		ok := true
		for {
			if int(b) < 0 || int(b) >= userBlocks {
				result = multierror.Append(result, fmt.Errorf(
					"invariant 1 violated: chain starting at block %d left user range at block %d", first, b))
				ok = false
				break
			}
			if reached[b] {
				result = multierror.Append(result, fmt.Errorf(
					"invariant 4 violated: block %d reachable from more than one file", b))
			}
			reached[b] = true
			hops++

			next, err := layer.FATEntry(b)
			if err != nil {
				result = multierror.Append(result, err)
				ok = false
				break
			}
			if next == LastInFile {
				break
			}
			if hops > userBlocks {
				result = multierror.Append(result, fmt.Errorf(
					"invariant 1 violated: chain starting at block %d does not terminate", first))
				ok = false
				break
			}
			b = next
		}
		if ok && hops != expectedHops {
			result = multierror.Append(result, fmt.Errorf(
				"invariant 1 violated: chain starting at block %d took %d hops, directory says %d",
				first, hops, expectedHops))
		}
	}

	// Invariant 2: the root block, the FAT region, and the directory region
	// each form a self-terminating chain (spec.md section 4.6). The root
	// block is a one-block chain; the FAT and directory regions are
	// descending chains starting at their highest-numbered block, each
	// non-terminal entry pointing to its predecessor, with the lowest
	// block LAST_IN_FILE -- the same shape device.writeDescendingChain and
	// vmutesting's copy of it write, not "every member block is
	// LAST_IN_FILE".
	checkReservedChain := func(label string, start BlockID, count int) {
		b := start
		hops := 0
		for {
			entry, err := layer.FATEntry(b)
			if err != nil {
				result = multierror.Append(result, err)
				return
			}
			hops++
			if entry == LastInFile {
				break
			}
			if hops >= count {
				result = multierror.Append(result, fmt.Errorf(
					"invariant 2 violated: %s chain starting at block %d does not terminate within %d blocks",
					label, start, count))
				return
			}
			if entry != b-1 {
				result = multierror.Append(result, fmt.Errorf(
					"invariant 2 violated: %s chain block %d does not point to its predecessor", label, b))
				return
			}
			b = entry
		}
		if hops != count {
			result = multierror.Append(result, fmt.Errorf(
				"invariant 2 violated: %s chain terminated after %d blocks, expected %d", label, hops, count))
		}
	}

	checkReservedChain("root", BlockID(root.RootBlockIndex), 1)
	checkReservedChain("FAT", BlockID(root.FATBlock+root.FATSize-1), int(root.FATSize))
	checkReservedChain("directory", BlockID(root.DirBlock), int(root.DirSize))

	// Invariant 5: UNALLOCATED set equals user blocks minus reachable minus
	// damaged.
	for b := 0; b < userBlocks; b++ {
		entry, err := layer.FATEntry(BlockID(b))
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		isUnallocated := entry == Unallocated
		isDamaged := entry == Damaged
		isReached := reached[BlockID(b)]
		if isUnallocated && (isReached || isDamaged) {
			result = multierror.Append(result, fmt.Errorf(
				"invariant 5 violated: block %d marked UNALLOCATED but reached=%v damaged=%v",
				b, isReached, isDamaged))
		}
		if !isUnallocated && !isReached && !isDamaged {
			result = multierror.Append(result, fmt.Errorf(
				"invariant 5 violated: block %d neither UNALLOCATED, damaged, nor reachable", b))
		}
	}

	// Invariant 6: UserSize <= TotalSize - FATSize - DirSize - 1.
	totalBlocks, err := layer.BlockCount()
	if err != nil {
		result = multierror.Append(result, err)
	} else if userBlocks > totalBlocks-int(root.FATSize)-int(root.DirSize)-1 {
		result = multierror.Append(result, fmt.Errorf(
			"invariant 6 violated: UserSize %d exceeds available %d",
			userBlocks, totalBlocks-int(root.FATSize)-int(root.DirSize)-1))
	}

	if err := result.ErrorOrNil(); err != nil {
		return vmuerrors.ErrConsistency.WrapError(err)
	}
	return nil
}
