package vmufile

import (
	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/directory"
	vmuerrors "github.com/dreamsync/vmufs/errors"
)

func isReservedName(name string) bool {
	return name == directory.IconDataVMSName || name == directory.ExtraBgPVRName
}

// checkReservedNameDuplicate rejects a second entry under one of the two
// reserved well-known names. Generic (non-reserved) duplicate filenames are
// not rejected: spec.md section 9 leaves that open and the original firmware
// carries the check commented out in two places; only the reserved-name
// check is live, per spec.md section 4.5's last paragraph.
func (eng *Engine) checkReservedNameDuplicate(name string) error {
	if !isReservedName(name) {
		return nil
	}
	_, _, found, err := eng.Dir.Find(name)
	if err != nil {
		return err
	}
	if found {
		return vmuerrors.ErrNameDuplicate.WithMessage(name)
	}
	return nil
}

// Create installs a new file, following spec.md section 4.3's contract in
// order: GAME-duplicate check, free-space check, contiguous-space check
// (with a defragmentation retry for GAME files), directory-slot allocation,
// field population, block-chain allocation, and payload copy. Any failure
// from the block-allocation step onward leaves the card exactly as it was
// before this call (spec.md section 8 property 5).
func (eng *Engine) Create(props NewFileProperties, data []byte) (directory.Entry, int, error) {
	if props.FileType == directory.TypeGame {
		_, _, found, err := eng.Dir.FindGame()
		if err != nil {
			return directory.Entry{}, 0, err
		}
		if found {
			return directory.Entry{}, 0, vmuerrors.ErrGameDuplicate
		}
	}

	blocksRequired := bytesToBlocks(props.FileSizeBytes)

	usage, err := eng.Layer.MemUsage()
	if err != nil {
		return directory.Entry{}, 0, err
	}
	if usage.BlocksFree < blocksRequired {
		return directory.Entry{}, 0, vmuerrors.ErrInadequateFreeBlocks
	}

	if props.FileType == directory.TypeGame {
		contiguous, err := eng.Layer.ContiguousFreeFromZero()
		if err != nil {
			return directory.Entry{}, 0, err
		}
		if contiguous < blocksRequired {
			if eng.Defrag == nil {
				return directory.Entry{}, 0, vmuerrors.ErrDefragFailed
			}
			if _, err := eng.Defrag.Defragment(-1); err != nil {
				return directory.Entry{}, 0, vmuerrors.ErrDefragFailed.WrapError(err)
			}
			if err := eng.Alloc.Resync(); err != nil {
				return directory.Entry{}, 0, err
			}
			contiguous, err = eng.Layer.ContiguousFreeFromZero()
			if err != nil {
				return directory.Entry{}, 0, err
			}
			if contiguous < blocksRequired {
				return directory.Entry{}, 0, vmuerrors.ErrDefragFailed
			}
		}
	}

	if err := eng.checkReservedNameDuplicate(props.FileName); err != nil {
		return directory.Entry{}, 0, err
	}

	index, found, err := eng.Dir.EntryAlloc()
	if err != nil {
		return directory.Entry{}, 0, err
	}
	if !found {
		return directory.Entry{}, 0, vmuerrors.ErrFilesMaxed
	}

	var entry directory.Entry
	entry.Type = props.FileType
	entry.CopyProtect = props.CopyProtection
	entry.SetName(props.FileName)
	entry.FileSize = uint16(blocksRequired)
	if props.FileType == directory.TypeData {
		entry.HeaderOffset = 0
	} else {
		entry.HeaderOffset = 1
	}
	entry.Timestamp = blocks.EncodeBCDTimestamp(nowFunc())

	direction := allocationDirectionFor(props.FileType)
	allocated := make([]blocks.BlockID, 0, blocksRequired)
	previous := blocks.Unallocated
	for i := 0; i < blocksRequired; i++ {
		chosen, err := eng.Alloc.Allocate(previous, direction)
		if err != nil || chosen == blocks.Unallocated {
			eng.rollbackAllocation(allocated, index)
			if err != nil {
				return directory.Entry{}, 0, err
			}
			return directory.Entry{}, 0, vmuerrors.ErrInadequateFreeBlocks
		}
		allocated = append(allocated, chosen)
		previous = chosen
	}

	for i, b := range allocated {
		chunk := eng.Layer.BlockBytes(b)
		start := i * blocks.BlockSize
		end := start + blocks.BlockSize
		if start >= len(data) {
			break
		}
		if end > len(data) {
			end = len(data)
		}
		copy(chunk, data[start:end])
	}

	entry.FirstBlock = uint16(allocated[0])
	if err := eng.Dir.SetByIndex(index, entry); err != nil {
		eng.rollbackAllocation(allocated, index)
		return directory.Entry{}, 0, err
	}

	return entry, index, nil
}

// rollbackAllocation frees every block allocated so far and clears the
// directory slot, restoring pre-call state after a failed Create.
func (eng *Engine) rollbackAllocation(allocated []blocks.BlockID, index int) {
	for _, b := range allocated {
		_ = eng.Alloc.Free(b)
	}
	_ = eng.Dir.EntryFree(index)
}
