package blocks

import (
	"encoding/binary"

	vmuerrors "github.com/dreamsync/vmufs/errors"
)

// Layer is the typed block-layer view over a card's flash buffer: root block
// accessor, FAT entry accessor, and block-contents accessor (spec.md
// section 4.1). Every operation above this layer goes through a Layer rather
// than touching Card.Flash directly, except the whole-image BIN/DCM codecs.
type Layer struct {
	card *Card
}

// NewLayer wraps a card with the block-layer view.
func NewLayer(card *Card) *Layer {
	return &Layer{card: card}
}

// Card returns the underlying card this layer reads and writes through.
func (l *Layer) Card() *Card {
	return l.card
}

// Root decodes and returns the root block.
func (l *Layer) Root() (RootBlock, error) {
	return DecodeRootBlock(l.card.BlockBytes(l.card.RootBlockIndex()))
}

// SetRoot encodes root and writes it back to the root block's fixed location.
func (l *Layer) SetRoot(root RootBlock) error {
	raw, err := root.Encode()
	if err != nil {
		return err
	}
	copy(l.card.BlockBytes(l.card.RootBlockIndex()), raw)
	return nil
}

// fatBytes returns the slice of the flash buffer backing the FAT, spanning
// root.FATBlock through root.FATBlock+root.FATSize-1 (ascending, contiguous;
// see spec.md section 6's layout table).
func (l *Layer) fatBytes(root RootBlock) []byte {
	start := int(root.FATBlock) * BlockSize
	length := int(root.FATSize) * BlockSize
	return l.card.Flash[start : start+length]
}

// BlockCount returns the number of addressable blocks, derived from FAT
// sizing rather than RootBlock.TotalSize: spec.md section 4.1 calls out
// TotalSize as known-unreliable on Sega-formatted cards.
func (l *Layer) BlockCount() (int, error) {
	root, err := l.Root()
	if err != nil {
		return 0, err
	}
	return int(root.FATSize) * BlockSize / 2, nil
}

// UserDataBlocks returns root.UserSize, the other field spec.md section 4.1
// says to trust over TotalSize.
func (l *Layer) UserDataBlocks() (int, error) {
	root, err := l.Root()
	if err != nil {
		return 0, err
	}
	return int(root.UserSize), nil
}

// CheckFormatted reports whether the root block carries the format sentinel.
func (l *Layer) CheckFormatted() bool {
	root, err := l.Root()
	if err != nil {
		return false
	}
	return root.IsFormatted()
}

// FATEntry returns the raw FAT entry for block b.
func (l *Layer) FATEntry(b BlockID) (BlockID, error) {
	root, err := l.Root()
	if err != nil {
		return Unallocated, err
	}
	fat := l.fatBytes(root)
	count := len(fat) / 2
	if int(b) >= count {
		return Unallocated, vmuerrors.ErrDeviceReadError.WithMessage("FAT entry index out of range")
	}
	return BlockID(binary.LittleEndian.Uint16(fat[int(b)*2:])), nil
}

// setFATEntry writes a raw FAT entry for block b.
func (l *Layer) setFATEntry(b BlockID, value BlockID) error {
	root, err := l.Root()
	if err != nil {
		return err
	}
	fat := l.fatBytes(root)
	count := len(fat) / 2
	if int(b) >= count {
		return vmuerrors.ErrDeviceWriteError.WithMessage("FAT entry index out of range")
	}
	binary.LittleEndian.PutUint16(fat[int(b)*2:], uint16(value))
	return nil
}

// SetFATEntry writes a raw FAT entry for block b. Exposed for the device
// package's formatter; ordinary chain mutation goes through Allocator instead.
func (l *Layer) SetFATEntry(b BlockID, value BlockID) error {
	return l.setFATEntry(b, value)
}

// BlockNext returns UNALLOCATED if b is out of range, otherwise fat[b]. This
// never errors; out-of-range lookups are expected from chain walks that guard
// against corruption (spec.md section 4.1).
func (l *Layer) BlockNext(b BlockID) BlockID {
	next, err := l.FATEntry(b)
	if err != nil {
		return Unallocated
	}
	return next
}

// BlockBytes returns the 512 content bytes of block b (the user-data region,
// not the FAT entry).
func (l *Layer) BlockBytes(b BlockID) []byte {
	return l.card.BlockBytes(b)
}

// ContiguousFreeFromZero returns the number of consecutive UNALLOCATED blocks
// starting at block 0, used by file_create to decide whether a GAME file
// needs a defragmentation pass first.
func (l *Layer) ContiguousFreeFromZero() (int, error) {
	userBlocks, err := l.UserDataBlocks()
	if err != nil {
		return 0, err
	}

	count := 0
	for b := 0; b < userBlocks; b++ {
		entry, err := l.FATEntry(BlockID(b))
		if err != nil {
			return count, err
		}
		if entry != Unallocated {
			break
		}
		count++
	}
	return count, nil
}

// MemUsage tallies free/used/damaged/hidden blocks per spec.md section 8
// property 9.
func (l *Layer) MemUsage() (MemUsage, error) {
	root, err := l.Root()
	if err != nil {
		return MemUsage{}, err
	}

	userBlocks := int(root.UserSize)
	usage := MemUsage{}
	for b := 0; b < userBlocks; b++ {
		entry, err := l.FATEntry(BlockID(b))
		if err != nil {
			return MemUsage{}, err
		}
		switch entry {
		case Unallocated:
			usage.BlocksFree++
		case Damaged:
			usage.BlocksDamaged++
		default:
			usage.BlocksUsed++
		}
	}

	totalBlocks, err := l.BlockCount()
	if err != nil {
		return MemUsage{}, err
	}
	usage.BlocksHidden = totalBlocks - int(root.FATSize) - int(root.DirSize) - 1 - userBlocks
	return usage, nil
}
