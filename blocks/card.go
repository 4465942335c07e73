package blocks

import (
	vmuerrors "github.com/dreamsync/vmufs/errors"
)

// Card owns the raw 128 KiB flash buffer. It is the only thing in this module
// that holds a long-lived reference to the byte slice; other components reach
// bytes through a *Layer built on top of a *Card, except the whole-image
// codecs (BIN/DCM), which copy Card.Flash directly.
type Card struct {
	Flash []byte
}

// NewCard wraps an existing byte slice as a card. The slice is used in place,
// not copied; callers that need an isolated snapshot (the defragmenter) must
// copy it themselves first.
func NewCard(flash []byte) (*Card, error) {
	if len(flash) != FlashSize {
		return nil, vmuerrors.ErrDeviceReadError.WithMessage("flash image must be exactly 128 KiB")
	}
	return &Card{Flash: flash}, nil
}

// NewBlankCard allocates a zero-filled 128 KiB flash buffer.
func NewBlankCard() *Card {
	return &Card{Flash: make([]byte, FlashSize)}
}

// PhysicalBlockCount is the number of 512-byte blocks in the physical flash
// buffer. Unlike BlockCount (Layer.BlockCount), this is derived purely from
// the buffer's length and never from any on-flash field, which is what makes
// it safe to use for locating the root block before the root has even been
// parsed.
func (c *Card) PhysicalBlockCount() int {
	return len(c.Flash) / BlockSize
}

// RootBlockIndex is where the root block always lives: the last physical
// block of the card (block 255 on a stock 256-block card).
func (c *Card) RootBlockIndex() BlockID {
	return BlockID(c.PhysicalBlockCount() - 1)
}

// BlockBytes returns a slice view of one block's bytes. Mutating the returned
// slice mutates the card; callers that need an immutable view should copy it.
func (c *Card) BlockBytes(b BlockID) []byte {
	start := int(b) * BlockSize
	return c.Flash[start : start+BlockSize]
}

// Clone returns a card wrapping an independent copy of the flash buffer, used
// by the defragmenter to take its pre-transaction snapshot.
func (c *Card) Clone() *Card {
	dup := make([]byte, len(c.Flash))
	copy(dup, c.Flash)
	return &Card{Flash: dup}
}

// RestoreFrom overwrites this card's flash buffer with src's contents,
// in place, preserving the slice identity callers may hold.
func (c *Card) RestoreFrom(src *Card) {
	copy(c.Flash, src.Flash)
}
