// Package vmutesting collects test helpers shared across this module's
// package-level tests, grounded on the teacher's fat8 formatting-test
// helpers (NewBlankCard/NewFormattedCard stand in for the teacher's
// embedded golden images; FirstDifference is lifted near-verbatim).
package vmutesting

import (
	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/cards"
	"github.com/dreamsync/vmufs/defrag"
	"github.com/dreamsync/vmufs/directory"
	"github.com/dreamsync/vmufs/vmufile"
)

// FirstDifference returns the index of the first byte at which left and
// right differ, or -1 if they're identical. Differing lengths return the
// length of the longer slice.
func FirstDifference(left, right []byte) int {
	if len(left) > len(right) {
		return len(left)
	} else if len(right) > len(left) {
		return len(right)
	}
	for i := 0; i < len(left); i++ {
		if left[i] != right[i] {
			return i
		}
	}
	return -1
}

// NewBlankCard returns an unformatted, zero-filled 128 KiB card.
func NewBlankCard() *blocks.Card {
	return blocks.NewBlankCard()
}

// Harness bundles every layer over one card, for tests that need to drive
// the engine directly rather than through package device (avoiding a test
// import cycle with device's own tests).
type Harness struct {
	Card   *blocks.Card
	Layer  *blocks.Layer
	Dir    *directory.Directory
	Alloc  *blocks.Allocator
	Engine *vmufile.Engine
	Defrag *defrag.Defragmenter
}

// NewFormattedCard builds a fully wired Harness over a freshly formatted
// stock Sega-layout card.
func NewFormattedCard() (*Harness, error) {
	return NewFormattedCardWithPreset(cards.DefaultPreset())
}

// NewFormattedCardWithPreset is NewFormattedCard parameterized by preset,
// for tests that exercise non-default geometries.
func NewFormattedCardWithPreset(preset cards.Preset) (*Harness, error) {
	card := blocks.NewBlankCard()
	if err := formatCard(card, preset); err != nil {
		return nil, err
	}

	layer := blocks.NewLayer(card)
	dir := directory.New(layer)
	alloc, err := blocks.NewAllocator(layer)
	if err != nil {
		return nil, err
	}
	engine := vmufile.New(layer, dir, alloc)
	defragmenter := defrag.New(engine, card)
	engine.Defrag = defragmenter

	return &Harness{
		Card:   card,
		Layer:  layer,
		Dir:    dir,
		Alloc:  alloc,
		Engine: engine,
		Defrag: defragmenter,
	}, nil
}

// formatCard duplicates device.writeRoot's root and FAT setup, except that it
// leaves the root timestamp zero and does not re-clear the directory region
// (the blank card is already zero-filled). It's kept here, not
// imported from package device, because device's tests (and every other
// package's tests) need a formatter that doesn't depend on package device
// itself.
func formatCard(card *blocks.Card, preset cards.Preset) error {
	var root blocks.RootBlock
	for i := range root.FormatMarker {
		root.FormatMarker[i] = blocks.FormatSentinelByte
	}
	root.FormatMarker[15] = 0x00

	root.TotalSize = preset.TotalBlocks
	root.RootBlockIndex = uint16(card.RootBlockIndex())
	root.FATBlock = preset.FATBlock
	root.FATSize = preset.FATSize
	root.DirBlock = preset.DirBlock
	root.DirSize = preset.DirSize
	root.IconShape = preset.IconShape
	root.UserSize = preset.UserSize
	root.SaveAreaBlock = preset.SaveAreaBlock
	root.SaveAreaSize = preset.SaveAreaSize
	root.ExecFileIndex = 0xFFFF

	layer := blocks.NewLayer(card)
	if err := layer.SetRoot(root); err != nil {
		return err
	}
	for b := uint16(0); b < preset.TotalBlocks; b++ {
		if err := layer.SetFATEntry(blocks.BlockID(b), blocks.Unallocated); err != nil {
			return err
		}
	}

	if err := layer.SetFATEntry(blocks.BlockID(root.RootBlockIndex), blocks.LastInFile); err != nil {
		return err
	}
	if err := writeDescendingChain(layer, blocks.BlockID(preset.FATBlock+preset.FATSize-1), int(preset.FATSize)); err != nil {
		return err
	}
	if err := writeDescendingChain(layer, blocks.BlockID(preset.DirBlock), int(preset.DirSize)); err != nil {
		return err
	}
	return nil
}

// writeDescendingChain mirrors device.writeDescendingChain: it marks count
// blocks ending at highBlock as a descending self-terminating chain.
func writeDescendingChain(layer *blocks.Layer, highBlock blocks.BlockID, count int) error {
	b := highBlock
	for i := 0; i < count; i++ {
		if i == count-1 {
			if err := layer.SetFATEntry(b, blocks.LastInFile); err != nil {
				return err
			}
			break
		}
		if err := layer.SetFATEntry(b, b-1); err != nil {
			return err
		}
		b--
	}
	return nil
}
