// Package device composes the block, directory, file-engine, and
// defragmenter layers into a single VMU flash image, and implements
// formatting and the host-file import/export codecs that sit above all of
// them (spec.md section 2's dependency order).
package device

import (
	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/defrag"
	"github.com/dreamsync/vmufs/directory"
	"github.com/dreamsync/vmufs/vmufile"
)

// Device is a fully wired VMU flash image: every layer from spec.md section 2
// over one shared card. Construct it with Open, FormatDefault, or
// FormatWithPreset rather than
// building the zero value directly, so Engine.Defrag is always wired.
type Device struct {
	Card   *blocks.Card
	Layer  *blocks.Layer
	Dir    *directory.Directory
	Alloc  *blocks.Allocator
	Engine *vmufile.Engine
	Defrag *defrag.Defragmenter
}

// Open wires every layer over an already-formatted card. Use FormatDefault or
// FormatWithPreset to build a fresh one instead.
func Open(card *blocks.Card) (*Device, error) {
	layer := blocks.NewLayer(card)
	if !layer.CheckFormatted() {
		return nil, errFlashUnformatted()
	}
	return wireDevice(card)
}

// wireDevice builds every layer (directory, allocator, engine, defragmenter)
// over an already-formatted card and wires the file engine's defragmenter
// hook, without re-checking the format sentinel.
func wireDevice(card *blocks.Card) (*Device, error) {
	layer := blocks.NewLayer(card)
	dir := directory.New(layer)
	alloc, err := blocks.NewAllocator(layer)
	if err != nil {
		return nil, fail(err)
	}
	engine := vmufile.New(layer, dir, alloc)
	defragmenter := defrag.New(engine, card)
	engine.Defrag = defragmenter

	return &Device{
		Card:   card,
		Layer:  layer,
		Dir:    dir,
		Alloc:  alloc,
		Engine: engine,
		Defrag: defragmenter,
	}, nil
}
