// Package vmufile implements the file engine: create, delete, read, and CRC
// over directory entries and FAT chains (spec.md section 4.3).
package vmufile

import (
	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/directory"
)

// NewFileProperties describes a file to be installed by Create.
type NewFileProperties struct {
	FileName       string
	FileSizeBytes  int
	FileType       directory.FileType
	CopyProtection directory.CopyProtection
}

// Defragmenter is the interface Create calls into when a GAME file needs
// contiguous space freed up. It's declared here, not imported from package
// defrag, because package defrag depends on package vmufile (it calls
// Engine.Create/Delete to reinstall files); a concrete *defrag.Defragmenter
// satisfies this interface structurally with no import cycle. The device
// package wires the two together after constructing both.
type Defragmenter interface {
	Defragment(newUserSize int) (bool, error)
}

// Engine composes the block and directory layers into the file-level
// operations of spec.md section 4.3. Defrag is left nil until the owning
// device package wires it in; Create only needs it for the GAME
// insufficient-contiguous-space retry path.
type Engine struct {
	Layer  *blocks.Layer
	Dir    *directory.Directory
	Alloc  *blocks.Allocator
	Defrag Defragmenter
}

// New builds a file engine over the given layers.
func New(layer *blocks.Layer, dir *directory.Directory, alloc *blocks.Allocator) *Engine {
	return &Engine{Layer: layer, Dir: dir, Alloc: alloc}
}

func allocationDirectionFor(t directory.FileType) blocks.AllocationDirection {
	if t == directory.TypeGame {
		return blocks.Ascending
	}
	return blocks.Descending
}
