package directory

import (
	"github.com/dreamsync/vmufs/blocks"
)

// entriesPerBlock is how many 32-byte entries fit in one 512-byte block.
const entriesPerBlock = blocks.BlockSize / EntrySize

// Reserved well-known filenames (spec.md section 4.5).
const (
	IconDataVMSName = "ICONDATA.VMS"
	ExtraBgPVRName  = "extra.pvr"
)

// Directory is the flat directory table view over a card's directory blocks.
// Entries are indexed top-down: entry 0 is the first entry of the block at
// address root.DirBlock-(root.DirSize-1) (spec.md section 4.2).
type Directory struct {
	layer *blocks.Layer
}

// New wraps layer with the directory-layer view.
func New(layer *blocks.Layer) *Directory {
	return &Directory{layer: layer}
}

// firstDirBlock returns the lowest-numbered block in the directory's
// descending range.
func (d *Directory) firstDirBlock(root blocks.RootBlock) blocks.BlockID {
	return blocks.BlockID(int(root.DirBlock) - int(root.DirSize) + 1)
}

// entryLocation returns the block and in-block byte offset for entry index i.
func (d *Directory) entryLocation(root blocks.RootBlock, i int) (blocks.BlockID, int) {
	block := d.firstDirBlock(root) + blocks.BlockID(i/entriesPerBlock)
	offset := (i % entriesPerBlock) * EntrySize
	return block, offset
}

// Count returns the total number of directory entries.
func (d *Directory) Count() (int, error) {
	root, err := d.layer.Root()
	if err != nil {
		return 0, err
	}
	return int(root.DirSize) * entriesPerBlock, nil
}

// ByIndex decodes and returns entry i.
func (d *Directory) ByIndex(i int) (Entry, error) {
	root, err := d.layer.Root()
	if err != nil {
		return Entry{}, err
	}
	return d.byIndexWithRoot(root, i)
}

func (d *Directory) byIndexWithRoot(root blocks.RootBlock, i int) (Entry, error) {
	block, offset := d.entryLocation(root, i)
	raw := d.layer.BlockBytes(block)[offset : offset+EntrySize]
	return decodeEntry(raw)
}

// setByIndex encodes and writes entry at index i.
func (d *Directory) setByIndex(root blocks.RootBlock, i int, e Entry) error {
	raw, err := e.encode()
	if err != nil {
		return err
	}
	block, offset := d.entryLocation(root, i)
	copy(d.layer.BlockBytes(block)[offset:offset+EntrySize], raw)
	return nil
}

// SetByIndex writes entry e at index i, looking up the root block itself.
func (d *Directory) SetByIndex(i int, e Entry) error {
	root, err := d.layer.Root()
	if err != nil {
		return err
	}
	return d.setByIndex(root, i, e)
}

// Find returns the first live DATA/GAME entry whose name prefix-matches name.
func (d *Directory) Find(name string) (Entry, int, bool, error) {
	count, err := d.Count()
	if err != nil {
		return Entry{}, 0, false, err
	}
	for i := 0; i < count; i++ {
		e, err := d.ByIndex(i)
		if err != nil {
			return Entry{}, 0, false, err
		}
		if e.IsLive() && e.NameMatches(name) {
			return e, i, true, nil
		}
	}
	return Entry{}, 0, false, nil
}

// FindGame returns the single GAME entry, if any.
func (d *Directory) FindGame() (Entry, int, bool, error) {
	count, err := d.Count()
	if err != nil {
		return Entry{}, 0, false, err
	}
	for i := 0; i < count; i++ {
		e, err := d.ByIndex(i)
		if err != nil {
			return Entry{}, 0, false, err
		}
		if e.Type == TypeGame {
			return e, i, true, nil
		}
	}
	return Entry{}, 0, false, nil
}

// FindIconData finds the reserved ICONDATA.VMS entry.
func (d *Directory) FindIconData() (Entry, int, bool, error) {
	return d.Find(IconDataVMSName)
}

// FindExtraBgPVR finds the reserved extra background PVR entry.
func (d *Directory) FindExtraBgPVR() (Entry, int, bool, error) {
	return d.Find(ExtraBgPVRName)
}

// EntryAlloc returns the index of the first free entry (type not DATA and not
// GAME), or false if the directory is full.
func (d *Directory) EntryAlloc() (int, bool, error) {
	count, err := d.Count()
	if err != nil {
		return 0, false, err
	}
	for i := 0; i < count; i++ {
		e, err := d.ByIndex(i)
		if err != nil {
			return 0, false, err
		}
		if !e.IsLive() {
			return i, true, nil
		}
	}
	return 0, false, nil
}

// EntryFree zeroes the 32 bytes at index i. It does not free the entry's FAT
// chain; callers must free blocks first (spec.md section 4.2).
func (d *Directory) EntryFree(i int) error {
	root, err := d.layer.Root()
	if err != nil {
		return err
	}
	block, offset := d.entryLocation(root, i)
	region := d.layer.BlockBytes(block)[offset : offset+EntrySize]
	for j := range region {
		region[j] = 0
	}
	return nil
}

// IsIconDataVMS reports whether e's name is the reserved ICONDATA.VMS name
// (supplemented from original_source's gyVmuFlashIsIconDataVms).
func IsIconDataVMS(e *Entry) bool {
	return e.NameMatches(IconDataVMSName)
}

// IsExtraBgPVR reports whether e's name is the reserved extra background PVR
// name (supplemented from original_source's gyVmuFlashIsExtraBgPvr).
func IsExtraBgPVR(e *Entry) bool {
	return e.NameMatches(ExtraBgPVRName)
}
