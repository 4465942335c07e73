package vmufile

import (
	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/directory"
)

// Delete walks the FAT chain from entry.FirstBlock, freeing each block in
// turn, then frees the directory slot. If the chain hits UNALLOCATED before
// LAST_IN_FILE, the walk stops and reports the partial count: the card is
// corrupt at that point and spec.md section 4.3 leaves the response to that
// up to the caller.
func (eng *Engine) Delete(index int, entry directory.Entry) (int, error) {
	freed := 0
	b := blocks.BlockID(entry.FirstBlock)

	for {
		next := eng.Layer.BlockNext(b)
		if err := eng.Alloc.Free(b); err != nil {
			return freed, err
		}
		freed++
		if next == blocks.LastInFile {
			break
		}
		if next == blocks.Unallocated {
			break
		}
		b = next
	}

	if err := eng.Dir.EntryFree(index); err != nil {
		return freed, err
	}
	return freed, nil
}
