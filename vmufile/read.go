package vmufile

import (
	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/directory"
)

// Read walks entry's FAT chain, copying up to len(buffer) bytes starting at
// offset bytes into the file's logical content into buffer, and returns the
// number of bytes actually delivered.
//
// When includeHeader is false, the block at chain position entry.HeaderOffset
// (0 for DATA, 1 for GAME) is skipped: its bytes never enter the logical
// stream that offset/buffer address, but the chain walk still passes through
// it. This is how a GAME file is read without its single-block VMS header
// (spec.md section 4.3).
func (eng *Engine) Read(entry directory.Entry, buffer []byte, offset int, includeHeader bool) (int, error) {
	delivered := 0
	logicalPos := 0
	hopIndex := 0
	b := blocks.BlockID(entry.FirstBlock)
	headerOffset := int(entry.HeaderOffset)

	for delivered < len(buffer) {
		skip := !includeHeader && hopIndex == headerOffset
		if !skip {
			blockBytes := eng.Layer.BlockBytes(b)
			blockStart := logicalPos
			blockEnd := logicalPos + len(blockBytes)

			if blockEnd > offset && delivered < len(buffer) {
				readStart := 0
				if offset > blockStart {
					readStart = offset - blockStart
				}
				n := copy(buffer[delivered:], blockBytes[readStart:])
				delivered += n
			}
			logicalPos = blockEnd
		}

		next := eng.Layer.BlockNext(b)
		if next == blocks.LastInFile || next == blocks.Unallocated {
			break
		}
		b = next
		hopIndex++
	}

	return delivered, nil
}
