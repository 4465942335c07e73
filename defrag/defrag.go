// Package defrag implements the defragmentation transaction: snapshot the
// card, uninstall every file, then reinstall each one, rolling back to the
// snapshot on any failure (spec.md section 4.4).
package defrag

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/directory"
	vmuerrors "github.com/dreamsync/vmufs/errors"
	"github.com/dreamsync/vmufs/vmufile"
)

// Defragmenter runs defragmentation passes against a live engine. It
// satisfies vmufile.Defragmenter structurally; vmufile never imports this
// package.
type Defragmenter struct {
	Engine *vmufile.Engine
	Card   *blocks.Card
}

// New builds a defragmenter over the given live engine and its backing card.
func New(engine *vmufile.Engine, card *blocks.Card) *Defragmenter {
	return &Defragmenter{Engine: engine, Card: card}
}

type installedFile struct {
	index int
	entry directory.Entry
}

// Defragment runs the transaction described in spec.md section 4.4. If
// newUserSize is negative, the card's user size is left unchanged; otherwise
// it's written into the live root before files are reinstalled. Defragment
// returns (true, nil) on success, or (false, err) after restoring the card
// to its exact pre-call state, with err describing every cause of rollback
// accumulated so far.
func (d *Defragmenter) Defragment(newUserSize int) (bool, error) {
	snapshot := d.Card.Clone()
	snapshotLayer := blocks.NewLayer(snapshot)

	n, err := d.Engine.Dir.FileCount()
	if err != nil {
		return false, err
	}

	files := make([]installedFile, 0, n)
	for k := 0; k < n; k++ {
		entry, index, ok, err := d.Engine.Dir.FileAtIndex(k)
		if err != nil {
			return false, err
		}
		if !ok {
			break
		}
		files = append(files, installedFile{index: index, entry: entry})
	}

	originalSizeSum := 0
	for _, f := range files {
		originalSizeSum += int(f.entry.FileSize)
	}

	freedTotal := 0
	for _, f := range files {
		freed, err := d.Engine.Delete(f.index, f.entry)
		freedTotal += freed
		if err != nil || freed == 0 {
			return d.rollback(snapshot, multierror.Append(
				nil, fmt.Errorf("delete of %q failed or freed nothing: %w", f.entry.Name(), err)))
		}
	}

	if count, err := d.Engine.Dir.FileCount(); err != nil || count != 0 {
		return d.rollback(snapshot, fmt.Errorf("directory not empty after delete pass: count=%d err=%v", count, err))
	}
	if freedTotal != originalSizeSum {
		return d.rollback(snapshot, fmt.Errorf(
			"freed %d blocks but originals totaled %d", freedTotal, originalSizeSum))
	}
	usage, err := d.Engine.Layer.MemUsage()
	if err != nil || usage.BlocksFree < freedTotal {
		return d.rollback(snapshot, fmt.Errorf("free blocks %d less than freed total %d (err=%v)", usage.BlocksFree, freedTotal, err))
	}

	if newUserSize >= 0 {
		root, err := d.Engine.Layer.Root()
		if err != nil {
			return d.rollback(snapshot, err)
		}
		root.UserSize = uint16(newUserSize)
		if err := d.Engine.Layer.SetRoot(root); err != nil {
			return d.rollback(snapshot, err)
		}
		if err := d.Engine.Alloc.Resync(); err != nil {
			return d.rollback(snapshot, err)
		}
	}

	for _, f := range files {
		dataLen := int(f.entry.FileSize) * blocks.BlockSize
		data := make([]byte, dataLen)
		if _, err := readFromSnapshot(snapshotLayer, f.entry, data); err != nil {
			return d.rollback(snapshot, err)
		}

		props := vmufile.NewFileProperties{
			FileName:       f.entry.Name(),
			FileSizeBytes:  dataLen,
			FileType:       f.entry.Type,
			CopyProtection: f.entry.CopyProtect,
		}
		if _, _, err := d.Engine.Create(props, data); err != nil {
			return d.rollback(snapshot, fmt.Errorf("reinstall of %q failed: %w", f.entry.Name(), err))
		}
	}

	finalCount, err := d.Engine.Dir.FileCount()
	if err != nil || finalCount != len(files) {
		return d.rollback(snapshot, fmt.Errorf("final file count %d != expected %d (err=%v)", finalCount, len(files), err))
	}
	finalUsage, err := d.Engine.Layer.MemUsage()
	if err != nil || finalUsage.BlocksUsed != originalSizeSum {
		return d.rollback(snapshot, fmt.Errorf(
			"final blocks used %d != original %d (err=%v)", finalUsage.BlocksUsed, originalSizeSum, err))
	}

	return true, nil
}

// readFromSnapshot reads entry's full block-rounded content from the
// immutable snapshot, treating the snapshot as a complete device of its own
// (spec.md section 9's "snapshot as a complete immutable device" note).
func readFromSnapshot(snapshotLayer *blocks.Layer, entry directory.Entry, buffer []byte) (int, error) {
	readEngine := vmufile.New(snapshotLayer, nil, nil)
	return readEngine.Read(entry, buffer, 0, true)
}

// rollback restores the card from snapshot, resyncs the live allocator, and
// returns false with cause wrapped in ErrDefragFailed.
func (d *Defragmenter) rollback(snapshot *blocks.Card, cause error) (bool, error) {
	d.Card.RestoreFrom(snapshot)
	if err := d.Engine.Alloc.Resync(); err != nil {
		cause = multierror.Append(multierror.Append(nil, cause), err)
	}
	if cause == nil {
		cause = vmuerrors.ErrDefragFailed
	}
	return false, vmuerrors.ErrDefragFailed.WrapError(cause)
}
