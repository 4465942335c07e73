package device

import (
	"time"

	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/cards"
)

// FormatDefault formats a blank card with the stock Sega layout
// (cards.DefaultPreset) and wires a fresh Device over it.
func FormatDefault() (*Device, error) {
	return FormatWithPreset(cards.DefaultPreset())
}

// FormatWithPreset formats a blank card with preset's geometry.
func FormatWithPreset(preset cards.Preset) (*Device, error) {
	card := blocks.NewBlankCard()
	if err := writeRoot(card, preset); err != nil {
		return nil, fail(err)
	}
	return wireDevice(card)
}

// writeRoot builds and writes the root block for a freshly formatted card,
// per spec.md section 4.1's format_default().
func writeRoot(card *blocks.Card, preset cards.Preset) error {
	var root blocks.RootBlock
	for i := range root.FormatMarker {
		root.FormatMarker[i] = blocks.FormatSentinelByte
	}
	root.FormatMarker[15] = 0x00 // check_formatted only requires the first 15

	root.TotalSize = preset.TotalBlocks
	root.PartitionNumber = 0
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
	root.SetTimestamp(time.Now())

	layer := blocks.NewLayer(card)
	if err := layer.SetRoot(root); err != nil {
		return err
	}

	// Every FAT entry starts UNALLOCATED; the root, FAT, and directory
	// blocks are then overwritten below with self-terminating chains
	// (spec.md section 4.6).
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

	// Clear the directory region.
	firstDirBlock := int(preset.DirBlock) - int(preset.DirSize) + 1
	for b := firstDirBlock; b <= int(preset.DirBlock); b++ {
		region := layer.BlockBytes(blocks.BlockID(b))
		for i := range region {
			region[i] = 0
		}
	}

	return nil
}

// writeDescendingChain marks count blocks ending at highBlock (inclusive) as
// a descending self-contained chain: each non-terminal block's FAT entry
// points to its predecessor, and the lowest-numbered block is LAST_IN_FILE.
// Used for the FAT region and the directory region (spec.md section 4.6).
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
