package defrag_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/cards"
	"github.com/dreamsync/vmufs/directory"
	"github.com/dreamsync/vmufs/vmufile"
	"github.com/dreamsync/vmufs/vmutesting"
)

func TestDefragment_PreservesFilesAndBlocksUsed(t *testing.T) {
	h, err := vmutesting.NewFormattedCard()
	require.NoError(t, err)

	data1 := []byte("first save data")
	data2 := []byte("second save data, a bit longer than the first one")

	_, _, err = h.Engine.Create(vmufile.NewFileProperties{
		FileName: "SAVE1", FileSizeBytes: len(data1), FileType: directory.TypeData,
	}, data1)
	require.NoError(t, err)

	_, _, err = h.Engine.Create(vmufile.NewFileProperties{
		FileName: "SAVE2", FileSizeBytes: len(data2), FileType: directory.TypeData,
	}, data2)
	require.NoError(t, err)

	usageBefore, err := h.Layer.MemUsage()
	require.NoError(t, err)

	ok, err := h.Defrag.Defragment(-1)
	require.NoError(t, err)
	require.True(t, ok)

	count, err := h.Dir.FileCount()
	require.NoError(t, err)
	require.Equal(t, 2, count)

	usageAfter, err := h.Layer.MemUsage()
	require.NoError(t, err)
	require.Equal(t, usageBefore.BlocksUsed, usageAfter.BlocksUsed)

	entry, _, found, err := h.Dir.Find("SAVE1")
	require.NoError(t, err)
	require.True(t, found)

	buf := make([]byte, len(data1))
	n, err := h.Engine.Read(entry, buf, 0, true)
	require.NoError(t, err)
	require.Equal(t, len(data1), n)
	require.Equal(t, data1, buf)
}

func TestDefragment_FreesContiguousSpaceForGame(t *testing.T) {
	// A 6-user-block card makes the fragmentation easy to engineer exactly:
	// six 1-block "PAD" DATA files fill every user block (descending
	// allocation puts the first one created at block 5 down to the sixth at
	// block 0), then deleting the first two created frees blocks 5 and 4
	// while block 0 stays occupied by the sixth -- ContiguousFreeFromZero is
	// 0 even though 2 blocks
	// are free overall, which is exactly the fragmented-but-not-full state
	// spec.md section 8 scenario 5 describes.
	preset := cards.DefaultPreset()
	preset.UserSize = 6
	h, err := vmutesting.NewFormattedCardWithPreset(preset)
	require.NoError(t, err)

	var toDelete []struct {
		index int
		entry directory.Entry
	}
	for i := 0; i < 6; i++ {
		entry, index, err := h.Engine.Create(vmufile.NewFileProperties{
			FileName: "PAD", FileSizeBytes: blocks.BlockSize, FileType: directory.TypeData,
		}, make([]byte, blocks.BlockSize))
		require.NoError(t, err)
		if i < 2 {
			toDelete = append(toDelete, struct {
				index int
				entry directory.Entry
			}{index, entry})
		}
	}
	for _, f := range toDelete {
		_, err := h.Engine.Delete(f.index, f.entry)
		require.NoError(t, err)
	}

	contiguousBefore, err := h.Layer.ContiguousFreeFromZero()
	require.NoError(t, err)
	require.Equal(t, 0, contiguousBefore)

	usageBefore, err := h.Layer.MemUsage()
	require.NoError(t, err)
	require.Equal(t, 2, usageBefore.BlocksFree)

	entry, _, err := h.Engine.Create(vmufile.NewFileProperties{
		FileName: "GAME1", FileSizeBytes: blocks.BlockSize, FileType: directory.TypeGame,
	}, make([]byte, blocks.BlockSize))
	require.NoError(t, err)

	// Create only succeeds here because the contiguous-space check on the
	// first pass failed and the defrag retry in vmufile.Engine.Create
	// actually ran: per spec.md section 8 scenario 5 / line 249, the GAME
	// file lands at block 0 once the low end has been freed up.
	require.EqualValues(t, 0, entry.FirstBlock)

	count, err := h.Dir.FileCount()
	require.NoError(t, err)
	require.Equal(t, 5, count) // 4 surviving PAD files + GAME1
}
