package blocks_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/directory"
	"github.com/dreamsync/vmufs/vmufile"
	"github.com/dreamsync/vmufs/vmutesting"
)

func TestCheckInvariants_HoldsOnFreshlyFormattedCard(t *testing.T) {
	h, err := vmutesting.NewFormattedCard()
	require.NoError(t, err)
	require.NoError(t, blocks.CheckInvariants(h.Layer, h.Dir))
}

func TestCheckInvariants_HoldsAfterCreateAndDelete(t *testing.T) {
	h, err := vmutesting.NewFormattedCard()
	require.NoError(t, err)

	entry, index, err := h.Engine.Create(vmufile.NewFileProperties{
		FileName: "SAVE", FileSizeBytes: 1500, FileType: directory.TypeData,
	}, make([]byte, 1500))
	require.NoError(t, err)
	require.NoError(t, blocks.CheckInvariants(h.Layer, h.Dir))

	_, err = h.Engine.Delete(index, entry)
	require.NoError(t, err)
	require.NoError(t, blocks.CheckInvariants(h.Layer, h.Dir))
}

func TestCheckInvariants_CatchesDoublyReachedBlock(t *testing.T) {
	h, err := vmutesting.NewFormattedCard()
	require.NoError(t, err)

	_, _, err = h.Engine.Create(vmufile.NewFileProperties{
		FileName: "A", FileSizeBytes: 512, FileType: directory.TypeData,
	}, make([]byte, 512))
	require.NoError(t, err)

	// Corrupt the card: install a second entry whose chain aliases the
	// first file's block, violating invariant 4.
	entryA, _, found, err := h.Dir.Find("A")
	require.NoError(t, err)
	require.True(t, found)

	index, ok, err := h.Dir.EntryAlloc()
	require.NoError(t, err)
	require.True(t, ok)

	var aliasing directory.Entry
	aliasing.Type = directory.TypeData
	aliasing.SetName("B")
	aliasing.FirstBlock = entryA.FirstBlock
	aliasing.FileSize = 1
	require.NoError(t, h.Dir.SetByIndex(index, aliasing))

	require.Error(t, blocks.CheckInvariants(h.Layer, h.Dir))
}
