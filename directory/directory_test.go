package directory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/directory"
)

func newTestDirectory(t *testing.T) *directory.Directory {
	t.Helper()
	card := blocks.NewBlankCard()
	layer := blocks.NewLayer(card)

	var root blocks.RootBlock
	root.FATBlock = 254
	root.FATSize = 1
	root.DirBlock = 253
	root.DirSize = 13
	root.UserSize = 200
	root.RootBlockIndex = uint16(card.RootBlockIndex())
	require.NoError(t, layer.SetRoot(root))

	return directory.New(layer)
}

func TestDirectory_CountMatchesGeometry(t *testing.T) {
	dir := newTestDirectory(t)
	count, err := dir.Count()
	require.NoError(t, err)
	require.Equal(t, 13*16, count)
}

func TestDirectory_EntryAllocAndFind(t *testing.T) {
	dir := newTestDirectory(t)

	index, ok, err := dir.EntryAlloc()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, index)

	var e directory.Entry
	e.Type = directory.TypeData
	e.SetName("SAVE1.VMS")
	e.FileSize = 1
	require.NoError(t, dir.SetByIndex(index, e))

	found, at, ok, err := dir.Find("SAVE1.VMS")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, index, at)
	require.Equal(t, "SAVE1.VMS", found.Name())
}

func TestDirectory_EntryFreeClearsSlotOnly(t *testing.T) {
	dir := newTestDirectory(t)
	index, _, err := dir.EntryAlloc()
	require.NoError(t, err)

	var e directory.Entry
	e.Type = directory.TypeData
	e.SetName("X")
	e.FirstBlock = 5
	require.NoError(t, dir.SetByIndex(index, e))
	require.NoError(t, dir.EntryFree(index))

	after, err := dir.ByIndex(index)
	require.NoError(t, err)
	require.False(t, after.IsLive())
	require.Equal(t, directory.TypeNone, after.Type)
}

func TestDirectory_FileAtIndexDescendingOrder(t *testing.T) {
	dir := newTestDirectory(t)

	installAt := func(index int, name string) {
		var e directory.Entry
		e.Type = directory.TypeData
		e.SetName(name)
		e.FileSize = 1
		require.NoError(t, dir.SetByIndex(index, e))
	}
	installAt(2, "LOW")
	installAt(7, "HIGH")

	count, err := dir.FileCount()
	require.NoError(t, err)
	require.Equal(t, 2, count)

	first, _, ok, err := dir.FileAtIndex(0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "HIGH", first.Name())

	second, _, ok, err := dir.FileAtIndex(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "LOW", second.Name())
}

func TestDirectory_FindGameReturnsGameEntry(t *testing.T) {
	dir := newTestDirectory(t)
	index, _, err := dir.EntryAlloc()
	require.NoError(t, err)

	var e directory.Entry
	e.Type = directory.TypeGame
	e.SetName("GAME")
	require.NoError(t, dir.SetByIndex(index, e))

	game, at, ok, err := dir.FindGame()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, index, at)
	require.Equal(t, "GAME", game.Name())
}

func TestEntry_NameMatchesPrefix(t *testing.T) {
	var e directory.Entry
	e.SetName("ICONDATA.VMS")
	require.True(t, e.NameMatches(directory.IconDataVMSName))
	require.True(t, directory.IsIconDataVMS(&e))
}
