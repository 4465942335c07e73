package blocks_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dreamsync/vmufs/blocks"
)

func formatTestCard(t *testing.T, userSize uint16, fatBlock, fatSize, dirBlock, dirSize blocks.BlockID) *blocks.Layer {
	t.Helper()
	card := blocks.NewBlankCard()
	layer := blocks.NewLayer(card)

	var root blocks.RootBlock
	for i := range root.FormatMarker {
		root.FormatMarker[i] = blocks.FormatSentinelByte
	}
	root.FATBlock = uint16(fatBlock)
	root.FATSize = uint16(fatSize)
	root.DirBlock = uint16(dirBlock)
	root.DirSize = uint16(dirSize)
	root.UserSize = userSize
	root.RootBlockIndex = uint16(card.RootBlockIndex())
	require.NoError(t, layer.SetRoot(root))

	for b := 0; b < int(card.PhysicalBlockCount()); b++ {
		require.NoError(t, layer.SetFATEntry(blocks.BlockID(b), blocks.Unallocated))
	}
	return layer
}

func TestAllocator_AscendingTakesLowestFree(t *testing.T) {
	layer := formatTestCard(t, 10, 254, 1, 253, 13)
	alloc, err := blocks.NewAllocator(layer)
	require.NoError(t, err)

	b, err := alloc.Allocate(blocks.Unallocated, blocks.Ascending)
	require.NoError(t, err)
	require.Equal(t, blocks.BlockID(0), b)

	next, err := alloc.Allocate(blocks.Unallocated, blocks.Ascending)
	require.NoError(t, err)
	require.Equal(t, blocks.BlockID(1), next)
}

func TestAllocator_DescendingTakesHighestFree(t *testing.T) {
	layer := formatTestCard(t, 10, 254, 1, 253, 13)
	alloc, err := blocks.NewAllocator(layer)
	require.NoError(t, err)

	b, err := alloc.Allocate(blocks.Unallocated, blocks.Descending)
	require.NoError(t, err)
	require.Equal(t, blocks.BlockID(9), b)
}

func TestAllocator_ChainsPreviousPointer(t *testing.T) {
	layer := formatTestCard(t, 10, 254, 1, 253, 13)
	alloc, err := blocks.NewAllocator(layer)
	require.NoError(t, err)

	first, err := alloc.Allocate(blocks.Unallocated, blocks.Ascending)
	require.NoError(t, err)
	second, err := alloc.Allocate(first, blocks.Ascending)
	require.NoError(t, err)

	linked, err := layer.FATEntry(first)
	require.NoError(t, err)
	require.Equal(t, second, linked)

	tail, err := layer.FATEntry(second)
	require.NoError(t, err)
	require.Equal(t, blocks.LastInFile, tail)
}

func TestAllocator_ExhaustionReturnsUnallocated(t *testing.T) {
	layer := formatTestCard(t, 2, 254, 1, 253, 13)
	alloc, err := blocks.NewAllocator(layer)
	require.NoError(t, err)

	_, err = alloc.Allocate(blocks.Unallocated, blocks.Ascending)
	require.NoError(t, err)
	_, err = alloc.Allocate(blocks.Unallocated, blocks.Ascending)
	require.NoError(t, err)

	b, err := alloc.Allocate(blocks.Unallocated, blocks.Ascending)
	require.NoError(t, err)
	require.Equal(t, blocks.Unallocated, b)
}

func TestAllocator_FreeMarksBlockAvailableAgain(t *testing.T) {
	layer := formatTestCard(t, 4, 254, 1, 253, 13)
	alloc, err := blocks.NewAllocator(layer)
	require.NoError(t, err)

	b, err := alloc.Allocate(blocks.Unallocated, blocks.Ascending)
	require.NoError(t, err)
	require.NoError(t, alloc.Free(b))

	entry, err := layer.FATEntry(b)
	require.NoError(t, err)
	require.Equal(t, blocks.Unallocated, entry)

	reused, err := alloc.Allocate(blocks.Unallocated, blocks.Ascending)
	require.NoError(t, err)
	require.Equal(t, b, reused)
}

func TestLayer_MemUsageAccounting(t *testing.T) {
	layer := formatTestCard(t, 10, 254, 1, 253, 13)
	alloc, err := blocks.NewAllocator(layer)
	require.NoError(t, err)

	_, err = alloc.Allocate(blocks.Unallocated, blocks.Ascending)
	require.NoError(t, err)

	usage, err := layer.MemUsage()
	require.NoError(t, err)
	require.Equal(t, 1, usage.BlocksUsed)
	require.Equal(t, 9, usage.BlocksFree)
	require.Equal(t, 0, usage.BlocksDamaged)
}

func TestRootBlock_IsFormatted(t *testing.T) {
	card := blocks.NewBlankCard()
	layer := blocks.NewLayer(card)

	unformatted, err := layer.Root()
	require.NoError(t, err)
	require.False(t, unformatted.IsFormatted())

	var root blocks.RootBlock
	for i := range root.FormatMarker {
		root.FormatMarker[i] = blocks.FormatSentinelByte
	}
	require.NoError(t, layer.SetRoot(root))

	formatted, err := layer.Root()
	require.NoError(t, err)
	require.True(t, formatted.IsFormatted())
}
