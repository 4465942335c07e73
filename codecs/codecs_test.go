package codecs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dreamsync/vmufs/codecs"
	"github.com/dreamsync/vmufs/directory"
	"github.com/dreamsync/vmufs/vmufile"
	"github.com/dreamsync/vmufs/vmutesting"
)

func TestDCI_ExportImportRoundTrip(t *testing.T) {
	h, err := vmutesting.NewFormattedCard()
	require.NoError(t, err)

	data := make([]byte, 512)
	for i := range data {
		data[i] = byte(i)
	}
	entry, _, err := h.Engine.Create(vmufile.NewFileProperties{
		FileName: "ROUNDTRIP", FileSizeBytes: len(data), FileType: directory.TypeData,
	}, data)
	require.NoError(t, err)

	dciPath := filepath.Join(t.TempDir(), "save.dci")
	require.NoError(t, codecs.ExportDCI(h.Engine, entry, dciPath))

	imported, _, err := codecs.ImportDCI(h.Engine, dciPath)
	require.NoError(t, err)
	require.Equal(t, "ROUNDTRIP", imported.Name())

	buf := make([]byte, len(data))
	_, err = h.Engine.Read(imported, buf, 0, true)
	require.NoError(t, err)
	require.Equal(t, data, buf)
}

func TestDCM_ExportImportRoundTrip(t *testing.T) {
	h, err := vmutesting.NewFormattedCard()
	require.NoError(t, err)

	_, _, err = h.Engine.Create(vmufile.NewFileProperties{
		FileName: "X", FileSizeBytes: 512, FileType: directory.TypeData,
	}, make([]byte, 512))
	require.NoError(t, err)

	dcmPath := filepath.Join(t.TempDir(), "card.dcm")
	require.NoError(t, codecs.ExportDCM(h.Card, dcmPath))

	roundTripped, err := vmutesting.NewFormattedCard()
	require.NoError(t, err)
	require.NoError(t, codecs.ImportDCM(roundTripped.Card, dcmPath))
	require.Equal(t, h.Card.Flash, roundTripped.Card.Flash)
}

func TestBIN_ExportImportIsByteIdentical(t *testing.T) {
	h, err := vmutesting.NewFormattedCard()
	require.NoError(t, err)

	binPath := filepath.Join(t.TempDir(), "card.bin")
	require.NoError(t, codecs.ExportBIN(h.Card, binPath))

	roundTripped, err := vmutesting.NewFormattedCard()
	require.NoError(t, err)
	require.NoError(t, codecs.ImportBIN(roundTripped.Card, binPath))
	require.Equal(t, h.Card.Flash, roundTripped.Card.Flash)
}

func TestVMI_ExportImportRoundTrip(t *testing.T) {
	h, err := vmutesting.NewFormattedCard()
	require.NoError(t, err)

	data := make([]byte, 512)
	entry, _, err := h.Engine.Create(vmufile.NewFileProperties{
		FileName: "VMISAVE", FileSizeBytes: len(data), FileType: directory.TypeData,
	}, data)
	require.NoError(t, err)

	vmiPath := filepath.Join(t.TempDir(), "VMISAVE.vmi")
	require.NoError(t, codecs.ExportVMI(h.Engine, entry, vmiPath))

	imported, _, err := codecs.ImportVMI(h.Engine, vmiPath)
	require.NoError(t, err)
	require.Equal(t, "VMISAVE", imported.Name())
}

func TestImportVMI_MissingVMSReturnsError(t *testing.T) {
	h, err := vmutesting.NewFormattedCard()
	require.NoError(t, err)

	var vmi codecs.VMI
	vmi.FileName[0] = 'X'
	copy(vmi.ResourceName[:], "nope")
	vmiPath := filepath.Join(t.TempDir(), "dangling.vmi")
	require.NoError(t, codecs.SaveVMI(vmiPath, vmi))

	_, _, err = codecs.ImportVMI(h.Engine, vmiPath)
	require.Error(t, err)
}
