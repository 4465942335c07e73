package codecs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dreamsync/vmufs/blocks"
)

func TestDecodeTimestamp_RoundTripsThroughVMISidecar(t *testing.T) {
	stamped := time.Date(2026, time.March, 5, 13, 45, 30, 0, time.Local)

	var vmi VMI
	vmi.Timestamp = blocks.EncodeBCDTimestamp(stamped)

	path := filepath.Join(t.TempDir(), "stamped.vmi")
	require.NoError(t, SaveVMI(path, vmi))

	reloaded, err := LoadVMI(path)
	require.NoError(t, err)
	require.True(t, stamped.Equal(decodeTimestamp(reloaded.Timestamp)))
}
