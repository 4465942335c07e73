package blocks

import (
	"reflect"
	"time"

	"github.com/dsoprea/go-logging"
	"github.com/go-restruct/restruct"

	vmuerrors "github.com/dreamsync/vmufs/errors"
)

// RootBlock is the on-flash metadata block describing the card layout. Field
// order and sizes are fixed: restruct.Unpack/Pack serialize it in declaration
// order with no padding, the same way dsoprea-go-exfat decodes its boot
// sector header.
//
// This does not replicate the real VMU BIOS's byte offsets bit-for-bit; it's
// a self-consistent layout carrying every field spec.md section 3 names for
// the root block, sized to fit in one 512-byte block.
type RootBlock struct {
	// FormatMarker is 16 bytes that must all equal FormatSentinelByte for the
	// card to be considered formatted.
	FormatMarker [16]byte

	CustomColorFlag uint8
	ColorBlue       uint8
	ColorGreen      uint8
	ColorRed        uint8
	ColorAlpha      uint8

	Reserved1 [27]byte

	// Timestamp is an 8-byte BCD stamp: century, year, month, day, hour,
	// minute, second, weekday.
	Timestamp [8]byte

	Reserved2 [8]byte

	TotalSize       uint16
	PartitionNumber uint16
	RootBlockIndex  uint16
	FATBlock        uint16
	FATSize         uint16
	DirBlock        uint16
	DirSize         uint16
	IconShape       uint16
	UserSize        uint16
	SaveAreaBlock   uint16
	SaveAreaSize    uint16
	ExecFileIndex   uint16

	Reserved3 [424]byte
}

// DecodeRootBlock parses a 512-byte root block. Decoding follows the
// dsoprea-go-exfat convention for structure parsers: internal failures are
// raised with log.PanicIf and recovered here into a wrapped DriverError, so
// a malformed root block never panics out of this package.
func DecodeRootBlock(raw []byte) (root RootBlock, err error) {
	defer func() {
		if state := recover(); state != nil {
			recovered, ok := state.(error)
			if !ok {
				recovered = log.Errorf("root block decode panic: %v [%s]", state, reflect.TypeOf(state).Name())
			}
			err = vmuerrors.ErrDeviceReadError.WrapError(log.Wrap(recovered))
		}
	}()

	if len(raw) != BlockSize {
		return RootBlock{}, vmuerrors.ErrDeviceReadError.WithMessage("root block must be exactly one block")
	}

	unpackErr := restruct.Unpack(raw, defaultEncoding, &root)
	log.PanicIf(unpackErr)
	return root, nil
}

// Encode serializes the root block back to its 512-byte on-flash form.
func (root *RootBlock) Encode() ([]byte, error) {
	raw, err := restruct.Pack(defaultEncoding, root)
	if err != nil {
		return nil, vmuerrors.ErrDeviceWriteError.WrapError(err)
	}
	if len(raw) != BlockSize {
		// restruct always emits exactly sizeof(RootBlock) bytes; this is a
		// sanity check that the struct definition above didn't drift from
		// BlockSize.
		padded := make([]byte, BlockSize)
		copy(padded, raw)
		raw = padded
	}
	return raw, nil
}

// IsFormatted reports whether the first 15 bytes of FormatMarker all equal
// FormatSentinelByte, per spec.md section 4.1's check_formatted().
func (root *RootBlock) IsFormatted() bool {
	for i := 0; i < 15; i++ {
		if root.FormatMarker[i] != FormatSentinelByte {
			return false
		}
	}
	return true
}

// SetTimestamp stamps the root block's BCD timestamp from t.
func (root *RootBlock) SetTimestamp(t time.Time) {
	root.Timestamp = EncodeBCDTimestamp(t)
}
