// Package directory implements the flat, fixed-size directory table: find,
// allocate, free, and iterate 32-byte directory entries (spec.md section 4.2).
package directory

import (
	"bytes"
	"reflect"
	"strings"

	"github.com/dsoprea/go-logging"
	"github.com/go-restruct/restruct"

	"github.com/dreamsync/vmufs/blocks"
	vmuerrors "github.com/dreamsync/vmufs/errors"
)

// FileType is the directory entry's type byte. The two nonzero values match
// the real VMU firmware's on-disk encoding.
type FileType uint8

const (
	TypeNone FileType = 0x00
	TypeData FileType = 0x33
	TypeGame FileType = 0xcc
)

// CopyProtection is the directory entry's copy-protect byte.
type CopyProtection uint8

const (
	CopyOK        CopyProtection = 0x00
	CopyProtected CopyProtection = 0xff
	// CopyUnknown names the raw byte 0x01. Decoding does not map other raw
	// bytes to it: an entry keeps whatever copy-protect byte it was read or
	// created with.
	CopyUnknown CopyProtection = 0x01
)

// EntrySize is the fixed size in bytes of one directory entry.
const EntrySize = 32

// NameSize is the width of the space-padded, non-NUL-terminated filename
// field.
const NameSize = 12

// Entry is one 32-byte directory record (spec.md section 6's byte layout).
type Entry struct {
	Type           FileType
	CopyProtect    CopyProtection
	FirstBlock     uint16
	FileName       [NameSize]byte
	Timestamp      [8]byte
	FileSize       uint16
	HeaderOffset   uint16
	Unused         [4]byte
}

// IsLive reports whether the entry is an installed DATA or GAME file, as
// opposed to a free slot (spec.md section 4.2: "not DATA and not GAME"
// defines a free entry, treating NONE and any unrecognized byte as free).
func (e *Entry) IsLive() bool {
	return e.Type == TypeData || e.Type == TypeGame
}

// Name returns the filename with trailing spaces trimmed.
func (e *Entry) Name() string {
	return strings.TrimRight(string(e.FileName[:]), " ")
}

// SetName stores name into the 12-byte space-padded field, truncating or
// padding as needed.
func (e *Entry) SetName(name string) {
	var buf [NameSize]byte
	for i := range buf {
		buf[i] = ' '
	}
	copy(buf[:], name)
	e.FileName = buf
}

// NameMatches implements dir_find's prefix match: compare up to the shorter
// of the 12-byte field or len(name).
func (e *Entry) NameMatches(name string) bool {
	fieldName := e.FileName[:]
	n := len(name)
	if n > NameSize {
		n = NameSize
	}
	return bytes.Equal(fieldName[:n], []byte(name)[:n])
}

// decodeEntry parses one 32-byte directory entry, recovering from the
// restruct decode panic the same way DecodeRootBlock does.
func decodeEntry(raw []byte) (entry Entry, err error) {
	defer func() {
		if state := recover(); state != nil {
			recovered, ok := state.(error)
			if !ok {
				recovered = log.Errorf("directory entry decode panic: %v [%s]", state, reflect.TypeOf(state).Name())
			}
			err = vmuerrors.ErrDeviceReadError.WrapError(log.Wrap(recovered))
		}
	}()

	if len(raw) != EntrySize {
		return Entry{}, vmuerrors.ErrDeviceReadError.WithMessage("directory entry must be exactly 32 bytes")
	}

	unpackErr := restruct.Unpack(raw, blocks.ByteOrder, &entry)
	log.PanicIf(unpackErr)
	return entry, nil
}

// encode serializes the entry back to its 32-byte on-flash form.
func (e *Entry) encode() ([]byte, error) {
	raw, err := restruct.Pack(blocks.ByteOrder, e)
	if err != nil {
		return nil, vmuerrors.ErrDeviceWriteError.WrapError(err)
	}
	return raw, nil
}
