package vmufile

import (
	"encoding/binary"

	"github.com/dreamsync/vmufs/directory"
)

// The on-flash VMS header fields needed for CRC (spec.md section 4.3). Full
// icon/eyecatch byte layout is explicitly out of scope (spec.md section 1);
// only the fixed 96-byte header prefix and its two CRC-relevant fields are
// known here.
const (
	vmsHeaderSize       = 96
	vmsHeaderCRCOffset  = 0x46
	vmsHeaderDataOffset = 0x48
)

func crc16CCITT(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// CRC implements file_calculate_crc. GAME files always return 0: the
// firmware never checks them. For DATA files, it's the CRC-16/CCITT of the
// first headerSize+dataBytes bytes of the file, with the header's own CRC
// field held at zero during the calculation and restored afterward, per
// spec.md section 4.3.
func (eng *Engine) CRC(entry directory.Entry) (uint16, error) {
	if entry.Type == directory.TypeGame {
		return 0, nil
	}

	header := make([]byte, vmsHeaderSize)
	if _, err := eng.Read(entry, header, 0, true); err != nil {
		return 0, err
	}

	dataBytes := int(binary.LittleEndian.Uint32(header[vmsHeaderDataOffset:]))
	total := vmsHeaderSize + dataBytes
	if total < vmsHeaderSize {
		total = vmsHeaderSize
	}

	content := make([]byte, total)
	if _, err := eng.Read(entry, content, 0, true); err != nil {
		return 0, err
	}

	binary.LittleEndian.PutUint16(content[vmsHeaderCRCOffset:], 0)
	return crc16CCITT(content), nil
}
