// Package codecs implements the four host-file interchange formats (.vms,
// .vmi, .dci, .dcm) and the raw .bin/.vmu passthrough, sitting on top of the
// file engine the way spec.md section 4.5 describes.
package codecs

import vmuerrors "github.com/dreamsync/vmufs/errors"

// wordSwap reverses the byte order within every 4-byte word of data in
// place: bytes 0<->3 and 1<->2 swap. DCI and DCM both store their payload
// this way (spec.md section 4.5).
func wordSwap(data []byte) error {
	if len(data)%4 != 0 {
		return vmuerrors.ErrReadFailed.WithMessage("word-swapped payload length must be a multiple of 4")
	}
	for i := 0; i+3 < len(data); i += 4 {
		data[i], data[i+3] = data[i+3], data[i]
		data[i+1], data[i+2] = data[i+2], data[i+1]
	}
	return nil
}
