package codecs

import (
	"io"
	"os"

	"github.com/noxer/bytewriter"
	"github.com/xaionaro-go/bytesextra"

	"github.com/dreamsync/vmufs/blocks"
	vmuerrors "github.com/dreamsync/vmufs/errors"
)

// ImportDCM reads a whole-card .dcm image, undoes the word-swap, and copies
// it directly into card's flash buffer. No file-engine call is involved
// (spec.md section 4.5): this bypasses directory/FAT semantics entirely.
func ImportDCM(card *blocks.Card, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return vmuerrors.ErrOpenFailed.WrapError(err)
	}
	if len(raw) != blocks.FlashSize {
		return vmuerrors.ErrReadFailed.WithMessage("DCM image must be exactly 128 KiB")
	}
	if err := wordSwap(raw); err != nil {
		return err
	}

	dest := bytesextra.NewReadWriteSeeker(card.Flash)
	if _, err := dest.Seek(0, io.SeekStart); err != nil {
		return vmuerrors.ErrDeviceWriteError.WrapError(err)
	}
	if _, err := io.Copy(dest, bytesextra.NewReadWriteSeeker(raw)); err != nil {
		return vmuerrors.ErrDeviceWriteError.WrapError(err)
	}
	return nil
}

// ExportDCM writes card's flash buffer to path in word-swapped form. The
// swapped copy is built into a preallocated fixed-size buffer via
// bytewriter, the same way the teacher builds fixed-layout output records.
func ExportDCM(card *blocks.Card, path string) error {
	buf := make([]byte, len(card.Flash))
	writer := bytewriter.New(buf)
	if _, err := writer.Write(card.Flash); err != nil {
		return vmuerrors.ErrDeviceReadError.WrapError(err)
	}
	if err := wordSwap(buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return vmuerrors.ErrOpenFailed.WrapError(err)
	}
	return nil
}
