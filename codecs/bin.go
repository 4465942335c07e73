package codecs

import (
	"io"
	"os"

	"github.com/xaionaro-go/bytesextra"

	"github.com/dreamsync/vmufs/blocks"
	vmuerrors "github.com/dreamsync/vmufs/errors"
)

// ImportBIN reads a raw, byte-identical 128 KiB flash image from path into
// card. Per the Open Question resolution recorded in DESIGN.md, a short
// read is a hard ErrReadFailed rather than silently accepted.
func ImportBIN(card *blocks.Card, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return vmuerrors.ErrOpenFailed.WrapError(err)
	}
	if len(raw) != blocks.FlashSize {
		return vmuerrors.ErrReadFailed.WithMessage("BIN/VMU image must be exactly 128 KiB")
	}

	// card.Flash is addressed through a ReadWriteSeeker the same way codec
	// code addresses an in-memory disk image under test, so import and
	// export share one seeking/copying idiom instead of a bespoke copy().
	dest := bytesextra.NewReadWriteSeeker(card.Flash)
	if _, err := dest.Seek(0, io.SeekStart); err != nil {
		return vmuerrors.ErrDeviceWriteError.WrapError(err)
	}
	if _, err := io.Copy(dest, bytesextra.NewReadWriteSeeker(raw)); err != nil {
		return vmuerrors.ErrDeviceWriteError.WrapError(err)
	}
	return nil
}

// ExportBIN writes card's flash buffer to path unmodified.
func ExportBIN(card *blocks.Card, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return vmuerrors.ErrOpenFailed.WrapError(err)
	}
	defer f.Close()

	src := bytesextra.NewReadWriteSeeker(card.Flash)
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return vmuerrors.ErrDeviceReadError.WrapError(err)
	}
	if _, err := io.Copy(f, src); err != nil {
		return vmuerrors.ErrOpenFailed.WrapError(err)
	}
	return nil
}
