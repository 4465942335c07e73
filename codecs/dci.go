package codecs

import (
	"os"

	"github.com/go-restruct/restruct"
	"github.com/noxer/bytewriter"

	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/directory"
	vmuerrors "github.com/dreamsync/vmufs/errors"
	"github.com/dreamsync/vmufs/vmufile"
)

// dciHeaderEntry mirrors directory.Entry's on-flash layout; DCI's 32-byte
// header is exactly one directory entry, minus FirstBlock (meaningless
// before the file is installed — it's still present as a field slot to keep
// the 32-byte shape, just ignored on import and zeroed on export).
type dciHeaderEntry = directory.Entry

// ImportDCI reads a .dci file, undoes the word-swap, and installs the file
// via eng.Create (spec.md section 4.5).
func ImportDCI(eng *vmufile.Engine, path string) (directory.Entry, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return directory.Entry{}, 0, vmuerrors.ErrOpenFailed.WrapError(err)
	}
	if len(raw) < directory.EntrySize {
		return directory.Entry{}, 0, vmuerrors.ErrReadFailed.WithMessage("DCI file shorter than header")
	}

	if err := wordSwap(raw); err != nil {
		return directory.Entry{}, 0, err
	}

	var header dciHeaderEntry
	if err := restruct.Unpack(raw[:directory.EntrySize], blocks.ByteOrder, &header); err != nil {
		return directory.Entry{}, 0, vmuerrors.ErrReadFailed.WrapError(err)
	}
	payload := raw[directory.EntrySize:]

	props := vmufile.NewFileProperties{
		FileName:       header.Name(),
		FileSizeBytes:  len(payload),
		FileType:       header.Type,
		CopyProtection: header.CopyProtect,
	}
	return eng.Create(props, payload)
}

// ExportDCI writes entry's directory header and file content to path,
// padded to a 4-byte boundary and word-swapped.
func ExportDCI(eng *vmufile.Engine, entry directory.Entry, path string) error {
	length := int(entry.FileSize) * blocks.BlockSize
	payload := make([]byte, length)
	if _, err := eng.Read(entry, payload, 0, true); err != nil {
		return err
	}

	header := entry
	header.FirstBlock = 0

	headerRaw, err := restruct.Pack(blocks.ByteOrder, &header)
	if err != nil {
		return vmuerrors.ErrOpenFailed.WrapError(err)
	}

	total := len(headerRaw) + len(payload)
	if pad := total % 4; pad != 0 {
		total += 4 - pad
	}

	// Built into a preallocated fixed-size buffer rather than append, the
	// same way the teacher assembles a fixed-layout output record.
	buf := make([]byte, total)
	writer := bytewriter.New(buf)
	if _, err := writer.Write(headerRaw); err != nil {
		return vmuerrors.ErrOpenFailed.WrapError(err)
	}
	if _, err := writer.Write(payload); err != nil {
		return vmuerrors.ErrOpenFailed.WrapError(err)
	}

	if err := wordSwap(buf); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return vmuerrors.ErrOpenFailed.WrapError(err)
	}
	return nil
}
