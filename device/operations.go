package device

import (
	"github.com/dreamsync/vmufs/directory"
	"github.com/dreamsync/vmufs/vmufile"
)

// Create installs a new file, wrapping Engine.Create through the
// last-error-message singleton (spec.md section 7: "updated on every
// failure"). Every file-engine and defrag operation in the operational
// surface (spec.md section 6.2) goes through Device the same way the
// image-level codecs in image_io.go already do.
func (dev *Device) Create(props vmufile.NewFileProperties, data []byte) (directory.Entry, int, error) {
	entry, index, err := dev.Engine.Create(props, data)
	if err != nil {
		return directory.Entry{}, 0, fail(err)
	}
	return entry, index, nil
}

// Delete frees entry's block chain and directory slot.
func (dev *Device) Delete(index int, entry directory.Entry) (int, error) {
	freed, err := dev.Engine.Delete(index, entry)
	if err != nil {
		return freed, fail(err)
	}
	return freed, nil
}

// Read copies entry's content into buffer, per vmufile.Engine.Read's
// offset/includeHeader contract.
func (dev *Device) Read(entry directory.Entry, buffer []byte, offset int, includeHeader bool) (int, error) {
	n, err := dev.Engine.Read(entry, buffer, offset, includeHeader)
	if err != nil {
		return n, fail(err)
	}
	return n, nil
}

// CRC computes entry's file_calculate_crc value.
func (dev *Device) CRC(entry directory.Entry) (uint16, error) {
	crc, err := dev.Engine.CRC(entry)
	if err != nil {
		return 0, fail(err)
	}
	return crc, nil
}

// Defragment runs a defragmentation pass over dev's card.
func (dev *Device) Defragment(newUserSize int) (bool, error) {
	ok, err := dev.Defrag.Defragment(newUserSize)
	if err != nil {
		return ok, fail(err)
	}
	return ok, nil
}
