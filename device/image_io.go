package device

import (
	"path/filepath"
	"strings"

	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/codecs"
	"github.com/dreamsync/vmufs/directory"
	vmuerrors "github.com/dreamsync/vmufs/errors"
)

// LoadImage opens a whole-card image (.bin/.vmu or .dcm) at path and wires a
// Device over it, dispatching on extension (spec.md section 6's format
// list). For the per-file formats (.vmi/.dci) use ImportFile on an
// already-open Device instead.
func LoadImage(path string) (*Device, error) {
	card := blocks.NewBlankCard()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dcm":
		err = codecs.ImportDCM(card, path)
	case ".bin", ".vmu":
		err = codecs.ImportBIN(card, path)
	default:
		err = vmuerrors.ErrUnknownFormat.WithMessage(path)
	}
	if err != nil {
		return nil, fail(err)
	}

	dev, err := Open(card)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

// ExportImage writes dev's whole card image to path, dispatching on
// extension the same way LoadImage does.
func ExportImage(dev *Device, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dcm":
		return fail(codecs.ExportDCM(dev.Card, path))
	case ".bin", ".vmu":
		return fail(codecs.ExportBIN(dev.Card, path))
	default:
		return fail(vmuerrors.ErrUnknownFormat.WithMessage(path))
	}
}

// ImportFile installs a single save from path (.vms requires pairing
// information the bare file doesn't carry, so only .vmi and .dci are
// accepted here; load a .vms payload directly via codecs.LoadVMSFile and
// dev.Create if you already know its properties).
func (dev *Device) ImportFile(path string) (directory.Entry, int, error) {
	var entry directory.Entry
	var index int
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".vmi":
		entry, index, err = codecs.ImportVMI(dev.Engine, path)
	case ".dci":
		entry, index, err = codecs.ImportDCI(dev.Engine, path)
	default:
		err = vmuerrors.ErrUnknownFormat.WithMessage(path)
	}
	if err != nil {
		return directory.Entry{}, 0, fail(err)
	}
	return entry, index, nil
}

// ExportFile writes entry out to path as a .vmi+.vms pair or a .dci file,
// dispatching on the extension of path.
func (dev *Device) ExportFile(entry directory.Entry, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vmi":
		return fail(codecs.ExportVMI(dev.Engine, entry, path))
	case ".dci":
		return fail(codecs.ExportDCI(dev.Engine, entry, path))
	default:
		return fail(vmuerrors.ErrUnknownFormat.WithMessage(path))
	}
}
