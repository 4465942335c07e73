package codecs

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-restruct/restruct"

	"github.com/dreamsync/vmufs/blocks"
	"github.com/dreamsync/vmufs/directory"
	vmuerrors "github.com/dreamsync/vmufs/errors"
	"github.com/dreamsync/vmufs/vmufile"
)

// VMI file-mode bits (bit-packed per spec.md section 4.5; this module's
// own, non-bit-exact layout).
const (
	vmiModeGame      uint16 = 1 << 0
	vmiModeProtected uint16 = 1 << 8
)

// VMI is the fixed-size sidecar metadata header. Only the fields the
// filesystem needs are modeled (spec.md section 1's scope note): name,
// mode, declared size, paired .vms resource name, and timestamp.
type VMI struct {
	FileName      [directory.NameSize]byte
	ResourceName  [8]byte
	FileMode      uint16
	Reserved      uint16
	FileSizeBytes uint32
	Timestamp     [8]byte
}

const vmiHeaderSize = directory.NameSize + 8 + 2 + 2 + 4 + 8

// LoadVMI parses a .vmi sidecar from path. Per the Open Question resolution
// recorded in DESIGN.md, this treats the load as successful iff at least
// vmiHeaderSize bytes were actually read, not merely "file opened".
func LoadVMI(path string) (VMI, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return VMI{}, vmuerrors.ErrOpenFailed.WrapError(err)
	}
	if len(raw) < vmiHeaderSize {
		return VMI{}, vmuerrors.ErrReadFailed.WithMessage("VMI file shorter than header")
	}

	var vmi VMI
	if err := restruct.Unpack(raw[:vmiHeaderSize], blocks.ByteOrder, &vmi); err != nil {
		return VMI{}, vmuerrors.ErrReadFailed.WrapError(err)
	}
	return vmi, nil
}

// SaveVMI writes a .vmi sidecar to path.
func SaveVMI(path string, vmi VMI) error {
	raw, err := restruct.Pack(blocks.ByteOrder, &vmi)
	if err != nil {
		return vmuerrors.ErrOpenFailed.WrapError(err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return vmuerrors.ErrOpenFailed.WrapError(err)
	}
	return nil
}

func (v *VMI) resourceVMSPath(vmiPath string) string {
	name := strings.TrimRight(string(v.ResourceName[:]), "\x00 ")
	return filepath.Join(filepath.Dir(vmiPath), name+".vms")
}

func (v *VMI) fileType() directory.FileType {
	if v.FileMode&vmiModeGame != 0 {
		return directory.TypeGame
	}
	return directory.TypeData
}

func (v *VMI) copyProtection() directory.CopyProtection {
	if v.FileMode&vmiModeProtected != 0 {
		return directory.CopyProtected
	}
	return directory.CopyOK
}

// ImportVMI loads a .vmi sidecar and its paired .vms file (located next to
// the sidecar, named by the sidecar's resource name) and installs it via
// eng.Create. Returns ErrVMINoVMS if the paired file is missing.
func ImportVMI(eng *vmufile.Engine, vmiPath string) (directory.Entry, int, error) {
	vmi, err := LoadVMI(vmiPath)
	if err != nil {
		return directory.Entry{}, 0, err
	}

	vmsPath := vmi.resourceVMSPath(vmiPath)
	data, err := LoadVMSFile(vmsPath)
	if err != nil {
		return directory.Entry{}, 0, vmuerrors.ErrVMINoVMS.WrapError(err)
	}

	props := vmufile.NewFileProperties{
		FileName:       strings.TrimRight(string(vmi.FileName[:]), " "),
		FileSizeBytes:  len(data),
		FileType:       vmi.fileType(),
		CopyProtection: vmi.copyProtection(),
	}
	return eng.Create(props, data)
}

// ExportVMI reconstructs a .vmi sidecar from a live directory entry and
// writes both the sidecar and its paired .vms payload, deriving the
// resource name from the entry's own filename.
func ExportVMI(eng *vmufile.Engine, entry directory.Entry, vmiPath string) error {
	length := int(entry.FileSize) * blocks.BlockSize
	data := make([]byte, length)
	if _, err := eng.Read(entry, data, 0, true); err != nil {
		return err
	}

	resourceName := sanitizeResourceName(entry.Name())

	var vmi VMI
	vmi.FileName = entry.FileName
	copy(vmi.ResourceName[:], resourceName)
	if entry.Type == directory.TypeGame {
		vmi.FileMode |= vmiModeGame
	}
	if entry.CopyProtect == directory.CopyProtected {
		vmi.FileMode |= vmiModeProtected
	}
	vmi.FileSizeBytes = uint32(length)
	vmi.Timestamp = entry.Timestamp

	if err := SaveVMI(vmiPath, vmi); err != nil {
		return err
	}
	return SaveVMSFile(vmi.resourceVMSPath(vmiPath), data)
}

func sanitizeResourceName(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if len(name) > 8 {
		name = name[:8]
	}
	return name
}

// decodeTimestamp is a small convenience re-export used by tests that need
// to assert a VMI's stamped time without reaching into package blocks.
func decodeTimestamp(raw [8]byte) time.Time {
	return blocks.DecodeBCDTimestamp(raw)
}
