package codecs

import (
	"os"

	vmuerrors "github.com/dreamsync/vmufs/errors"
)

// LoadVMSFile reads a raw .vms payload from the host filesystem. Its
// interpretation (DATA or GAME, header offset) depends on whatever pairs it
// — a .vmi sidecar or a directory entry being exported — never on the bytes
// themselves (spec.md section 4.5).
func LoadVMSFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vmuerrors.ErrOpenFailed.WrapError(err)
	}
	return data, nil
}

// SaveVMSFile writes raw file content to path as a .vms payload.
func SaveVMSFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return vmuerrors.ErrOpenFailed.WrapError(err)
	}
	return nil
}
