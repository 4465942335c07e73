package device

import vmuerrors "github.com/dreamsync/vmufs/errors"

func errFlashUnformatted() error {
	return fail(vmuerrors.ErrFlashUnformatted)
}
