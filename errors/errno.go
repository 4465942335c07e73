// This file enumerates the status values a flash filesystem operation can
// fail with. The set matches spec section 7's error taxonomy; it deliberately
// isn't the POSIX errno set, because this engine isn't a POSIX filesystem
// driver.

package errors

import (
	stderrors "errors"
	"fmt"
)

// VMUError is a sentinel error value.
type VMUError string

// SUCCESS has no sentinel: callers express success with a nil error.

// ErrOpenFailed: a host file referenced by an import/export call could not be
// opened.
const ErrOpenFailed = VMUError("could not open host file")

// ErrReadFailed: a host file read was short or failed outright.
const ErrReadFailed = VMUError("host file read failed or was short")

// ErrInadequateFreeBlocks: the card doesn't have enough free blocks to satisfy
// an allocation request.
const ErrInadequateFreeBlocks = VMUError("not enough free blocks on card")

// ErrGameDuplicate: an attempt was made to create a second GAME file. At most
// one may exist at a time.
const ErrGameDuplicate = VMUError("a GAME file already exists on this card")

// ErrNameDuplicate: a reserved well-known filename (ICONDATA.VMS, the extra
// background PVR) already has an entry.
const ErrNameDuplicate = VMUError("a file with this reserved name already exists")

// ErrFilesMaxed: the directory has no free entries left.
const ErrFilesMaxed = VMUError("directory is full")

// ErrDefragFailed: a defragmentation pass was triggered but could not produce
// enough contiguous free space for the operation that requested it.
const ErrDefragFailed = VMUError("defragmentation could not free enough contiguous space")

// ErrDeviceReadError / ErrDeviceWriteError: the FAT or directory was found in
// an inconsistent state during an operation that assumes consistency. These
// indicate a bug or a corrupted card, not a normal operating condition.
const ErrDeviceReadError = VMUError("internal inconsistency reading flash state")
const ErrDeviceWriteError = VMUError("internal inconsistency writing flash state")

// ErrFlashUnformatted: a loaded image doesn't carry the format sentinel.
const ErrFlashUnformatted = VMUError("flash image is not formatted")

// ErrVMINoVMS: a VMI sidecar was loaded but its paired VMS file is missing.
const ErrVMINoVMS = VMUError("VMI sidecar has no matching VMS file")

// ErrVMSNoVMI: the inverse of ErrVMINoVMS.
const ErrVMSNoVMI = VMUError("VMS file has no matching VMI sidecar")

// ErrUnknownFormat: a file extension wasn't recognized by the format dispatch
// in the device package.
const ErrUnknownFormat = VMUError("unrecognized file format")

// ErrConsistency: CheckInvariants found the card violating one of spec
// section 3's invariants. Not part of section 7's named taxonomy, but needed
// to report invariant-checker findings with the same error shape as
// everything else.
const ErrConsistency = VMUError("flash filesystem invariant violated")

func (e VMUError) Error() string {
	return string(e)
}

func (e VMUError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", string(e), message),
		originalError: e,
	}
}

func (e VMUError) WrapError(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", string(e), err.Error()),
		originalError: stderrors.Join(e, err),
	}
}
