package device

import "sync"

// lastErrorMaxBytes matches the original C engine's fixed
// VMU_FLASH_LOAD_IMAGE_ERROR_MESSAGE_SIZE buffer (spec.md section 6).
const lastErrorMaxBytes = 256

var (
	lastErrorMu      sync.Mutex
	lastErrorMessage string
)

// setLastError records message as the last-error-message singleton,
// truncating with a "..." suffix if it would exceed lastErrorMaxBytes. It is
// never cleared on success (spec.md section 7); only a subsequent failure
// overwrites it.
func setLastError(message string) {
	if len(message) > lastErrorMaxBytes {
		message = message[:lastErrorMaxBytes-3] + "..."
	}
	lastErrorMu.Lock()
	lastErrorMessage = message
	lastErrorMu.Unlock()
}

// LastErrorMessage returns the most recently recorded failure message, for
// callers porting 1:1 from the original C API. Every device operation also
// returns a real error; prefer that unless specifically replicating the
// original's singleton-based error reporting.
func LastErrorMessage() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastErrorMessage
}

func fail(err error) error {
	if err != nil {
		setLastError(err.Error())
	}
	return err
}
