package platform

import (
	"errors"
	"os"
	"runtime"
)

// ErrChmodUnsupported is returned by MakeExecutable on hosts without
// Unix-style permission bits.
var ErrChmodUnsupported = errors.New("permission bits not supported on " + runtime.GOOS)

// ExecutableMode is applied to generated shell scripts.
const ExecutableMode os.FileMode = 0755

// MakeExecutable sets the executable bits on path. On Windows it does nothing
// and returns ErrChmodUnsupported so callers can record the skipped step.
func MakeExecutable(path string) error {
	if runtime.GOOS == "windows" {
		return ErrChmodUnsupported
	}
	return os.Chmod(path, ExecutableMode)
}
