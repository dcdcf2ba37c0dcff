//go:build !windows

package osshim

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// transcodePath validates path as a POSIX byte string: the kernel treats
// paths as opaque bytes except that an embedded NUL terminates early, which
// unix.ByteSliceFromString also rejects, so this surfaces the same failure
// the syscall layer would hit anyway, just with an INVALID_ARGUMENT result
// instead of a truncated open.
func transcodePath(path string) (string, error) {
	if strings.IndexByte(path, 0) != -1 {
		return "", fmt.Errorf("path contains embedded NUL byte")
	}

	if _, err := unix.ByteSliceFromString(path); err != nil {
		return "", err
	}

	return path, nil
}
