//go:build windows

package osshim

import "golang.org/x/sys/windows"

// transcodePath round-trips path through UTF-16 the way the Windows native
// API requires, surfacing any encoding failure (lone surrogate, embedded
// NUL) as an error before it reaches os.OpenFile rather than letting the
// Windows call fail on a name Go's os package encoded differently.
func transcodePath(path string) (string, error) {
	utf16Path, err := windows.UTF16FromString(path)
	if err != nil {
		return "", err
	}

	return windows.UTF16ToString(utf16Path), nil
}
