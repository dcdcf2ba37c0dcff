// Package platform provides compile-time OS/compiler detection and the
// small set of portability primitives the rest of the runtime core builds
// on: the pointer/header size constants, 8-byte rounding, and a marker for
// functions that never return. It holds no per-task or thread-local
// storage; internal/osshim.Task keeps per-task error state instead.
package platform

import (
	"runtime"
)

// OSKind identifies the host operating system family.
type OSKind int

const (
	OSUnknown OSKind = iota
	OSLinux
	OSDarwin
	OSWindows
	OSBSD
)

// CurrentOS returns the OS family the binary was built for.
func CurrentOS() OSKind {
	switch runtime.GOOS {
	case "linux":
		return OSLinux
	case "darwin":
		return OSDarwin
	case "windows":
		return OSWindows
	case "freebsd", "openbsd", "netbsd", "dragonfly":
		return OSBSD
	default:
		return OSUnknown
	}
}

func (k OSKind) String() string {
	switch k {
	case OSLinux:
		return "linux"
	case OSDarwin:
		return "darwin"
	case OSWindows:
		return "windows"
	case OSBSD:
		return "bsd"
	default:
		return "unknown"
	}
}

// IsWindows reports whether the current build targets Windows. The OS
// layer (internal/osshim) does not call it: it picks its wide-character
// path transcoding by build tag (path_windows.go).
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// PointerSize is the target pointer width in bytes. The heap object header
// and every composite payload are laid out assuming this value; the runtime
// does not support 32-bit targets.
const PointerSize = 8

// HeaderSize is the fixed size, in bytes, of the heap object header that
// precedes every payload. It must equal PointerSize so that payloads
// allocated at an 8-byte aligned address remain 8-byte aligned themselves.
const HeaderSize = 8

// AlignUp8 rounds size up to the next multiple of 8, the payload alignment
// every heap allocation must satisfy (spec invariant 7).
func AlignUp8(size uintptr) uintptr {
	return (size + 7) &^ 7
}

// NoReturn documents a function that never returns to its caller, matching
// REML_NORETURN / the C `noreturn` attribute in the original runtime. Go has
// no such attribute; callers should treat any call to a NoReturn-annotated
// function as the last statement on that path. It is a no-op at runtime and
// exists purely so dead-code-after-panic can be flagged in review the same
// way the teacher flags it in its exception package.
func NoReturn() {}
