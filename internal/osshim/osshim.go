// Package osshim is the runtime core's OS layer (spec.md §4.9): file
// open/read/write/close, the stdout/stderr handles, thread start/join, and
// per-task last-error capture, all reported through the
// {success, invalid_argument, system_failure, not_supported} status taxonomy
// rather than Go's native error handling — so the embedding ABI (internal/embed)
// can surface a stable status code across the boundary instead of an *error
// whose concrete type is this module's own.
//
// The file/path primitives are split into build-tag-separated _unix.go and
// _windows.go files, the same way the teacher splits its asyncio layer: the
// portable logic lives here, the bytes-vs-UTF-16 path transcoding lives in
// the platform-specific file.
package osshim

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vael-lang/vael-rt/internal/errors"
)

// Status mirrors reml_os_result_t: SUCCESS=0, INVALID_ARGUMENT=1,
// SYSTEM_FAILURE=2, NOT_SUPPORTED=3.
type Status int32

const (
	Success Status = iota
	InvalidArgument
	SystemFailure
	NotSupported
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case InvalidArgument:
		return "invalid_argument"
	case SystemFailure:
		return "system_failure"
	case NotSupported:
		return "not_supported"
	default:
		return "unknown"
	}
}

// Result pairs a Status with the reported error that produced it, if any.
// Success results carry a nil Err.
type Result struct {
	Status Status
	Err    *errors.StandardError
}

func ok() Result { return Result{Status: Success} }

func fail(status Status, err *errors.StandardError) Result {
	return Result{Status: status, Err: err}
}

// File is an open OS file handle. It wraps *os.File rather than a raw fd so
// Close is safe to call from any goroutine and the zero value is never used.
type File struct {
	f *os.File
}

// OpenRead opens path for reading.
func OpenRead(path string) (*File, Result) {
	native, terr := transcodePath(path)
	if terr != nil {
		return nil, fail(InvalidArgument, errors.PathEncoding(path, terr))
	}

	f, err := os.Open(native)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fail(InvalidArgument, errors.InvalidArgument("open_read", err.Error()))
		}

		return nil, fail(SystemFailure, errors.SystemFailure("open_read", err))
	}

	return &File{f: f}, ok()
}

// OpenWrite opens path for writing, creating it if absent. truncate
// discards any existing content; when false, writes append.
func OpenWrite(path string, truncate bool) (*File, Result) {
	native, terr := transcodePath(path)
	if terr != nil {
		return nil, fail(InvalidArgument, errors.PathEncoding(path, terr))
	}

	flags := os.O_WRONLY | os.O_CREATE
	if truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(native, flags, 0o644)
	if err != nil {
		return nil, fail(SystemFailure, errors.SystemFailure("open_write", err))
	}

	return &File{f: f}, ok()
}

// Read fills buf with up to len(buf) bytes, returning the count read. io.EOF
// is reported as Success with n == 0, matching the C API's "zero bytes read
// means end of file" convention rather than a distinct status.
func (f *File) Read(buf []byte) (int, Result) {
	if f == nil || f.f == nil {
		return 0, fail(InvalidArgument, errors.InvalidArgument("read", "nil file handle"))
	}

	n, err := f.f.Read(buf)
	if err != nil && err != io.EOF {
		return n, fail(SystemFailure, errors.SystemFailure("read", err))
	}

	return n, ok()
}

// Write writes buf, returning the count written.
func (f *File) Write(buf []byte) (int, Result) {
	if f == nil || f.f == nil {
		return 0, fail(InvalidArgument, errors.InvalidArgument("write", "nil file handle"))
	}

	n, err := f.f.Write(buf)
	if err != nil {
		return n, fail(SystemFailure, errors.SystemFailure("write", err))
	}

	return n, ok()
}

// WriteAll writes buf in full, retrying on short writes the way
// internal/panicrt's banner writer requires.
func (f *File) WriteAll(buf []byte) Result {
	if f == nil || f.f == nil {
		return fail(InvalidArgument, errors.InvalidArgument("write_all", "nil file handle"))
	}

	for len(buf) > 0 {
		n, res := f.Write(buf)
		if res.Status != Success {
			return res
		}

		if n == 0 {
			return fail(SystemFailure, errors.SystemFailure("write_all", fmt.Errorf("zero-length write with %d bytes remaining", len(buf))))
		}

		buf = buf[n:]
	}

	return ok()
}

// Close closes the handle. Closing an already-closed or nil handle is not an
// error: destructors and deferred cleanup call Close unconditionally.
func (f *File) Close() Result {
	if f == nil || f.f == nil {
		return ok()
	}

	if err := f.f.Close(); err != nil {
		if pe, isPath := err.(*os.PathError); isPath && pe.Err == os.ErrClosed {
			return ok()
		}

		return fail(SystemFailure, errors.SystemFailure("close", err))
	}

	return ok()
}

var (
	stdoutOnce sync.Once
	stdoutFile *File
	stderrOnce sync.Once
	stderrFile *File
)

// Stdout returns the process's standard output handle.
func Stdout() *File {
	stdoutOnce.Do(func() { stdoutFile = &File{f: os.Stdout} })
	return stdoutFile
}

// Stderr returns the process's standard error handle. internal/panicrt
// writes its banner here.
func Stderr() *File {
	stderrOnce.Do(func() { stderrFile = &File{f: os.Stderr} })
	return stderrFile
}
