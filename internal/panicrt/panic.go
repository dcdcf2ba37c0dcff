// Package panicrt renders the runtime core's fatal-error banner and
// terminates the process, the Go side of the original runtime's panic.c
// (spec.md §4.8): a fixed banner, a timestamp, the process id, an optional
// source location, and the panic message, written to stderr through
// internal/osshim rather than Go's own panic/recover so the wire format
// stays byte-for-byte what the original runtime produces.
//
// Every call here is terminal: Panic and PanicAt never return to their
// caller.
package panicrt

import (
	"fmt"
	"os"
	"time"

	"github.com/vael-lang/vael-rt/internal/osshim"
	"github.com/vael-lang/vael-rt/internal/platform"
)

const (
	bannerTop    = "===============================================\n"
	bannerTitle  = "PANIC: Runtime Error\n"
	bannerBottom = "===============================================\n"
)

// Panic writes the fatal-error banner with no source location and exits the
// process with status 1. It never returns.
func Panic(message string) {
	writeBanner(message, "")
	platform.NoReturn()
	os.Exit(1)
}

// PanicAt writes the fatal-error banner with a source location line of the
// form "file:line" and exits the process with status 1. It never returns.
func PanicAt(message, file string, line int) {
	writeBanner(message, fmt.Sprintf("%s:%d", file, line))
	platform.NoReturn()
	os.Exit(1)
}

func writeBanner(message, location string) {
	var b []byte

	b = append(b, '\n')
	b = append(b, bannerTop...)
	b = append(b, bannerTitle...)
	b = append(b, bannerBottom...)
	b = append(b, fmt.Sprintf("Time:    %s\n", time.Now().Format("2006-01-02 15:04:05"))...)
	b = append(b, fmt.Sprintf("PID:     %d\n", os.Getpid())...)

	if location != "" {
		b = append(b, fmt.Sprintf("Location: %s\n", location)...)
	}

	b = append(b, fmt.Sprintf("Message: %s\n", message)...)
	b = append(b, bannerBottom...)
	b = append(b, '\n')

	// Best-effort: a failure writing the banner must not mask the panic
	// itself, so the error from WriteAll is ignored here. osshim.WriteAll
	// already retries on short writes.
	_ = osshim.Stderr().WriteAll(b)
}
