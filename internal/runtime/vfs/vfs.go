// Package vfs is the filesystem and file-watch seam behind
// internal/embed's module hot-reload path. A FileSystem opens module bytes
// back off disk once a Watcher says they changed; neither interface
// carries more than WatchModule actually exercises.
package vfs

import (
	"io"
	"time"
)

// File is the read side of an open module file: enough for WatchModule to
// slurp the new bytes after a reload event, nothing more.
type File interface {
	io.Reader
	io.Closer
}

// FileSystem opens module files by path. OSFS is the only implementation
// today; the interface stays separate from *os.File so a future in-memory
// or embedded-asset source could back WatchModule's tests without touching
// real disk.
type FileSystem interface {
	Open(name string) (File, error)
}

// WatchOp classifies a Watcher event. WatchModule only ever acts on
// OpCreate and OpWrite; the rest exist so a Watcher implementation can
// still report what actually happened at the OS level.
type WatchOp uint32

const (
	OpCreate WatchOp = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is a single filesystem change delivered by a Watcher.
type Event struct {
	Path string
	Op   WatchOp
	Time time.Time
}

// Watcher is the platform-independent half of module hot-reload:
// something that watches a path and delivers Events/Errors until Close'd.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Add(name string) error
	Remove(name string) error
	Close() error
}
