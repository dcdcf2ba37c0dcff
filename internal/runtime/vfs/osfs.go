package vfs

import "os"

// OSFS opens module files straight off the local filesystem. It is the
// FileSystem WatchModule reads reloaded module bytes through.
type OSFS struct{}

// NewOS returns an OSFS. There's no state to hold, so every caller can
// share the same zero-value instance, but a constructor keeps the call
// sites symmetric with a future non-OS FileSystem.
func NewOS() *OSFS { return &OSFS{} }

func (OSFS) Open(name string) (File, error) { return os.Open(name) }
