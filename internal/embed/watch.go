package embed

import (
	"context"
	"io"

	rterrors "github.com/vael-lang/vael-rt/internal/errors"
	"github.com/vael-lang/vael-rt/internal/runtime/vfs"
)

// WatchModule watches path for writes and reloads the module from disk each
// time it changes, the way a compiler-driven dev loop would hot-reload a
// running embedder without it calling LoadModule by hand. It is an
// **[ADD]** convenience over the core ABI (spec.md treats module loading as
// the embedding layer's black box); grounded in internal/runtime/vfs's
// FileSystem/Watcher abstraction (vfs.NewOS, vfs.NewFSWatcher), the same
// portable-watch layer the teacher's module package loader uses for its own
// hot-reload path.
//
// WatchModule starts a background goroutine and returns immediately.
// Reload failures are recorded as the context's last error but do not stop
// the watch — a transient write (editor save in two syscalls) must not
// wedge the loop.
func (c *Context) WatchModule(path string) Status {
	w, err := vfs.NewFSWatcher()
	if err != nil {
		c.setLastError(rterrors.SystemFailure("watch_module", err))
		return Error
	}

	if err := w.Add(path); err != nil {
		_ = w.Close()
		c.setLastError(rterrors.SystemFailure("watch_module", err))
		return Error
	}

	c.mu.Lock()
	if c.watcher != nil {
		_ = c.watcher.Close()
	}

	c.watcher = w
	c.mu.Unlock()

	c.watchWG.Add(1)

	go c.watchLoop(w, path)

	return Ok
}

func (c *Context) watchLoop(w vfs.Watcher, path string) {
	defer c.watchWG.Done()

	fsys := vfs.NewOS()

	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return
			}

			if ev.Op&(vfs.OpWrite|vfs.OpCreate) == 0 {
				continue
			}

			data, err := readFile(fsys, path)
			if err != nil {
				c.setLastError(rterrors.SystemFailure("watch_module_reload", err))
				continue
			}

			if status := c.LoadModule(context.Background(), data); status != Ok {
				c.setLastError(rterrors.ModuleLoadFailed(rterrors.InvalidArgument("watch_module_reload", c.LastError())))
			}

		case err, ok := <-w.Errors():
			if !ok {
				return
			}

			c.setLastError(rterrors.SystemFailure("watch_module", err))
		}
	}
}

func readFile(fsys vfs.FileSystem, path string) ([]byte, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
