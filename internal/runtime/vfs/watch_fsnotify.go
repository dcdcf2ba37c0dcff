package vfs

import "github.com/fsnotify/fsnotify"

// fsWatcher adapts fsnotify's OS-native watcher to the Watcher interface,
// translating its richer Op bitmask down to the subset WatchModule cares
// about (a write or a create means "reload"; everything else is reported
// but otherwise ignored by callers).
type fsWatcher struct {
	w      *fsnotify.Watcher
	events chan Event
	errs   chan error
}

// NewFSWatcher starts an fsnotify-backed Watcher. The caller must Close it
// once done; Close tears down the relay goroutine along with the
// underlying fsnotify watcher.
func NewFSWatcher() (*fsWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &fsWatcher{w: w, events: make(chan Event, 128), errs: make(chan error, 1)}
	go fw.relay()

	return fw, nil
}

func (fw *fsWatcher) relay() {
	defer close(fw.events)
	defer close(fw.errs)

	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}

			fw.events <- Event{Path: ev.Name, Op: translateOp(ev.Op)}

		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}

			fw.errs <- err
		}
	}
}

func translateOp(op fsnotify.Op) WatchOp {
	var out WatchOp

	if op&fsnotify.Create != 0 {
		out |= OpCreate
	}

	if op&fsnotify.Write != 0 {
		out |= OpWrite
	}

	if op&fsnotify.Remove != 0 {
		out |= OpRemove
	}

	if op&fsnotify.Rename != 0 {
		out |= OpRename
	}

	if op&fsnotify.Chmod != 0 {
		out |= OpChmod
	}

	return out
}

func (fw *fsWatcher) Events() <-chan Event     { return fw.events }
func (fw *fsWatcher) Errors() <-chan error     { return fw.errs }
func (fw *fsWatcher) Add(name string) error    { return fw.w.Add(name) }
func (fw *fsWatcher) Remove(name string) error { return fw.w.Remove(name) }
func (fw *fsWatcher) Close() error             { return fw.w.Close() }
