package vfs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOSFSOpenReadsWrittenBytes(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "module.bin")

	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	f, err := NewOS().Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	buf := make([]byte, 5)
	if _, err := f.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if string(buf) != "hello" {
		t.Fatalf("got %q, want %q", string(buf), "hello")
	}
}

func TestOSFSOpenMissingFileFails(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewOS().Open(filepath.Join(dir, "missing.bin")); err == nil {
		t.Fatal("expected an error opening a nonexistent file")
	}
}

func TestFSWatcherReportsWriteEvent(t *testing.T) {
	w, err := NewFSWatcher()
	if err != nil {
		t.Skip("fsnotify not supported on this platform:", err)
	}
	defer w.Close()

	dir := t.TempDir()
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add: %v", err)
	}

	target := filepath.Join(dir, "module.bin")

	go func() {
		_ = os.WriteFile(target, []byte("v1"), 0o644)
	}()

	select {
	case ev := <-w.Events():
		if ev.Path == "" {
			t.Fatal("event carried an empty path")
		}

		if ev.Op&(OpCreate|OpWrite) == 0 {
			t.Fatalf("Op = %v, want OpCreate or OpWrite set", ev.Op)
		}

	case err := <-w.Errors():
		t.Fatalf("watcher reported an error: %v", err)

	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a write event")
	}
}
