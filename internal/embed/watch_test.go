package embed

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchModuleReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "module.bin")

	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	ctx, status := CreateContext(RuntimeABIVersion)
	if status != Ok {
		t.Fatalf("CreateContext status = %v", status)
	}

	defer ctx.DisposeContext()

	if status := ctx.WatchModule(path); status != Ok {
		t.Fatalf("WatchModule status = %v", status)
	}

	if err := os.WriteFile(path, []byte("v2 module bytes"), 0o644); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		ctx.mu.Lock()
		loaded := ctx.loaded
		module := string(ctx.module)
		ctx.mu.Unlock()

		if loaded && module == "v2 module bytes" {
			return
		}

		time.Sleep(20 * time.Millisecond)
	}

	t.Fatal("WatchModule did not reload the module within the deadline")
}
