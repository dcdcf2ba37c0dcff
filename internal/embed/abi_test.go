package embed

import (
	"context"
	"os"
	"testing"

	"github.com/vael-lang/vael-rt/internal/heap"
)

func TestCreateContextAbiMismatch(t *testing.T) {
	ctx, status := CreateContext("9.9.9")
	if status != AbiMismatch {
		t.Fatalf("status = %v, want AbiMismatch", status)
	}

	if ctx != nil {
		t.Fatal("expected nil context on abi mismatch")
	}
}

func TestCreateContextMalformedVersionIsMismatch(t *testing.T) {
	_, status := CreateContext("not-a-version")
	if status != AbiMismatch {
		t.Fatalf("status = %v, want AbiMismatch", status)
	}
}

func TestEmbeddingLifecycleScenario(t *testing.T) {
	ctx, status := CreateContext(RuntimeABIVersion)
	if status != Ok {
		t.Fatalf("CreateContext status = %v, want Ok", status)
	}

	if status := ctx.LoadModule(context.Background(), []byte("minimal module bytes")); status != Ok {
		t.Fatalf("LoadModule status = %v, want Ok", status)
	}

	if status := ctx.Run("main"); status != Ok {
		t.Fatalf("Run status = %v, want Ok", status)
	}

	if status := ctx.DisposeContext(); status != Ok {
		t.Fatalf("DisposeContext status = %v, want Ok", status)
	}
}

func TestLoadModuleRejectsEmptyBytes(t *testing.T) {
	ctx, _ := CreateContext(RuntimeABIVersion)

	if status := ctx.LoadModule(context.Background(), nil); status != InvalidArgument {
		t.Fatalf("status = %v, want InvalidArgument", status)
	}
}

func TestRunBeforeLoadFails(t *testing.T) {
	ctx, _ := CreateContext(RuntimeABIVersion)

	if status := ctx.Run("main"); status != Error {
		t.Fatalf("status = %v, want Error", status)
	}

	if ctx.LastError() == "no error" {
		t.Fatal("expected LastError to be populated after a failed Run")
	}
}

func TestForceUnsupportedEnv(t *testing.T) {
	os.Setenv(forceUnsupportedEnv, "1")
	defer os.Unsetenv(forceUnsupportedEnv)

	_, status := CreateContext(RuntimeABIVersion)
	if status != UnsupportedTarget {
		t.Fatalf("status = %v, want UnsupportedTarget", status)
	}
}

func TestDisposeContextReleasesOwnedObjects(t *testing.T) {
	ctx, _ := CreateContext(RuntimeABIVersion)

	v := heap.BoxI64(42)
	ctx.Own(v)

	if status := ctx.DisposeContext(); status != Ok {
		t.Fatalf("status = %v, want Ok", status)
	}

	// A second dispose must not double-release the already-freed object.
	if status := ctx.DisposeContext(); status != Ok {
		t.Fatalf("second dispose status = %v, want Ok", status)
	}
}

func TestLastErrorSentinelWhenClean(t *testing.T) {
	ctx, _ := CreateContext(RuntimeABIVersion)
	if got := ctx.LastError(); got != "no error" {
		t.Fatalf("LastError on fresh context = %q, want %q", got, "no error")
	}
}
