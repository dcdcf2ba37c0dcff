// Command vael-rt-smoke exercises the embedding ABI end-to-end in-process
// (no network): create a context, load a minimal module, run its entry
// point, inspect the FFI bridge's pass-rate metrics, and dispose the
// context. It is the CLI front door a release pipeline runs as a quick
// "does the runtime still work" check, the same role the teacher's
// cmd/numa-integration-test or cmd/orizon-fuzz one-shot binaries play for
// their own subsystems.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vael-lang/vael-rt/internal/embed"
	"github.com/vael-lang/vael-rt/internal/ffi"
	"github.com/vael-lang/vael-rt/internal/heap"
)

func main() {
	var abiVersion string

	flag.StringVar(&abiVersion, "abi-version", embed.RuntimeABIVersion, "ABI version to declare to create_context")
	flag.Parse()

	if err := run(abiVersion); err != nil {
		fmt.Fprintln(os.Stderr, "vael-rt-smoke:", err)
		os.Exit(1)
	}

	fmt.Println("vael-rt-smoke: ok")
}

func run(abiVersion string) error {
	ctx, status := embed.CreateContext(abiVersion)
	if status != embed.Ok {
		return fmt.Errorf("create_context: %s", status)
	}

	defer ctx.DisposeContext()

	if status := ctx.LoadModule(context.Background(), []byte("minimal module bytes")); status != embed.Ok {
		return fmt.Errorf("load_module: %s (%s)", status, ctx.LastError())
	}

	if status := ctx.Run("main"); status != embed.Ok {
		return fmt.Errorf("run: %s (%s)", status, ctx.LastError())
	}

	// Exercise the heap object model and FFI bridge the way a compiled
	// program's generated code would: box a value, retain/release it, and
	// round-trip it through the FFI bridge's borrowed-result helper.
	v := heap.BoxI64(42)
	ffi.RecordStatus(true)

	borrowed := ffi.AcquireBorrowedResult(v)
	heap.Release(borrowed)
	heap.Release(v)

	if rate := ffi.PassRate(); rate != 1.0 {
		return fmt.Errorf("unexpected ffi pass rate after a single success: %v", rate)
	}

	return nil
}
