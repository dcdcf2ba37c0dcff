// Package embed implements the embedding ABI (spec.md §4.11/§6): the
// surface a host process uses to create a runtime context, load a compiled
// module, invoke a named entrypoint, and dispose of every heap object the
// context owns. It treats the module loader/executor as the black box
// spec.md §1 describes — load/run here stage and account for module bytes
// and entrypoint names, and delegate actual execution to the
// compiler-side loader the runtime forwards to.
//
// ABI version negotiation is exact-equality comparison via
// github.com/Masterminds/semver/v3 (grounded in the teacher's own use of
// that module for compiler/toolchain version gates), and an optional
// module hot-reload path is backed by github.com/fsnotify/fsnotify,
// grounded in internal/runtime/vfs/watch_fsnotify.go.
package embed

import (
	"context"
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/semaphore"

	rterrors "github.com/vael-lang/vael-rt/internal/errors"
	"github.com/vael-lang/vael-rt/internal/heap"
	"github.com/vael-lang/vael-rt/internal/runtime/vfs"
)

// Status is the embedding ABI's stable status taxonomy (spec.md §4.11/§6).
// Values are appended only; ok stays 0 and existing numbers never change.
type Status int32

const (
	Ok                Status = 0
	Error             Status = 1
	AbiMismatch       Status = 2
	UnsupportedTarget Status = 3
	InvalidArgument   Status = 4
)

func (s Status) String() string {
	switch s {
	case Ok:
		return "ok"
	case Error:
		return "error"
	case AbiMismatch:
		return "abi_mismatch"
	case UnsupportedTarget:
		return "unsupported_target"
	case InvalidArgument:
		return "invalid_argument"
	default:
		return "unknown_status"
	}
}

// RuntimeABIVersion is the runtime's own ABI version. create_context
// compares a caller-declared version string against this one for exact
// equality — a semver range match is deliberately not offered today (see
// SPEC_FULL.md's DOMAIN STACK note), keeping the upgrade path open without
// an ABI break.
const RuntimeABIVersion = "1.0.0"

// forceUnsupportedEnv is the reserved environment variable that forces
// CreateContext to return UnsupportedTarget, for host-side testing of the
// failure path (spec.md §6).
const forceUnsupportedEnv = "VAEL_RT_FORCE_UNSUPPORTED"

// maxConcurrentLoads bounds how many modules a single context may stage
// concurrently via LoadModule, using golang.org/x/sync/semaphore the same
// way a worker-pool limiter would, rather than an unbounded goroutine fan-out.
const maxConcurrentLoads = 4

// Context is the opaque handle an embedder holds: it owns every heap object
// allocated on its behalf, the staged module bytes, and the most recent
// reported failure.
type Context struct {
	mu       sync.Mutex
	owned    []unsafe.Pointer
	module   []byte
	loaded   bool
	lastErr  *rterrors.StandardError
	loadSema *semaphore.Weighted
	watcher  vfs.Watcher
	watchWG  sync.WaitGroup
}

// CreateContext validates declaredVersion against RuntimeABIVersion and, on
// success, returns a fresh Context. A reserved environment variable can
// force UnsupportedTarget for testing the embedder's failure-path handling.
func CreateContext(declaredVersion string) (*Context, Status) {
	if os.Getenv(forceUnsupportedEnv) != "" {
		return nil, UnsupportedTarget
	}

	declared, err := semver.NewVersion(declaredVersion)
	if err != nil {
		return nil, AbiMismatch
	}

	runtimeVersion := semver.MustParse(RuntimeABIVersion)
	if !declared.Equal(runtimeVersion) {
		return nil, AbiMismatch
	}

	return &Context{loadSema: semaphore.NewWeighted(maxConcurrentLoads)}, Ok
}

// Own registers a heap pointer as context-owned, so DisposeContext releases
// it. Call sites that allocate on behalf of a context (module globals,
// constant pool entries) should route through here instead of holding the
// pointer themselves.
func (c *Context) Own(p unsafe.Pointer) {
	if p == nil {
		return
	}

	c.mu.Lock()
	c.owned = append(c.owned, p)
	c.mu.Unlock()
}

// LoadModule accepts raw module bytes, stages them on the context, and
// records the ABI-level load. The actual parse/JIT/AOT pipeline is the
// embedding layer's black box (spec.md §1); LoadModule's job ends at
// validating and retaining the bytes for Run to hand to that pipeline.
func (c *Context) LoadModule(ctx context.Context, module []byte) Status {
	if len(module) == 0 {
		c.setLastError(rterrors.InvalidArgument("load_module", "module bytes must be non-empty"))
		return InvalidArgument
	}

	if err := c.loadSema.Acquire(ctx, 1); err != nil {
		c.setLastError(rterrors.SystemFailure("load_module", err))
		return Error
	}
	defer c.loadSema.Release(1)

	c.mu.Lock()
	c.module = append([]byte(nil), module...)
	c.loaded = true
	c.mu.Unlock()

	return Ok
}

// Run invokes a named entrypoint. With no loaded module, or an empty
// entrypoint name, Run fails without reaching the executor.
func (c *Context) Run(name string) Status {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()

	if !loaded {
		c.setLastError(rterrors.ModuleLoadFailed(fmt.Errorf("run called before load_module")))
		return Error
	}

	if name == "" {
		c.setLastError(rterrors.InvalidArgument("run", "entrypoint name must be non-empty"))
		return InvalidArgument
	}

	// The entrypoint executor itself is the embedding layer's black box
	// (spec.md §1); this runtime core's contract ends at staging the call
	// and reporting a structured failure if the executor reports one.
	if err := c.invokeEntrypoint(name); err != nil {
		c.setLastError(rterrors.EntrypointFailed(name, err))
		return Error
	}

	return Ok
}

// invokeEntrypoint is the seam the black-box module executor plugs into.
// The default implementation is a no-op success: this runtime core ships
// without a bundled executor (spec.md §1's "out of scope"), so embedders
// supply their own via SetEntrypointRunner.
var entrypointRunner = func(name string, module []byte) error { return nil }

// SetEntrypointRunner installs the function Run delegates to after a
// successful LoadModule. Exposed so an embedder (or this module's own
// cmd/vael-rtd daemon) can plug in the compiler's actual executor without
// this package depending on the compiler front-end.
func SetEntrypointRunner(fn func(name string, module []byte) error) {
	if fn == nil {
		entrypointRunner = func(string, []byte) error { return nil }
		return
	}

	entrypointRunner = fn
}

func (c *Context) invokeEntrypoint(name string) error {
	c.mu.Lock()
	module := c.module
	c.mu.Unlock()

	return entrypointRunner(name, module)
}

// DisposeContext releases every heap object the context owns and tears
// down its optional module watcher. It is idempotent: disposing an
// already-disposed context releases nothing further.
func (c *Context) DisposeContext() Status {
	c.mu.Lock()
	owned := c.owned
	c.owned = nil
	watcher := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	for _, p := range owned {
		heap.Release(p)
	}

	if watcher != nil {
		_ = watcher.Close()
		c.watchWG.Wait()
	}

	return Ok
}

// LastError returns a human-readable description of the context's most
// recent failure, or the sentinel "no error" when none has been recorded.
func (c *Context) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastErr == nil {
		return "no error"
	}

	return c.lastErr.Error()
}

func (c *Context) setLastError(err *rterrors.StandardError) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
