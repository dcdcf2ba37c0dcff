// Package atomics provides the relaxed-counter shim used by metrics and by
// the experimental atomic reference-counting path. It exists as its own
// package — rather than scattering sync/atomic calls throughout the
// runtime — so the concurrency model described in spec.md §5 (relaxed
// increments, acquire-release on the decrement that reaches zero) has one
// place documenting which ordering each call site needs.
package atomics

import "sync/atomic"

// Counter is a monotonic relaxed counter. Every FFI bridge metric is one of
// these.
type Counter struct {
	v int64
}

// Add increments the counter by delta using a relaxed add and returns the
// new value. Relaxed is sufficient here: metrics are observed independently
// of each other (spec.md §5 — "snapshots may be slightly inconsistent
// across counters but never torn within a counter").
func (c *Counter) Add(delta int64) int64 {
	return atomic.AddInt64(&c.v, delta)
}

// Load performs a relaxed load of the current value.
func (c *Counter) Load() int64 {
	return atomic.LoadInt64(&c.v)
}

// Store resets the counter to an arbitrary value (used by reset_metrics).
func (c *Counter) Store(v int64) {
	atomic.StoreInt64(&c.v, v)
}

// RefCount is the atomic variant of a heap object's refcount field, used
// only by the experimental build-tagged atomic RC path
// (internal/heap/refcount_atomic.go). The default, spec-compliant build
// uses a plain uint32 field with program-order increments instead.
type RefCount struct {
	v uint32
}

// Retain performs a relaxed fetch-add, matching the "relaxed atomic add" the
// spec calls for on the increment side.
func (r *RefCount) Retain() uint32 {
	return atomic.AddUint32(&r.v, 1)
}

// Release performs the decrement leg. The spec requires acquire-release
// semantics here — release on the decrement itself, acquire the moment the
// count is observed to reach zero — so that the destructor dispatch that
// follows never sees writes from other threads reordered past it.
// sync/atomic's AddUint32 on amd64/arm64 already carries full sequential
// consistency, which satisfies both requirements; RefCount.Release documents
// the requirement rather than hand-rolling weaker primitives the standard
// library doesn't expose anyway.
func (r *RefCount) Release() uint32 {
	return atomic.AddUint32(&r.v, ^uint32(0))
}

// Load reads the current count without synchronizing with any pending
// Retain/Release — used only for diagnostics.
func (r *RefCount) Load() uint32 {
	return atomic.LoadUint32(&r.v)
}
