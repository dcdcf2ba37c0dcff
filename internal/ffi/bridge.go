// Package ffi implements the runtime core's FFI marshaling bridge
// (spec.md §4.7): borrow/transfer helpers that keep the reference-count
// protocol honest across a call boundary, span <-> string-box conversion,
// and the five monotonic pass-rate metrics a host embedder can inspect
// without the bridge itself ever reporting or logging a failure — it only
// accounts. Grounded in internal/runtime/refcount_optimizer.go's
// atomic-counter idiom (internal/atomics.Counter here) and
// original_source's ffi_bridge.c for the exact metric names and the
// "total_calls >= success_calls" invariant.
package ffi

import (
	"unsafe"

	"github.com/vael-lang/vael-rt/internal/atomics"
	"github.com/vael-lang/vael-rt/internal/heap"
)

// Span is a {pointer, length} view across the FFI boundary, used to hand a
// boxed string's bytes to a caller without copying.
type Span struct {
	Data unsafe.Pointer
	Len  uintptr
}

// AcquireBorrowed retains v and returns it unchanged: the caller is
// borrowing the reference and must not release it beyond the call, but the
// bridge still needs the object alive for the duration of the call, so it
// takes its own retain here. Null passes through untouched.
func AcquireBorrowed(v unsafe.Pointer) unsafe.Pointer {
	if v != nil {
		heap.Retain(v)
	}

	return v
}

// AcquireTransferred returns v unchanged. It exists as a named placeholder
// for future ownership-transfer auditing hooks (spec.md §4.7) — today a
// transferred value simply moves across the call with no extra retain.
func AcquireTransferred(v unsafe.Pointer) unsafe.Pointer {
	return v
}

// ReleaseTransferred releases a transferred value. Callers must never call
// this on a value acquired via AcquireBorrowed — doing so double-releases
// the borrow's own retain.
func ReleaseTransferred(v unsafe.Pointer) {
	heap.Release(v)
}

// MakeSpan constructs a Span, forcing Len to zero when Data is null so a
// null span is never observed with a nonzero length.
func MakeSpan(data unsafe.Pointer, length uintptr) Span {
	if data == nil {
		return Span{}
	}

	return Span{Data: data, Len: length}
}

// BoxString packages a boxed string's data pointer and length as a Span.
// A null receiver yields an empty span rather than panicking; a non-null
// receiver that is not tagged STRING panics through heap.StringBytes, under
// the same rules as heap.UnboxString.
func BoxString(s unsafe.Pointer) Span {
	if s == nil {
		return Span{}
	}

	data, length := heap.StringBytes(s)
	if length == 0 {
		return Span{}
	}

	return MakeSpan(unsafe.Pointer(data), uintptr(length))
}

// maxI64 clamps an overlong span length down to the int64 range the boxed
// string payload's length field can hold.
const maxI64 = int64(^uint64(0) >> 1)

// UnboxSpan rebuilds a boxed string view over a Span's bytes, clamping an
// oversized length to maxI64 rather than overflowing the payload's i64
// length field.
func UnboxSpan(s Span) unsafe.Pointer {
	if s.Data == nil {
		return heap.BoxString("")
	}

	length := int64(s.Len)
	if s.Len > uintptr(maxI64) {
		length = maxI64
	}

	return heap.BoxStringBytes((*byte)(s.Data), length)
}

// Status is the outcome an FFI call site reports through RecordStatus.
type Status int

const (
	StatusFail Status = iota
	StatusOK
)

// Metrics holds the bridge's five monotonic counters (spec.md §4.7). The
// zero value is a freshly reset set of counters; callers normally use the
// package-level Global instance rather than constructing their own.
type Metrics struct {
	totalCalls         atomics.Counter
	successCalls       atomics.Counter
	borrowedResults    atomics.Counter
	transferredResults atomics.Counter
	nullResults        atomics.Counter
}

// Global is the bridge's process-wide metrics instance, the one every
// compiled call site and every AcquireBorrowedResult/AcquireTransferredResult
// call updates. It is safe for concurrent use (spec.md §5: "the global FFI
// metrics counters are shared and lock-free").
var Global Metrics

// RecordStatus increments TotalCalls, and SuccessCalls when ok is true.
func (m *Metrics) RecordStatus(ok bool) {
	m.totalCalls.Add(1)

	if ok {
		m.successCalls.Add(1)
	}
}

// AcquireBorrowedResult is AcquireBorrowed with a BorrowedResults/NullResults
// metric update, for call sites that return a borrowed reference.
func (m *Metrics) AcquireBorrowedResult(v unsafe.Pointer) unsafe.Pointer {
	if v == nil {
		m.nullResults.Add(1)
		return nil
	}

	m.borrowedResults.Add(1)

	return AcquireBorrowed(v)
}

// AcquireTransferredResult is AcquireTransferred with a
// TransferredResults/NullResults metric update.
func (m *Metrics) AcquireTransferredResult(v unsafe.Pointer) unsafe.Pointer {
	if v == nil {
		m.nullResults.Add(1)
		return nil
	}

	m.transferredResults.Add(1)

	return AcquireTransferred(v)
}

// ResetMetrics stores zero into every counter.
func (m *Metrics) ResetMetrics() {
	m.totalCalls.Store(0)
	m.successCalls.Store(0)
	m.borrowedResults.Store(0)
	m.transferredResults.Store(0)
	m.nullResults.Store(0)
}

// PassRate returns SuccessCalls/TotalCalls, or 1.0 when no calls have been
// recorded yet — an empty bridge has not failed anything.
func (m *Metrics) PassRate() float64 {
	total := m.totalCalls.Load()
	if total == 0 {
		return 1.0
	}

	return float64(m.successCalls.Load()) / float64(total)
}

// Snapshot is a point-in-time read of every counter, each loaded
// independently (spec.md §5: snapshots may be slightly inconsistent across
// counters but never torn within one).
type Snapshot struct {
	TotalCalls         int64
	SuccessCalls       int64
	BorrowedResults    int64
	TransferredResults int64
	NullResults        int64
}

// Snapshot reads every counter.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		TotalCalls:         m.totalCalls.Load(),
		SuccessCalls:       m.successCalls.Load(),
		BorrowedResults:    m.borrowedResults.Load(),
		TransferredResults: m.transferredResults.Load(),
		NullResults:        m.nullResults.Load(),
	}
}

// RecordStatus, AcquireBorrowedResult, AcquireTransferredResult, ResetMetrics
// and PassRate against the package-level Global metrics, for ABI call sites
// that don't hold their own Metrics value.

func RecordStatus(ok bool)                                    { Global.RecordStatus(ok) }
func AcquireBorrowedResult(v unsafe.Pointer) unsafe.Pointer    { return Global.AcquireBorrowedResult(v) }
func AcquireTransferredResult(v unsafe.Pointer) unsafe.Pointer { return Global.AcquireTransferredResult(v) }
func ResetMetrics()                                            { Global.ResetMetrics() }
func PassRate() float64                                        { return Global.PassRate() }
