package ffi

import (
	"testing"

	"github.com/vael-lang/vael-rt/internal/allocator"
	"github.com/vael-lang/vael-rt/internal/heap"
)

func TestAcquireBorrowedRetains(t *testing.T) {
	v := heap.BoxI64(7)
	heap.Retain(v) // simulate the caller's own reference, refcount = 2

	got := AcquireBorrowed(v)
	if got != v {
		t.Fatalf("AcquireBorrowed returned %p, want %p", got, v)
	}

	if rc := allocator.RefCount(v); rc != 3 {
		t.Fatalf("RefCount after AcquireBorrowed = %d, want 3", rc)
	}

	heap.Release(v) // bridge's retain
	heap.Release(v) // caller's own reference
}

func TestAcquireBorrowedNilPassesThrough(t *testing.T) {
	if AcquireBorrowed(nil) != nil {
		t.Fatal("AcquireBorrowed(nil) != nil")
	}
}

func TestReleaseTransferredReleasesExactlyOnce(t *testing.T) {
	v := heap.BoxI64(1)
	ReleaseTransferred(AcquireTransferred(v))
	// v is now freed; nothing further to assert without reaching into the
	// allocator, which internal/heap's own tests already cover.
}

func TestBoxStringRoundTripsThroughSpan(t *testing.T) {
	s := heap.BoxString("hello")
	defer heap.Release(s)

	span := BoxString(s)
	if span.Len != 5 {
		t.Fatalf("span.Len = %d, want 5", span.Len)
	}

	rebuilt := UnboxSpan(span)
	defer heap.Release(rebuilt)

	if heap.UnboxString(rebuilt) != "hello" {
		t.Fatalf("UnboxSpan round-trip = %q, want %q", heap.UnboxString(rebuilt), "hello")
	}
}

func TestBoxStringNilYieldsEmptySpan(t *testing.T) {
	span := BoxString(nil)
	if span.Data != nil || span.Len != 0 {
		t.Fatalf("BoxString(nil) = %+v, want zero span", span)
	}
}

func TestUnboxSpanNullDataYieldsEmptyString(t *testing.T) {
	p := UnboxSpan(Span{})
	defer heap.Release(p)

	if heap.UnboxString(p) != "" {
		t.Fatalf("UnboxSpan(zero span) = %q, want empty", heap.UnboxString(p))
	}
}

func TestMetricsPassRateScenario(t *testing.T) {
	var m Metrics

	if got := m.PassRate(); got != 1.0 {
		t.Fatalf("PassRate on fresh metrics = %v, want 1.0", got)
	}

	m.RecordStatus(true)
	m.RecordStatus(false)

	snap := m.Snapshot()
	if snap.TotalCalls != 2 {
		t.Fatalf("TotalCalls = %d, want 2", snap.TotalCalls)
	}

	if snap.SuccessCalls != 1 {
		t.Fatalf("SuccessCalls = %d, want 1", snap.SuccessCalls)
	}

	if got := m.PassRate(); got != 0.5 {
		t.Fatalf("PassRate = %v, want 0.5", got)
	}
}

func TestMetricsAcquireResultBuckets(t *testing.T) {
	var m Metrics

	v := heap.BoxI64(1)
	defer heap.Release(v)

	borrowed := m.AcquireBorrowedResult(v)
	if borrowed != v {
		t.Fatal("AcquireBorrowedResult should pass the pointer through")
	}

	heap.Release(v) // undo the retain AcquireBorrowedResult performed

	m.AcquireBorrowedResult(nil)

	snap := m.Snapshot()
	if snap.BorrowedResults != 1 {
		t.Fatalf("BorrowedResults = %d, want 1", snap.BorrowedResults)
	}

	if snap.NullResults != 1 {
		t.Fatalf("NullResults = %d, want 1", snap.NullResults)
	}
}

func TestResetMetricsZeroesAllCounters(t *testing.T) {
	var m Metrics

	m.RecordStatus(true)
	m.AcquireTransferredResult(heap.BoxI64(1))
	m.ResetMetrics()

	snap := m.Snapshot()
	want := Snapshot{}

	if snap != want {
		t.Fatalf("Snapshot after reset = %+v, want %+v", snap, want)
	}
}
