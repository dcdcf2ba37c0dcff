//go:build vael_atomic_rc

// This build swaps in atomic reference counting behind the vael_atomic_rc
// tag: Retain is a relaxed increment, Release is an acquire-release
// decrement with a fence before the destructor runs on the thread that
// observes the count reach zero (spec.md §5's experimental upgrade path).
// It is not the default build because the runtime's primary target is
// single-threaded embedding; this path exists for embedders that share
// heap objects across goroutines and accept the throughput cost.
package heap

import (
	"unsafe"

	"github.com/vael-lang/vael-rt/internal/allocator"
	"github.com/vael-lang/vael-rt/internal/atomics"
)

func refCountField(p unsafe.Pointer) *atomics.RefCount {
	return (*atomics.RefCount)(allocator.HeaderOf(p))
}

// Retain atomically increments a heap object's reference count. A null
// pointer is a no-op.
func Retain(p unsafe.Pointer) {
	if p == nil {
		return
	}

	refCountField(p).Retain()
}

// Release atomically decrements a heap object's reference count and, if the
// decrementing goroutine observes it reach zero, dispatches the destructor
// and frees the object. A null pointer is a no-op.
func Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	if refCountField(p).Release() != 0 {
		return
	}

	destroy(p)
	allocator.Free(p)
}

func destroy(p unsafe.Pointer) {
	switch Tag(allocator.TypeTag(p)) {
	case TagTuple, TagRecord, TagArray:
		destroyList(p)
	case TagClosure:
		destroyClosure(p)
	case TagADT:
		destroyADT(p)
	case TagSet:
		destroySet(p)
	}
}

func destroyList(p unsafe.Pointer) {
	lp := (*listPayload)(p)
	if lp.length == 0 {
		return
	}

	for _, child := range unsafe.Slice(lp.items, lp.length) {
		if child != nil {
			Release(child)
		}
	}

	allocator.Free(unsafe.Pointer(lp.items))
}

func destroyClosure(p unsafe.Pointer) {
	cp := (*closurePayload)(p)
	if cp.env != nil {
		Release(cp.env)
	}
}

func destroyADT(p unsafe.Pointer) {
	ap := (*adtPayload)(p)
	if ap.payload != nil {
		Release(ap.payload)
	}
}

func destroySet(p unsafe.Pointer) {
	sp := (*setPayload)(p)
	if sp.length == 0 {
		return
	}

	for _, child := range unsafe.Slice(sp.items, sp.length) {
		if child != nil {
			Release(child)
		}
	}

	allocator.Free(unsafe.Pointer(sp.items))
}
