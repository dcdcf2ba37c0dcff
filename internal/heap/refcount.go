//go:build !vael_atomic_rc

// This build is single-threaded reference counting: plain reads and writes
// of the refcount word, no atomics. The vael_atomic_rc build tag swaps this
// file for refcount_atomic.go, which uses internal/atomics.RefCount for the
// relaxed-increment / acquire-release-decrement protocol described as an
// experimental upgrade path.
package heap

import (
	"unsafe"

	"github.com/vael-lang/vael-rt/internal/allocator"
)

// Retain increments a heap object's reference count. A null pointer is a
// no-op, matching inc_ref's documented behavior on a null argument.
func Retain(p unsafe.Pointer) {
	if p == nil {
		return
	}

	allocator.SetRefCount(p, allocator.RefCount(p)+1)
}

// Release decrements a heap object's reference count and, if it drops to
// zero, dispatches to the destructor for the object's type tag before
// freeing its memory. A null pointer is a no-op.
func Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	rc := allocator.RefCount(p)
	if rc == 0 {
		// Already at zero: a double-release. The original runtime treats
		// this as undefined behavior; here it returns without calling the
		// allocator, so it is not reported, even with
		// allocator.EnableDebug set.
		return
	}

	rc--
	allocator.SetRefCount(p, rc)

	if rc > 0 {
		return
	}

	destroy(p)
	allocator.Free(p)
}

// destroy runs the type-tag-specific teardown that releases a composite's
// children before its own memory is freed. Scalars (INT/FLOAT/BOOL/CHAR)
// have no children. STRING's destructor is a documented no-op: the boxed
// string's backing buffer is a Go-managed []byte reachable only from the
// payload, so it is collected once the payload itself is freed — there is
// no separate "owns its data" flag to consult, unlike the original runtime
// where this is an open TODO.
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
	case TagInt, TagFloat, TagBool, TagChar, TagString:
		// no children
	default:
		// Unknown tag: nothing to release. A freshly allocated object
		// (tag 0, before its constructor sets a real tag) can reach here
		// if released prematurely; there is nothing to recover into.
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
