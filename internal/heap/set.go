package heap

import (
	"unsafe"

	"github.com/vael-lang/vael-rt/internal/allocator"
	"github.com/vael-lang/vael-rt/internal/layout"
	"github.com/vael-lang/vael-rt/internal/panicrt"
)

// setPayload is the SET payload shape: {len i64, capacity i64, items **void}.
// Sets are persistent: insert never mutates an existing set object, it
// allocates a new one (spec.md §4.6), so capacity always equals len here —
// there is no amortized over-allocation to preserve across inserts.
type setPayload struct {
	length   int64
	capacity int64
	items    *unsafe.Pointer
}

// SetNew constructs an empty set.
func SetNew() unsafe.Pointer {
	p := allocator.Allocate(layout.Set().Size)
	allocator.SetTypeTag(p, uint32(TagSet))

	sp := (*setPayload)(p)
	sp.length = 0
	sp.capacity = 0
	sp.items = nil

	return p
}

func setPayloadOf(p unsafe.Pointer, op string) *setPayload {
	if p == nil {
		panicrt.Panic("set " + op + " target is null")
	}

	if got := Tag(allocator.TypeTag(p)); got != TagSet {
		panicrt.Panic("set " + op + " type tag mismatch")
	}

	return (*setPayload)(p)
}

func setSlots(sp *setPayload) []unsafe.Pointer {
	if sp.length == 0 {
		return nil
	}

	return unsafe.Slice(sp.items, sp.length)
}

// SetLen returns a set's element count. Panics if set is null.
func SetLen(set unsafe.Pointer) int64 {
	return setPayloadOf(set, "len").length
}

// SetContains reports whether value is a member of set, by pointer
// identity — the same linear scan the original runtime performs, since
// structural equality is not defined for arbitrary heap objects. Panics if
// set is null.
func SetContains(set, value unsafe.Pointer) bool {
	sp := setPayloadOf(set, "contains")

	for _, slot := range setSlots(sp) {
		if slot == value {
			return true
		}
	}

	return false
}

// SetInsert returns a new set containing set's existing members plus value
// (retaining each), or set's own members unchanged in identity content if
// value is already present. The existing set object is left untouched.
// Panics if set is null.
func SetInsert(set, value unsafe.Pointer) unsafe.Pointer {
	sp := setPayloadOf(set, "insert")
	existing := setSlots(sp)

	exists := false

	for _, slot := range existing {
		if slot == value {
			exists = true
			break
		}
	}

	newLen := sp.length
	if !exists {
		newLen++
	}

	result := allocator.Allocate(layout.Set().Size)
	allocator.SetTypeTag(result, uint32(TagSet))

	rp := (*setPayload)(result)
	rp.length = newLen
	rp.capacity = newLen

	if newLen == 0 {
		rp.items = nil
		return result
	}

	size, err := layout.ElementArray(newLen)
	if err != nil {
		panicrt.Panic(err.Error())
	}

	backing := allocator.Allocate(size)
	slots := unsafe.Slice((*unsafe.Pointer)(backing), newLen)

	i := 0
	for _, slot := range existing {
		if slot != nil {
			Retain(slot)
		}

		slots[i] = slot
		i++
	}

	if !exists {
		if value != nil {
			Retain(value)
		}

		slots[i] = value
	}

	rp.items = (*unsafe.Pointer)(backing)

	return result
}
