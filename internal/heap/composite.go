package heap

import (
	"unsafe"

	"github.com/vael-lang/vael-rt/internal/allocator"
	"github.com/vael-lang/vael-rt/internal/layout"
	"github.com/vael-lang/vael-rt/internal/panicrt"
)

// listPayload is the shared shape of tuple/record/array payloads:
// {len i64, items **void}. A zero-length composite stores a nil items
// pointer rather than a zero-length allocation.
type listPayload struct {
	length int64
	items  *unsafe.Pointer
}

func newList(tag Tag, items []unsafe.Pointer) unsafe.Pointer {
	p := allocator.Allocate(layout.Tuple().Size) // tuple/record/array share one shape
	allocator.SetTypeTag(p, uint32(tag))

	lp := (*listPayload)(p)
	lp.length = int64(len(items))

	if len(items) == 0 {
		lp.items = nil
		return p
	}

	size, err := layout.ElementArray(int64(len(items)))
	if err != nil {
		panicrt.Panic(err.Error())
	}

	backing := allocator.Allocate(size)
	slots := unsafe.Slice((*unsafe.Pointer)(backing), len(items))

	for i, child := range items {
		if child != nil {
			Retain(child)
		}

		slots[i] = child
	}

	lp.items = (*unsafe.Pointer)(backing)

	return p
}

func listSlots(p unsafe.Pointer, want Tag, kind string) []unsafe.Pointer {
	if p == nil {
		panicrt.Panic(kind + " target is null")
	}

	if got := Tag(allocator.TypeTag(p)); got != want {
		panicrt.Panic(kind + " type tag mismatch")
	}

	lp := (*listPayload)(p)
	if lp.length == 0 {
		return nil
	}

	return unsafe.Slice(lp.items, lp.length)
}

// TupleOf constructs a tuple from items, retaining each non-null child. A
// negative length cannot occur in Go (items is a slice), matching the
// original API's "negative length panics" rule vacuously.
func TupleOf(items ...unsafe.Pointer) unsafe.Pointer { return newList(TagTuple, items) }

// TupleItems returns a tuple's child pointers without retaining them.
func TupleItems(p unsafe.Pointer) []unsafe.Pointer { return listSlots(p, TagTuple, "tuple") }

// RecordOf constructs a record from field values, retaining each non-null
// child.
func RecordOf(values ...unsafe.Pointer) unsafe.Pointer { return newList(TagRecord, values) }

// RecordValues returns a record's field values without retaining them.
func RecordValues(p unsafe.Pointer) []unsafe.Pointer { return listSlots(p, TagRecord, "record") }

// ArrayOf constructs an array from elements, retaining each non-null child.
func ArrayOf(elements ...unsafe.Pointer) unsafe.Pointer { return newList(TagArray, elements) }

// ArrayElements returns an array's elements without retaining them.
func ArrayElements(p unsafe.Pointer) []unsafe.Pointer { return listSlots(p, TagArray, "array") }

// ArrayLen returns an array's element count.
func ArrayLen(p unsafe.Pointer) int64 {
	if p == nil {
		panicrt.Panic("array len target is null")
	}

	if got := Tag(allocator.TypeTag(p)); got != TagArray {
		panicrt.Panic("array len type tag mismatch")
	}

	return (*listPayload)(p).length
}

// closurePayload is the CLOSURE payload shape: {env *void, code *void}.
type closurePayload struct {
	env  unsafe.Pointer
	code unsafe.Pointer
}

// ClosureNew constructs a closure over env (retained here; released on the
// closure's destruction) and an opaque code pointer. code is never
// dereferenced by this package — it is the compiled entry point address the
// caller supplies.
func ClosureNew(env, code unsafe.Pointer) unsafe.Pointer {
	p := allocator.Allocate(layout.Closure().Size)
	allocator.SetTypeTag(p, uint32(TagClosure))

	cp := (*closurePayload)(p)

	if env != nil {
		Retain(env)
	}

	cp.env = env
	cp.code = code

	return p
}

func closurePayloadOf(p unsafe.Pointer) *closurePayload {
	if p == nil {
		panicrt.Panic("closure target is null")
	}

	if got := Tag(allocator.TypeTag(p)); got != TagClosure {
		panicrt.Panic("closure type tag mismatch")
	}

	return (*closurePayload)(p)
}

// ClosureEnv returns a closure's captured environment pointer without
// retaining it.
func ClosureEnv(p unsafe.Pointer) unsafe.Pointer { return closurePayloadOf(p).env }

// ClosureCode returns a closure's opaque code pointer.
func ClosureCode(p unsafe.Pointer) unsafe.Pointer { return closurePayloadOf(p).code }
