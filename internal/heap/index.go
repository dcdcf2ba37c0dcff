package heap

import (
	"unsafe"

	"github.com/vael-lang/vael-rt/internal/allocator"
	"github.com/vael-lang/vael-rt/internal/panicrt"
)

// IndexAccess implements the provisional index intrinsic (spec.md §9): a
// single entry point that dispatches on the container's type tag rather
// than a family of per-type accessors, since the original reml_index_access
// is itself documented as provisional pending a real indexing protocol.
// TUPLE/RECORD/ARRAY index by slot; STRING indexes by byte and returns a
// boxed char holding that byte's value. The returned object is retained —
// callers own the result and must Release it.
func IndexAccess(container unsafe.Pointer, idx int64) unsafe.Pointer {
	if container == nil {
		panicrt.Panic("index access target is null")
	}

	if idx < 0 {
		panicrt.Panic("index access out of bounds")
	}

	switch Tag(allocator.TypeTag(container)) {
	case TagTuple, TagRecord, TagArray:
		lp := (*listPayload)(container)
		if idx >= lp.length {
			panicrt.Panic("index access out of bounds")
		}

		slot := unsafe.Slice(lp.items, lp.length)[idx]
		if slot != nil {
			Retain(slot)
		}

		return slot
	case TagString:
		sp := (*stringPayload)(container)
		if idx >= sp.length {
			panicrt.Panic("index access out of bounds")
		}

		b := unsafe.Slice(sp.data, sp.length)[idx]

		return BoxChar(rune(b))
	default:
		panicrt.Panic("index access unsupported type tag")
		return nil
	}
}
