// Package layout computes the memory layouts of the runtime core's heap
// object payloads: the fixed header, the scalar boxes, and the composite
// shapes (tuple/record/array/closure/ADT/set). internal/heap consults it to
// turn a payload "shape" into a byte size before calling the allocator;
// keeping the arithmetic here (rather than inlined at each call site) means
// the 8-byte alignment invariant (spec.md §3, invariant 7) is enforced in
// exactly one place.
package layout

import "fmt"

// Kind identifies which payload shape a layout describes.
type Kind int

const (
	KindHeader Kind = iota
	KindScalar
	KindString
	KindTuple
	KindRecord
	KindArray
	KindClosure
	KindADT
	KindSet
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindScalar:
		return "scalar"
	case KindString:
		return "string"
	case KindTuple:
		return "tuple"
	case KindRecord:
		return "record"
	case KindArray:
		return "array"
	case KindClosure:
		return "closure"
	case KindADT:
		return "adt"
	case KindSet:
		return "set"
	default:
		return "unknown"
	}
}

// Layout describes the byte size and alignment of one payload shape.
type Layout struct {
	Kind      Kind
	Size      uintptr // payload size, excluding the header
	Alignment uintptr
}

const (
	// HeaderSize is the {refcount u32, type_tag u32} pair.
	HeaderSize = 8
	// PointerSize is the target pointer width; every composite slot is one.
	PointerSize = 8
)

// AlignUp rounds size up to the next multiple of alignment. alignment must
// be a power of two; 0 or 1 are treated as "no constraint".
func AlignUp(size, alignment uintptr) uintptr {
	if alignment <= 1 {
		return size
	}

	return (size + alignment - 1) &^ (alignment - 1)
}

// IsPowerOfTwo reports whether n is a power of two.
func IsPowerOfTwo(n uintptr) bool {
	return n > 0 && (n&(n-1)) == 0
}

// ScalarSize returns the payload size of a boxed scalar of the given byte
// width. Every heap payload is allocated in units of 8 regardless of how
// few bytes the scalar itself needs (spec.md §4.1's payload rounding rule).
func ScalarSize(width uintptr) Layout {
	return Layout{Kind: KindScalar, Size: AlignUp(width, 8), Alignment: 8}
}

// String returns the layout of the string box payload: {data *byte, length i64}.
func String() Layout {
	return Layout{Kind: KindString, Size: 2 * PointerSize, Alignment: 8}
}

// Tuple returns the layout of a tuple payload: {len i64, items **void}.
func Tuple() Layout {
	return Layout{Kind: KindTuple, Size: 2 * PointerSize, Alignment: 8}
}

// Record returns the layout of a record payload: {field_count i64, values **void}.
func Record() Layout {
	return Layout{Kind: KindRecord, Size: 2 * PointerSize, Alignment: 8}
}

// Array returns the layout of an array payload: {len i64, items **void}.
func Array() Layout {
	return Layout{Kind: KindArray, Size: 2 * PointerSize, Alignment: 8}
}

// Closure returns the layout of a closure payload: {env *void, code *void}.
func Closure() Layout {
	return Layout{Kind: KindClosure, Size: 2 * PointerSize, Alignment: 8}
}

// ADT returns the layout of an ADT payload: {tag i32 (padded to 8), payload *void}.
func ADT() Layout {
	return Layout{Kind: KindADT, Size: 2 * PointerSize, Alignment: 8}
}

// Set returns the layout of a set payload: {len i64, capacity i64, items **void}.
func Set() Layout {
	return Layout{Kind: KindSet, Size: 3 * PointerSize, Alignment: 8}
}

// ElementArray returns the size, in bytes, of a zeroed pointer-slot array of
// the given element count. A negative count returns an error, which the
// internal/heap constructors turn into a panic (spec.md §4.4).
func ElementArray(n int64) (uintptr, error) {
	if n < 0 {
		return 0, fmt.Errorf("layout: negative element count %d", n)
	}

	if n == 0 {
		return 0, nil
	}

	return uintptr(n) * PointerSize, nil
}
