package heap

import (
	"unsafe"

	"github.com/vael-lang/vael-rt/internal/allocator"
	"github.com/vael-lang/vael-rt/internal/layout"
	"github.com/vael-lang/vael-rt/internal/panicrt"
)

// charMax and surrogateLow/surrogateHigh bound the valid Unicode scalar value range a
// boxed char may hold: U+0000..U+10FFFF excluding the surrogate range
// U+D800..U+DFFF (spec.md §4.3, edge case list).
const (
	charMax       = 0x10FFFF
	surrogateLow  = 0xD800
	surrogateHigh = 0xDFFF
)

// BoxI64 allocates a boxed 64-bit integer.
func BoxI64(v int64) unsafe.Pointer {
	p := allocator.Allocate(layout.ScalarSize(8).Size)
	allocator.SetTypeTag(p, uint32(TagInt))
	*(*int64)(p) = v

	return p
}

// UnboxI64 reads a boxed 64-bit integer. It panics if target is null or not
// tagged INT.
func UnboxI64(p unsafe.Pointer) int64 {
	checkUnboxTarget(p, TagInt, "i64")
	return *(*int64)(p)
}

// BoxF64 allocates a boxed 64-bit float.
func BoxF64(v float64) unsafe.Pointer {
	p := allocator.Allocate(layout.ScalarSize(8).Size)
	allocator.SetTypeTag(p, uint32(TagFloat))
	*(*float64)(p) = v

	return p
}

// UnboxF64 reads a boxed 64-bit float. It panics if target is null or not
// tagged FLOAT.
func UnboxF64(p unsafe.Pointer) float64 {
	checkUnboxTarget(p, TagFloat, "f64")
	return *(*float64)(p)
}

// BoxBool allocates a boxed boolean.
func BoxBool(v bool) unsafe.Pointer {
	p := allocator.Allocate(layout.ScalarSize(1).Size)
	allocator.SetTypeTag(p, uint32(TagBool))

	var b byte
	if v {
		b = 1
	}

	*(*byte)(p) = b

	return p
}

// UnboxBool reads a boxed boolean. It panics if target is null or not
// tagged BOOL.
func UnboxBool(p unsafe.Pointer) bool {
	checkUnboxTarget(p, TagBool, "bool")
	return *(*byte)(p) != 0
}

// BoxChar allocates a boxed Unicode scalar value. It panics if v is a
// surrogate code point or exceeds U+10FFFF.
func BoxChar(v rune) unsafe.Pointer {
	if v < 0 || v > charMax || (v >= surrogateLow && v <= surrogateHigh) {
		panicrt.Panic("box char value out of range")
	}

	p := allocator.Allocate(layout.ScalarSize(4).Size)
	allocator.SetTypeTag(p, uint32(TagChar))
	*(*int32)(p) = int32(v)

	return p
}

// UnboxChar reads a boxed char. It panics if target is null or not tagged
// CHAR.
func UnboxChar(p unsafe.Pointer) rune {
	checkUnboxTarget(p, TagChar, "char")
	return rune(*(*int32)(p))
}

// stringPayload is the layout of the STRING box: {data *byte, length i64}.
type stringPayload struct {
	data   *byte
	length int64
}

// BoxString allocates a boxed string, copying s's bytes into runtime-owned
// memory so the Go string (and any slice it may alias) can be garbage
// collected independently of the heap object's lifetime.
func BoxString(s string) unsafe.Pointer {
	p := allocator.Allocate(layout.String().Size)
	allocator.SetTypeTag(p, uint32(TagString))

	sp := (*stringPayload)(p)

	if len(s) == 0 {
		sp.data = nil
		sp.length = 0

		return p
	}

	buf := make([]byte, len(s))
	copy(buf, s)
	sp.data = &buf[0]
	sp.length = int64(len(s))

	return p
}

// UnboxString reads a boxed string's contents as a Go string. It panics if
// target is null or not tagged STRING.
func UnboxString(p unsafe.Pointer) string {
	checkUnboxTarget(p, TagString, "string")

	sp := (*stringPayload)(p)
	if sp.data == nil || sp.length == 0 {
		return ""
	}

	return string(unsafe.Slice(sp.data, sp.length))
}

// StringBytes returns a boxed string's raw data pointer and length, for the
// FFI bridge's span conversion (internal/ffi.BoxString). It panics under
// the same rules as UnboxString.
func StringBytes(p unsafe.Pointer) (*byte, int64) {
	checkUnboxTarget(p, TagString, "string")

	sp := (*stringPayload)(p)

	return sp.data, sp.length
}

// BoxStringBytes allocates a boxed string directly from a raw data pointer
// and length, copying the bytes into runtime-owned memory exactly like
// BoxString. It backs the FFI bridge's UnboxSpan, which rebuilds a string
// box from a Span that may originate outside the Go heap.
func BoxStringBytes(data *byte, length int64) unsafe.Pointer {
	if data == nil || length <= 0 {
		return BoxString("")
	}

	return BoxString(string(unsafe.Slice(data, length)))
}

func checkUnboxTarget(p unsafe.Pointer, want Tag, kind string) {
	if p == nil {
		panicrt.Panic(kind + " unbox target is null")
	}

	if got := Tag(allocator.TypeTag(p)); got != want {
		panicrt.Panic(kind + " unbox type tag mismatch")
	}
}
