package heap

import (
	"unsafe"

	"github.com/vael-lang/vael-rt/internal/strops"
)

func stringBytes(p unsafe.Pointer) (data []byte, isNull bool) {
	if p == nil {
		return nil, true
	}

	sp := (*stringPayload)(p)
	if sp.data == nil {
		return nil, false
	}

	return unsafe.Slice(sp.data, sp.length), false
}

// StringEq implements string_eq over two (possibly null) boxed strings.
func StringEq(a, b unsafe.Pointer) bool {
	aBytes, aNull := stringBytes(a)
	bBytes, bNull := stringBytes(b)

	return strops.Eq(aBytes, bBytes, aNull, bNull)
}

// StringCompare implements string_compare over two (possibly null) boxed
// strings.
func StringCompare(a, b unsafe.Pointer) int {
	aBytes, aNull := stringBytes(a)
	bBytes, bNull := stringBytes(b)

	return strops.Compare(aBytes, bBytes, aNull, bNull)
}
