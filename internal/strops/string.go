// Package strops implements the string type-class operations the runtime
// core exposes across the FFI boundary (spec.md §4.10): equality and
// ordering over boxed string payloads, with the null-handling rules the
// original string_eq/string_compare document explicitly rather than
// leaving to Go's own nil-pointer semantics.
package strops

import "bytes"

// Eq reports whether two strings are equal: same length and identical
// bytes. Two null strings are equal; a null and a non-null string are not.
func Eq(a, b []byte, aIsNull, bIsNull bool) bool {
	if aIsNull && bIsNull {
		return true
	}

	if aIsNull != bIsNull {
		return false
	}

	if len(a) != len(b) {
		return false
	}

	return bytes.Equal(a, b)
}

// Compare returns a negative number if a < b, zero if equal, and a positive
// number if a > b: bytewise lexicographic comparison with a length tiebreak
// when one is a prefix of the other. Null sorts before non-null; two nulls
// compare equal.
func Compare(a, b []byte, aIsNull, bIsNull bool) int {
	if aIsNull && bIsNull {
		return 0
	}

	if aIsNull {
		return -1
	}

	if bIsNull {
		return 1
	}

	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	if c := bytes.Compare(a[:n], b[:n]); c != 0 {
		return c
	}

	return len(a) - len(b)
}
