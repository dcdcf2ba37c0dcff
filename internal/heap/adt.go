package heap

import (
	"unsafe"

	"github.com/vael-lang/vael-rt/internal/allocator"
	"github.com/vael-lang/vael-rt/internal/layout"
	"github.com/vael-lang/vael-rt/internal/panicrt"
)

// adtPayload is the ADT payload shape: {tag i32 (padded to a pointer slot),
// payload *void}. §9's open question ("tagged union vs single pointer
// slot") is resolved in favor of the single pointer slot: a constructor's
// tag is encoded by the caller (the compiled code knows which variant it
// built) and this package only tracks the one child pointer for RC
// purposes, the same limitation the original runtime documents.
type adtPayload struct {
	variant int64
	payload unsafe.Pointer
}

// ADTNew constructs an ADT value: variant identifies the constructor index,
// payload is the (possibly null) associated value, retained here.
func ADTNew(variant int64, payload unsafe.Pointer) unsafe.Pointer {
	p := allocator.Allocate(layout.ADT().Size)
	allocator.SetTypeTag(p, uint32(TagADT))

	ap := (*adtPayload)(p)
	ap.variant = variant

	if payload != nil {
		Retain(payload)
	}

	ap.payload = payload

	return p
}

func adtPayloadOf(p unsafe.Pointer) *adtPayload {
	if p == nil {
		panicrt.Panic("adt target is null")
	}

	if got := Tag(allocator.TypeTag(p)); got != TagADT {
		panicrt.Panic("adt type tag mismatch")
	}

	return (*adtPayload)(p)
}

// ADTVariant returns an ADT value's constructor index.
func ADTVariant(p unsafe.Pointer) int64 { return adtPayloadOf(p).variant }

// ADTPayload returns an ADT value's associated payload without retaining it.
func ADTPayload(p unsafe.Pointer) unsafe.Pointer { return adtPayloadOf(p).payload }
