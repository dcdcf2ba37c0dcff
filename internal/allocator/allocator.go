// Package allocator implements the runtime core's heap allocator
// (spec.md §4.1): every heap object is a fixed 8-byte header followed by a
// zero-filled, 8-byte-aligned payload, and the payload pointer — never the
// header — is what crosses into compiled code or across the FFI boundary.
//
// The implementation follows the teacher runtime's SystemAllocatorImpl
// (a tracked map of live allocations behind atomic counters, size-classed
// pools for the hot path) but is specialized to the header+payload contract
// rather than a generic byte allocator: Allocate always reserves room for
// the header and writes it before returning the payload address.
package allocator

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/vael-lang/vael-rt/internal/layout"
)

// header mirrors the heap object header: refcount and type tag, 8 bytes
// total so the payload that follows stays 8-byte aligned.
type header struct {
	refcount uint32
	typeTag  uint32
}

const headerSize = unsafe.Sizeof(header{})

func init() {
	if headerSize != layout.HeaderSize {
		panic(fmt.Sprintf("allocator: header size %d does not match layout.HeaderSize %d", headerSize, layout.HeaderSize))
	}
}

// freedSentinel is written over a freed object's refcount field in debug
// builds, so a stale header read after Free shows a recognisable value. A
// second Free on the same pointer is caught by the live-map lookup in Free,
// not by reading this value back.
const freedSentinel uint32 = 0xDEADBEEF

// EnableDebug makes Free panic on a pointer it is not tracking and write
// freedSentinel over each freed refcount. GetStats reports the same counters
// whether or not it is set. It is a package-level switch (mirroring the
// teacher's Config.EnableDebug/EnableLeakCheck) rather than a constructor
// argument because allocate/retain/release are called from many packages
// that don't thread a *Allocator through every call.
var EnableDebug = false

// sizeClasses bucket small payloads into a handful of pooled buffers to
// avoid hitting the Go allocator on every box/tuple/record allocation —
// the same size-classed pooling idea as the teacher's MemoryPool, adapted
// to back header-prefixed blocks instead of raw byte buffers.
var sizeClasses = [...]uintptr{32, 64, 128, 256, 512, 1024}

type pool struct {
	sizeClass uintptr
	p         sync.Pool
}

var pools = func() [len(sizeClasses)]*pool {
	var ps [len(sizeClasses)]*pool
	for i, sc := range sizeClasses {
		sc := sc
		ps[i] = &pool{
			sizeClass: sc,
			p: sync.Pool{
				New: func() interface{} {
					buf := make([]byte, sc)
					return &buf
				},
			},
		}
	}

	return ps
}()

func poolFor(total uintptr) *pool {
	for _, p := range pools {
		if total <= p.sizeClass {
			return p
		}
	}

	return nil
}

var (
	mu      sync.RWMutex
	live    = make(map[unsafe.Pointer][]byte)
	fromMap = make(map[unsafe.Pointer]*pool)

	allocCount int64
	freeCount  int64
	bytesLive  int64
)

// Allocate reserves total = headerSize + align_up_8(size) bytes, writes a
// fresh header (refcount=1, tag=0), zero-fills the payload, and returns the
// payload address. It panics (via internal/panicrt through the caller, or
// directly here as a last resort) if memory cannot be obtained — Go's
// allocator only fails that way under genuine exhaustion, which surfaces as
// a runtime fatal error rather than a recoverable one, so Allocate itself
// only guards against pathological sizes.
func Allocate(size uintptr) unsafe.Pointer {
	if size > ^uintptr(0)-headerSize-7 {
		panic(fmt.Sprintf("allocator: allocation size %d overflows the address space", size))
	}

	payloadSize := layout.AlignUp(size, 8)
	total := headerSize + payloadSize

	var buf []byte

	var fromPool *pool

	if p := poolFor(total); p != nil {
		bufPtr := p.p.Get().(*[]byte)
		buf = (*bufPtr)[:total]
		fromPool = p
	} else {
		buf = make([]byte, total)
	}

	for i := range buf {
		buf[i] = 0
	}

	base := unsafe.Pointer(&buf[0])
	hdr := (*header)(base)
	hdr.refcount = 1
	hdr.typeTag = 0

	payload := unsafe.Add(base, headerSize)

	mu.Lock()
	live[payload] = buf
	if fromPool != nil {
		fromMap[payload] = fromPool
	}
	mu.Unlock()

	atomic.AddInt64(&allocCount, 1)
	atomic.AddInt64(&bytesLive, int64(total))

	return payload
}

// Free releases the memory backing a payload pointer previously returned by
// Allocate. Null is accepted and ignored. In debug builds a pointer that is
// not tracked (a second Free against the same pointer, or one Allocate never
// returned) panics instead of being ignored, and the refcount word is
// overwritten with freedSentinel before the backing buffer is released.
func Free(payload unsafe.Pointer) {
	if payload == nil {
		return
	}

	mu.Lock()
	buf, ok := live[payload]

	if !ok {
		mu.Unlock()

		if EnableDebug {
			panic(fmt.Sprintf("allocator: double free or invalid pointer %p", payload))
		}

		return
	}

	delete(live, payload)
	p := fromMap[payload]
	delete(fromMap, payload)
	mu.Unlock()

	if EnableDebug {
		hdr := (*header)(unsafe.Pointer(&buf[0]))
		hdr.refcount = freedSentinel
	}

	atomic.AddInt64(&freeCount, 1)
	atomic.AddInt64(&bytesLive, -int64(len(buf)))

	if p != nil {
		p.p.Put(&buf)
	}
}

// HeaderOf returns the header address for a payload pointer: payload - 8.
// This is the one place the fixed negative-offset contract (spec.md §9) is
// computed; internal/heap never does the subtraction itself.
func HeaderOf(payload unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(payload, -int(headerSize))
}

// RefCount reads the live refcount word for a payload pointer.
func RefCount(payload unsafe.Pointer) uint32 {
	return (*header)(HeaderOf(payload)).refcount
}

// SetRefCount overwrites the refcount word directly; used only by
// internal/heap's retain/release.
func SetRefCount(payload unsafe.Pointer, v uint32) {
	(*header)(HeaderOf(payload)).refcount = v
}

// TypeTag reads the type tag word for a payload pointer.
func TypeTag(payload unsafe.Pointer) uint32 {
	return (*header)(HeaderOf(payload)).typeTag
}

// SetTypeTag overwrites the type tag word; constructors call this
// immediately after Allocate.
func SetTypeTag(payload unsafe.Pointer, tag uint32) {
	(*header)(HeaderOf(payload)).typeTag = tag
}

// Stats reports allocator-wide counters, the same shape as the teacher's
// AllocatorStats but scoped to this package's global accounting.
type Stats struct {
	AllocationCount int64
	FreeCount       int64
	BytesLive       int64
	LiveObjects     int
}

// GetStats returns a snapshot of the allocator's counters.
func GetStats() Stats {
	mu.RLock()
	n := len(live)
	mu.RUnlock()

	return Stats{
		AllocationCount: atomic.LoadInt64(&allocCount),
		FreeCount:       atomic.LoadInt64(&freeCount),
		BytesLive:       atomic.LoadInt64(&bytesLive),
		LiveObjects:     n,
	}
}

// ResetStatsForTest clears the global accounting. It exists only so tests
// in this module can assert on a clean baseline; production embedders never
// call it mid-run.
func ResetStatsForTest() {
	mu.Lock()
	live = make(map[unsafe.Pointer][]byte)
	fromMap = make(map[unsafe.Pointer]*pool)
	mu.Unlock()
	atomic.StoreInt64(&allocCount, 0)
	atomic.StoreInt64(&freeCount, 0)
	atomic.StoreInt64(&bytesLive, 0)
}
