// Package alloc provides the pluggable allocation table used by the I/O
// layer for every buffer it creates, including the alignment-sensitive
// buffers required for direct I/O.
//
// A single process-wide current table exists at all times, initialized to a
// default table backed by the Go allocator. Embedders may swap in an
// instrumented or pooled table with Set and restore the built-in one with
// SetDefault. The table in effect at allocation time determines the correct
// release path: a buffer must be released through the same table (and the
// same plain/aligned pair) that produced it.
//
// Concurrency: the swap itself is atomic, but callers must not swap tables
// while allocations made under the old table are still live and expected to
// be released through the new one. Swapping is intended for a
// single-threaded configuration phase, before any I/O calls that allocate.
package alloc

import (
	"sync/atomic"
	"unsafe"

	"github.com/ncw/directio"
)

// Table is a set of allocation function slots plus one opaque context value
// passed to every slot. All six slots must be non-nil.
type Table struct {
	// Data is an opaque context value passed to every slot.
	Data any

	// Alloc returns a buffer of exactly size bytes, or nil on failure.
	// Contents are unspecified.
	Alloc func(data any, size int) []byte

	// Free releases a buffer obtained from Alloc, Calloc or Realloc.
	Free func(data any, buf []byte)

	// Calloc returns a zero-filled buffer of count*size bytes, or nil.
	Calloc func(data any, count, size int) []byte

	// Realloc resizes a buffer obtained from Alloc, Calloc or Realloc,
	// preserving its prefix. A nil buf behaves like Alloc.
	Realloc func(data any, buf []byte, size int) []byte

	// AlignedAlloc returns a buffer of exactly size bytes whose backing
	// array starts at an address aligned to alignment, or nil on failure.
	// Alignment must be a power of two.
	AlignedAlloc func(data any, alignment, size int) []byte

	// AlignedFree releases a buffer obtained from AlignedAlloc.
	AlignedFree func(data any, alignment int, buf []byte)
}

var defaultTable = &Table{
	Alloc:        defaultAlloc,
	Free:         defaultFree,
	Calloc:       defaultCalloc,
	Realloc:      defaultRealloc,
	AlignedAlloc: defaultAlignedAlloc,
	AlignedFree:  defaultAlignedFree,
}

var current atomic.Pointer[Table]

func init() {
	current.Store(defaultTable)
}

// Set installs t as the process-wide current table.
// Panics if any slot is nil: a partially populated table indicates a
// programming error upstream, not a recoverable condition.
func Set(t *Table) {
	if t == nil || t.Alloc == nil || t.Free == nil || t.Calloc == nil ||
		t.Realloc == nil || t.AlignedAlloc == nil || t.AlignedFree == nil {
		panic("alloc: table with nil slot")
	}
	current.Store(t)
}

// SetDefault restores the built-in table.
func SetDefault() {
	current.Store(defaultTable)
}

// Current returns the table currently installed.
func Current() *Table {
	return current.Load()
}

// Alloc forwards to the current table.
func Alloc(size int) []byte {
	t := current.Load()
	return t.Alloc(t.Data, size)
}

// Free forwards to the current table. A nil buffer is a no-op.
func Free(buf []byte) {
	if buf == nil {
		return
	}
	t := current.Load()
	t.Free(t.Data, buf)
}

// Calloc forwards to the current table.
func Calloc(count, size int) []byte {
	t := current.Load()
	return t.Calloc(t.Data, count, size)
}

// Realloc forwards to the current table.
func Realloc(buf []byte, size int) []byte {
	t := current.Load()
	return t.Realloc(t.Data, buf, size)
}

// AlignedAlloc forwards to the current table.
func AlignedAlloc(alignment, size int) []byte {
	t := current.Load()
	return t.AlignedAlloc(t.Data, alignment, size)
}

// AlignedFree forwards to the current table. A nil buffer is a no-op.
func AlignedFree(alignment int, buf []byte) {
	if buf == nil {
		return
	}
	t := current.Load()
	t.AlignedFree(t.Data, alignment, buf)
}

func defaultAlloc(_ any, size int) []byte {
	return make([]byte, size)
}

func defaultFree(_ any, _ []byte) {}

func defaultCalloc(_ any, count, size int) []byte {
	return make([]byte, count*size)
}

func defaultRealloc(data any, buf []byte, size int) []byte {
	if buf == nil {
		return defaultAlloc(data, size)
	}
	if cap(buf) >= size {
		return buf[:size]
	}
	grown := make([]byte, size)
	copy(grown, buf)
	return grown
}

func defaultAlignedAlloc(_ any, alignment, size int) []byte {
	if alignment <= directio.AlignSize && directio.AlignSize%alignment == 0 {
		// directio blocks are aligned to its 4KB grain, which satisfies
		// every smaller power-of-two alignment.
		return directio.AlignedBlock(size)
	}
	raw := make([]byte, size+alignment)
	off := int(uintptr(unsafe.Pointer(&raw[0])) & uintptr(alignment-1))
	if off != 0 {
		off = alignment - off
	}
	return raw[off : off+size : off+size]
}

func defaultAlignedFree(_ any, _ int, _ []byte) {}
