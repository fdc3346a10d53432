package alloc

import "github.com/aalhour/duraio/internal/bufpool"

// Pooled returns a table whose plain allocations draw from a size-bucketed
// buffer pool. Aligned allocations keep the default strategy: pooled buffers
// carry no alignment guarantee, and the alignment-sensitive path is cold
// (one probe per directory).
//
// Pooled tables reduce garbage on a hot write path where the log writer
// allocates per-batch scratch buffers through the indirection.
func Pooled() *Table {
	pool := bufpool.New()
	return &Table{
		Data: pool,
		Alloc: func(data any, size int) []byte {
			return data.(*bufpool.Pool).Get(size)
		},
		Free: func(data any, buf []byte) {
			data.(*bufpool.Pool).Put(buf)
		},
		Calloc: func(data any, count, size int) []byte {
			return data.(*bufpool.Pool).GetZeroed(count * size)
		},
		Realloc: func(data any, buf []byte, size int) []byte {
			if buf == nil {
				return data.(*bufpool.Pool).Get(size)
			}
			if cap(buf) >= size {
				return buf[:size]
			}
			grown := data.(*bufpool.Pool).Get(size)
			copy(grown, buf)
			data.(*bufpool.Pool).Put(buf)
			return grown
		},
		AlignedAlloc: defaultAlignedAlloc,
		AlignedFree:  defaultAlignedFree,
	}
}
