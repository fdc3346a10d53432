// Package bufpool provides reusable byte buffers for the I/O layer.
//
// This package is internal and not part of the public API.
//
// The pool backs the optional pooled allocator table in package alloc.
// Buckets are sized for the buffers this layer actually allocates: probe
// write buffers (512 bytes to 4KB) and the larger scratch buffers a log
// writer hands to the async wrappers.
package bufpool

import "sync"

// Pool manages reusable byte slices of various sizes.
type Pool struct {
	pools [5]sync.Pool
}

// BucketSizes defines the buffer size buckets.
var BucketSizes = [5]int{
	512,        // smallest direct I/O block size
	4 * 1024,   // common direct I/O block size, probe file size
	16 * 1024,  // 16KB
	64 * 1024,  // 64KB
	256 * 1024, // 256KB
}

// New creates a new Pool.
func New() *Pool {
	p := &Pool{}
	for i := range p.pools {
		size := BucketSizes[i]
		p.pools[i] = sync.Pool{
			New: func() any {
				buf := make([]byte, 0, size)
				return &buf
			},
		}
	}
	return p
}

// Get retrieves a byte slice of exactly the requested length. Contents are
// unspecified; callers that need zeroed memory use GetZeroed.
func (p *Pool) Get(size int) []byte {
	bucket := p.getBucket(size)
	if bucket < 0 {
		// Too large for pool
		return make([]byte, size)
	}

	bufPtr, ok := p.pools[bucket].Get().(*[]byte)
	if !ok {
		return make([]byte, size)
	}
	buf := *bufPtr
	return buf[:size]
}

// GetZeroed retrieves a byte slice of the requested length with every byte
// set to zero.
func (p *Pool) GetZeroed(size int) []byte {
	buf := p.Get(size)
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// Put returns a byte slice to the pool.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}

	bucket := p.getBucket(cap(buf))
	if bucket < 0 || cap(buf) > BucketSizes[len(BucketSizes)-1]*2 {
		// Too large - don't pool
		return
	}

	buf = buf[:0]
	p.pools[bucket].Put(&buf)
}

func (p *Pool) getBucket(size int) int {
	for i, bucketSize := range BucketSizes {
		if size <= bucketSize {
			return i
		}
	}
	return -1
}
