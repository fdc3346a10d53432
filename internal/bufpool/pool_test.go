package bufpool

import "testing"

func TestPoolBasic(t *testing.T) {
	pool := New()

	sizes := []int{100, 512, 2000, 10000, 50000}
	for _, size := range sizes {
		buf := pool.Get(size)
		if len(buf) != size {
			t.Errorf("expected len %d, got %d", size, len(buf))
		}
		pool.Put(buf)
	}
}

func TestPoolGetZeroed(t *testing.T) {
	pool := New()

	// Dirty a buffer, return it, then ask for a zeroed one of the same size.
	buf := pool.Get(512)
	for i := range buf {
		buf[i] = 0xff
	}
	pool.Put(buf)

	zeroed := pool.GetZeroed(512)
	for i, b := range zeroed {
		if b != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, b)
		}
	}
	pool.Put(zeroed)
}

func TestPoolOversized(t *testing.T) {
	pool := New()

	// Request a buffer larger than any bucket
	buf := pool.Get(1024 * 1024)
	if len(buf) != 1024*1024 {
		t.Errorf("expected len 1MB, got %d", len(buf))
	}

	// Should not panic on put
	pool.Put(buf)
}

func TestPoolNilPut(t *testing.T) {
	pool := New()

	// Should not panic
	pool.Put(nil)
}
