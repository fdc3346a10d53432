package alloc

import (
	"testing"
	"unsafe"
)

// countingTable returns a table that counts calls into each slot.
func countingTable(counts *map[string]int) *Table {
	bump := func(slot string) { (*counts)[slot]++ }
	return &Table{
		Alloc: func(_ any, size int) []byte {
			bump("alloc")
			return make([]byte, size)
		},
		Free: func(_ any, _ []byte) {
			bump("free")
		},
		Calloc: func(_ any, count, size int) []byte {
			bump("calloc")
			return make([]byte, count*size)
		},
		Realloc: func(_ any, buf []byte, size int) []byte {
			bump("realloc")
			return defaultRealloc(nil, buf, size)
		},
		AlignedAlloc: func(_ any, alignment, size int) []byte {
			bump("alignedAlloc")
			return defaultAlignedAlloc(nil, alignment, size)
		},
		AlignedFree: func(_ any, _ int, _ []byte) {
			bump("alignedFree")
		},
	}
}

func TestCustomTableReceivesAllCalls(t *testing.T) {
	counts := map[string]int{}
	Set(countingTable(&counts))
	defer SetDefault()

	buf := Alloc(16)
	buf = Realloc(buf, 32)
	Free(buf)
	Free(Calloc(4, 8))
	AlignedFree(512, AlignedAlloc(512, 512))

	want := map[string]int{
		"alloc": 1, "realloc": 1, "free": 2, "calloc": 1,
		"alignedAlloc": 1, "alignedFree": 1,
	}
	for slot, n := range want {
		if counts[slot] != n {
			t.Errorf("slot %s called %d times, want %d", slot, counts[slot], n)
		}
	}
}

func TestFreeNilIsNoop(t *testing.T) {
	counts := map[string]int{}
	Set(countingTable(&counts))
	defer SetDefault()

	Free(nil)
	AlignedFree(512, nil)

	if counts["free"] != 0 || counts["alignedFree"] != 0 {
		t.Errorf("nil free reached the table: %v", counts)
	}
}

func TestSetDefaultRestores(t *testing.T) {
	counts := map[string]int{}
	Set(countingTable(&counts))
	SetDefault()

	Free(Alloc(8))
	if counts["alloc"] != 0 {
		t.Error("custom table still receiving calls after SetDefault")
	}
}

func TestSetRejectsNilSlot(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Set accepted a table with a nil slot")
		}
	}()
	Set(&Table{Alloc: defaultAlloc})
}

func TestAlignedAllocAlignment(t *testing.T) {
	for _, alignment := range []int{512, 1024, 2048, 4096, 8192} {
		buf := AlignedAlloc(alignment, alignment)
		if buf == nil {
			t.Fatalf("AlignedAlloc(%d) returned nil", alignment)
		}
		if len(buf) != alignment {
			t.Errorf("len = %d, want %d", len(buf), alignment)
		}
		addr := uintptr(unsafe.Pointer(&buf[0]))
		if addr%uintptr(alignment) != 0 {
			t.Errorf("buffer for alignment %d starts at %#x, not aligned", alignment, addr)
		}
		AlignedFree(alignment, buf)
	}
}

func TestCallocZeroFilled(t *testing.T) {
	buf := Calloc(8, 64)
	if len(buf) != 512 {
		t.Fatalf("len = %d, want 512", len(buf))
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, b)
		}
	}
	Free(buf)
}

func TestReallocPreservesPrefix(t *testing.T) {
	buf := Alloc(4)
	copy(buf, []byte{1, 2, 3, 4})
	buf = Realloc(buf, 8)
	if len(buf) != 8 {
		t.Fatalf("len = %d, want 8", len(buf))
	}
	for i, want := range []byte{1, 2, 3, 4} {
		if buf[i] != want {
			t.Errorf("byte %d = %d, want %d", i, buf[i], want)
		}
	}
	Free(buf)
}

func TestAlignedWrapperRoutesToProducingTable(t *testing.T) {
	counts := map[string]int{}
	table := countingTable(&counts)

	a := NewAligned(table, 512, 512)
	if a == nil {
		t.Fatal("NewAligned returned nil")
	}
	for _, b := range a.Bytes() {
		if b != 0 {
			t.Fatal("aligned buffer not zero-filled")
		}
	}

	// Even after a swap back to the default, Release must run the
	// producing table's AlignedFree.
	SetDefault()
	a.Release()
	a.Release() // idempotent

	if counts["alignedFree"] != 1 {
		t.Errorf("AlignedFree called %d times, want 1", counts["alignedFree"])
	}
}

func TestPooledTableReuse(t *testing.T) {
	Set(Pooled())
	defer SetDefault()

	buf := Alloc(512)
	for i := range buf {
		buf[i] = 0xab
	}
	Free(buf)

	// Calloc through the pool must still be zero-filled.
	buf = Calloc(1, 512)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("pooled calloc byte %d = %#x, want 0", i, b)
		}
	}
	Free(buf)
}
