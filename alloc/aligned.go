package alloc

// Aligned is a scoped wrapper around an aligned allocation. It remembers the
// table and alignment that produced the buffer so Release always runs the
// matching AlignedFree slot, even if the current table was swapped after the
// allocation was made.
type Aligned struct {
	buf       []byte
	alignment int
	table     *Table
	released  bool
}

// NewAligned allocates a zero-filled aligned buffer from t, or from the
// current table when t is nil. Returns nil if the table's AlignedAlloc
// declined the request.
func NewAligned(t *Table, alignment, size int) *Aligned {
	if t == nil {
		t = current.Load()
	}
	buf := t.AlignedAlloc(t.Data, alignment, size)
	if buf == nil {
		return nil
	}
	for i := range buf {
		buf[i] = 0
	}
	return &Aligned{buf: buf, alignment: alignment, table: t}
}

// Bytes returns the aligned buffer. The buffer must not be used after
// Release.
func (a *Aligned) Bytes() []byte {
	return a.buf
}

// Release returns the buffer through the AlignedFree slot of the table that
// produced it. Release is idempotent; only the first call frees.
func (a *Aligned) Release() {
	if a == nil || a.released {
		return
	}
	a.released = true
	a.table.AlignedFree(a.table.Data, a.alignment, a.buf)
	a.buf = nil
}
