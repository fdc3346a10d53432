package duraio

import "fmt"

// UnsupportedFilesystemError is returned when the filesystem under a data
// directory rejects direct I/O and is not one of the types known to do so
// harmlessly. Silently assuming safety on an unknown filesystem is worse
// than refusing to proceed.
type UnsupportedFilesystemError struct {
	// Magic is the filesystem type magic number reported by the kernel.
	Magic int64
}

func (e *UnsupportedFilesystemError) Error() string {
	return fmt.Sprintf("duraio: unsupported filesystem: %#x", e.Magic)
}
