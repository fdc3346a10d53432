//go:build !linux

package aio

// Supported reports whether this backend can deliver fully non-blocking
// submission. Without kernel AIO it cannot.
func Supported() bool {
	return false
}

// Setup reports that kernel-level async I/O is unavailable.
func Setup(capacity uint) (Context, error) {
	return nil, ErrNotSupported
}

// Eventfd reports that event notification descriptors are unavailable.
func Eventfd(initval uint, nonBlocking bool) (int, error) {
	return -1, ErrNotSupported
}
