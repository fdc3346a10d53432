package osio

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrNotFound is returned when a path does not exist and that condition was
// distinguishable from other failures.
var ErrNotFound = errors.New("osio: not found")

// ErrNotSupported is returned by operations the platform cannot perform at
// all (for example SetDirectIO on a platform without an unbuffered mode).
var ErrNotSupported = errors.New("osio: not supported")

// SyscallError is an opaque syscall failure: the syscall name plus the
// errno it reported. It unwraps to the errno, so callers can branch with
// errors.Is(err, unix.EINVAL) and similar.
type SyscallError struct {
	Op    string
	Errno syscall.Errno
}

func (e *SyscallError) Error() string {
	return fmt.Sprintf("osio: %s: %s (errno %d)", e.Op, e.Errno.Error(), int(e.Errno))
}

func (e *SyscallError) Unwrap() error {
	return e.Errno
}

// ShortReadError reports a read that returned fewer bytes than requested.
type ShortReadError struct {
	Requested int
	Actual    int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("osio: short read: %d bytes instead of %d", e.Actual, e.Requested)
}

// Code returns the negated errno carried by err, or 0 when err carries
// none. It preserves the "negative error code, magnitude equal to the
// platform code" convention for callers that report codes upward.
func Code(err error) int {
	var e syscall.Errno
	if errors.As(err, &e) {
		return -int(e)
	}
	return 0
}

// errnoOf extracts the errno from a raw syscall error.
func errnoOf(err error) syscall.Errno {
	var e syscall.Errno
	if errors.As(err, &e) {
		return e
	}
	return 0
}
