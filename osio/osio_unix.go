//go:build unix

package osio

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Open opens path with the given flags and mode and returns the descriptor.
// A missing path yields ErrNotFound; any other failure a *SyscallError.
func Open(path string, flags int, mode uint32) (int, error) {
	fd, err := unix.Open(path, flags, mode)
	if err != nil {
		if errors.Is(err, unix.ENOENT) {
			return -1, fmt.Errorf("open %s: %w", path, ErrNotFound)
		}
		return -1, &SyscallError{Op: "open", Errno: errnoOf(err)}
	}
	return fd, nil
}

// OpenIn joins dir and name and opens the result with owner read/write
// permissions. It exists for callers that address files as (directory,
// filename) pairs, as the log writer does.
func OpenIn(dir, name string, flags int) (int, error) {
	return Open(Join(dir, name), flags, 0600)
}

// Close closes the descriptor.
func Close(fd int) error {
	if err := unix.Close(fd); err != nil {
		return &SyscallError{Op: "close", Errno: errnoOf(err)}
	}
	return nil
}

// Fsync flushes file data and metadata to stable storage.
func Fsync(fd int) error {
	if err := unix.Fsync(fd); err != nil {
		return &SyscallError{Op: "fsync", Errno: errnoOf(err)}
	}
	return nil
}

// Truncate sets the file length.
func Truncate(fd int, length int64) error {
	if err := unix.Ftruncate(fd, length); err != nil {
		return &SyscallError{Op: "ftruncate", Errno: errnoOf(err)}
	}
	return nil
}

// ReadFully reads exactly len(buf) bytes with a single read call. A short
// read yields a *ShortReadError carrying the requested and actual counts;
// callers own any retry policy.
func ReadFully(fd int, buf []byte) error {
	n, err := unix.Read(fd, buf)
	if err != nil {
		return &SyscallError{Op: "read", Errno: errnoOf(err)}
	}
	if n < len(buf) {
		return &ShortReadError{Requested: len(buf), Actual: n}
	}
	return nil
}

// Rename atomically renames a file, replacing newPath if it exists.
func Rename(oldPath, newPath string) error {
	if err := unix.Rename(oldPath, newPath); err != nil {
		return &SyscallError{Op: "rename", Errno: errnoOf(err)}
	}
	return nil
}

// Unlink removes a path from the namespace.
func Unlink(path string) error {
	if err := unix.Unlink(path); err != nil {
		if errors.Is(err, unix.ENOENT) {
			return fmt.Errorf("unlink %s: %w", path, ErrNotFound)
		}
		return &SyscallError{Op: "unlink", Errno: errnoOf(err)}
	}
	return nil
}

// Stat returns information about the file at path.
func Stat(path string) (Info, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		if errors.Is(err, unix.ENOENT) {
			return Info{}, fmt.Errorf("stat %s: %w", path, ErrNotFound)
		}
		return Info{}, &SyscallError{Op: "stat", Errno: errnoOf(err)}
	}
	return Info{
		Size:  st.Size,
		IsDir: uint32(st.Mode)&uint32(unix.S_IFMT) == uint32(unix.S_IFDIR),
	}, nil
}

// Fallocate pre-allocates storage for [offset, offset+length) so subsequent
// writes in range cannot fail for lack of space. On filesystems without
// native pre-allocation it transparently falls back to FallocateEmulation.
// As with the native primitive, a failure makes no atomicity guarantee:
// blocks allocated before the error stay allocated.
func Fallocate(fd int, offset, length int64) error {
	err := fallocateNative(fd, offset, length)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.ENOSYS) {
		return FallocateEmulation(fd, offset, length)
	}
	return &SyscallError{Op: "fallocate", Errno: errnoOf(err)}
}

// emulationMaxIncrement caps the emulation step even when the filesystem
// reports a larger block size: touching at 4KB granularity is always enough
// to force allocation.
const emulationMaxIncrement = 4096

// FallocateEmulation forces block allocation by writing a single byte at
// the last byte of each block-size step, walking backward from the end of
// the range. It does not zero-fill the range; the goal is allocation, not
// zeroing. Re-running it over an already-allocated range is harmless.
func FallocateEmulation(fd int, offset, length int64) error {
	increment := int64(blockSize(fd))
	if increment == 0 {
		increment = 512
	}
	if increment > emulationMaxIncrement {
		increment = emulationMaxIncrement
	}

	zero := []byte{0}
	for i := length; i > 0; {
		if _, err := unix.Pwrite(fd, zero, offset+i-1); err != nil {
			return &SyscallError{Op: "pwrite", Errno: errnoOf(err)}
		}
		if i < increment {
			i = 0
		} else {
			i -= increment
		}
	}
	return nil
}
