//go:build linux

package osio

import (
	"golang.org/x/sys/unix"
)

// Writev performs a positional scatter write at the given absolute offset,
// never the implicit file position. Returns the number of bytes written.
func Writev(fd int, bufs [][]byte, offset int64) (int, error) {
	n, err := unix.Pwritev(fd, bufs, offset)
	if err != nil {
		return n, &SyscallError{Op: "pwritev", Errno: errnoOf(err)}
	}
	return n, nil
}

// Fdatasync flushes file data to stable storage, skipping metadata that is
// not needed to retrieve the data.
func Fdatasync(fd int) error {
	if err := unix.Fdatasync(fd); err != nil {
		return &SyscallError{Op: "fdatasync", Errno: errnoOf(err)}
	}
	return nil
}

func fallocateNative(fd int, offset, length int64) error {
	return unix.Fallocate(fd, 0, offset, length)
}

// SetDirectIO enables unbuffered I/O on an already-open descriptor by
// adding O_DIRECT to its file status flags. Failure is never fatal to the
// caller, which falls back to buffered mode.
func SetDirectIO(fd int) error {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return &SyscallError{Op: "fcntl", Errno: errnoOf(err)}
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags|unix.O_DIRECT); err != nil {
		return &SyscallError{Op: "fcntl", Errno: errnoOf(err)}
	}
	return nil
}

// FilesystemMagic returns the magic number identifying the filesystem the
// descriptor lives on.
func FilesystemMagic(fd int) (int64, error) {
	var st unix.Statfs_t
	if err := unix.Fstatfs(fd, &st); err != nil {
		return 0, &SyscallError{Op: "fstatfs", Errno: errnoOf(err)}
	}
	return int64(st.Type), nil
}

// blockSize returns the filesystem's native block size, or 0 if unknown.
func blockSize(fd int) int {
	var st unix.Statfs_t
	if err := unix.Fstatfs(fd, &st); err != nil {
		return 0
	}
	return int(st.Bsize)
}
