//go:build darwin

package osio

import (
	"golang.org/x/sys/unix"
)

// Writev performs a positional scatter write at the given absolute offset.
// Darwin has no pwritev; the buffers are written with one pwrite each.
func Writev(fd int, bufs [][]byte, offset int64) (int, error) {
	total := 0
	for _, buf := range bufs {
		n, err := unix.Pwrite(fd, buf, offset+int64(total))
		total += n
		if err != nil {
			return total, &SyscallError{Op: "pwrite", Errno: errnoOf(err)}
		}
	}
	return total, nil
}

// Fdatasync flushes file data to stable storage. Darwin's fsync does not
// force the drive cache, so F_FULLFSYNC is required for durability.
func Fdatasync(fd int) error {
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_FULLFSYNC, 0); err != nil {
		return &SyscallError{Op: "fcntl", Errno: errnoOf(err)}
	}
	return nil
}

func fallocateNative(fd int, offset, length int64) error {
	// No fallocate on Darwin; report not-supported so the caller takes the
	// emulation path.
	return unix.ENOTSUP
}

// SetDirectIO disables caching on the descriptor. Darwin has no O_DIRECT;
// F_NOCACHE is the closest equivalent.
func SetDirectIO(fd int) error {
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_NOCACHE, 1); err != nil {
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
