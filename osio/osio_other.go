//go:build unix && !linux && !darwin

package osio

import (
	"golang.org/x/sys/unix"
)

// Writev performs a positional scatter write at the given absolute offset,
// one pwrite per buffer.
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

// Fdatasync flushes file data to stable storage. Falls back to a full
// fsync where the platform has no data-only sync.
func Fdatasync(fd int) error {
	return Fsync(fd)
}

func fallocateNative(fd int, offset, length int64) error {
	return unix.ENOTSUP
}

// SetDirectIO reports that the platform has no unbuffered I/O mode.
func SetDirectIO(fd int) error {
	return ErrNotSupported
}

// FilesystemMagic reports that the platform has no filesystem-type query.
func FilesystemMagic(fd int) (int64, error) {
	return 0, ErrNotSupported
}

func blockSize(fd int) int {
	return 0
}
