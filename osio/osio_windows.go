//go:build windows

package osio

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// Rename atomically renames a file. Windows rename does not replace an
// existing target, so MoveFileEx with REPLACE_EXISTING|WRITE_THROUGH is
// attempted first; the plain rename primitive is the fallback only when
// that specific operation is unavailable.
func Rename(oldPath, newPath string) error {
	from, err := windows.UTF16PtrFromString(oldPath)
	if err != nil {
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	to, err := windows.UTF16PtrFromString(newPath)
	if err != nil {
		return fmt.Errorf("rename %s: %w", newPath, err)
	}
	err = windows.MoveFileEx(from, to,
		windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
	if err == nil {
		return nil
	}
	if errors.Is(err, windows.ERROR_NOT_SUPPORTED) || errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
		return os.Rename(oldPath, newPath)
	}
	return fmt.Errorf("rename %s -> %s: %w", oldPath, newPath, err)
}

// Unlink removes a path from the namespace.
func Unlink(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("unlink %s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("unlink %s: %w", path, err)
	}
	return nil
}

// Stat returns information about the file at path.
func Stat(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Info{}, fmt.Errorf("stat %s: %w", path, ErrNotFound)
		}
		return Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Info{Size: fi.Size(), IsDir: fi.IsDir()}, nil
}

// The descriptor-level façade is POSIX-only: the probe engine and the log
// writer address files by integer descriptor, which has no faithful Windows
// equivalent. Windows embedders get path-level rename/unlink/stat above and
// not-supported errors here.

func Open(path string, flags int, mode uint32) (int, error) { return -1, ErrNotSupported }

func OpenIn(dir, name string, flags int) (int, error) { return -1, ErrNotSupported }

func Close(fd int) error { return ErrNotSupported }

func Fsync(fd int) error { return ErrNotSupported }

func Fdatasync(fd int) error { return ErrNotSupported }

func Truncate(fd int, length int64) error { return ErrNotSupported }

func Writev(fd int, bufs [][]byte, offset int64) (int, error) { return 0, ErrNotSupported }

func ReadFully(fd int, buf []byte) error { return ErrNotSupported }

func Fallocate(fd int, offset, length int64) error { return ErrNotSupported }

func FallocateEmulation(fd int, offset, length int64) error { return ErrNotSupported }

func SetDirectIO(fd int) error { return ErrNotSupported }

func FilesystemMagic(fd int) (int64, error) { return 0, ErrNotSupported }
