// Package osio is the file operation façade of the duraio I/O layer: thin,
// uniformly-erroring wrappers around the OS file primitives the log writer
// needs (open, positional write, fsync/fdatasync, fallocate, truncate,
// rename, unlink, stat), plus filesystem introspection used by the
// capability probe.
//
// Every operation performs exactly one syscall and surfaces failures as
// classified errors (ErrNotFound, *ShortReadError) or as a *SyscallError
// carrying the syscall name and errno. Nothing in this package retries;
// retry policy belongs to the caller. The two exceptions are transparent
// recoveries: Fallocate falls back to a write-based emulation on
// filesystems without native pre-allocation, and Rename on Windows attempts
// a replace-existing write-through move before the plain rename primitive.
package osio

import "fmt"

// Path length limits. Exceeding them is a programming error upstream, not a
// recoverable condition, so Join validates by panic.
const (
	// MaxDirLen is the maximum length of a directory path.
	MaxDirLen = 895
	// MaxFilenameLen is the maximum length of a filename within a directory.
	MaxFilenameLen = 128
)

// Filesystem magic numbers, as reported by FilesystemMagic. These are the
// two filesystems known to reject O_DIRECT without implying a durability
// problem.
const (
	// TmpfsMagic identifies the in-memory tmpfs filesystem.
	TmpfsMagic int64 = 0x01021994
	// ZfsMagic identifies ZFS.
	ZfsMagic int64 = 0x2fc12fc1
)

// Join concatenates a directory and a filename as dir + "/" + name.
// Panics if either input exceeds its length limit.
func Join(dir, name string) string {
	if len(dir) > MaxDirLen {
		panic(fmt.Sprintf("osio: directory path too long: %d > %d", len(dir), MaxDirLen))
	}
	if len(name) > MaxFilenameLen {
		panic(fmt.Sprintf("osio: filename too long: %d > %d", len(name), MaxFilenameLen))
	}
	return dir + "/" + name
}

// Info describes a file, as returned by Stat.
type Info struct {
	// Size is the file size in bytes.
	Size int64
	// IsDir reports whether the path is a directory.
	IsDir bool
}
