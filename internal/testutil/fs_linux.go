//go:build linux

package testutil

import (
	"testing"

	"golang.org/x/sys/unix"
)

// FilesystemMagic returns the magic number of the filesystem holding path.
func FilesystemMagic(tb testing.TB, path string) int64 {
	tb.Helper()
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		tb.Fatalf("statfs %s: %v", path, err)
	}
	return int64(st.Type)
}
