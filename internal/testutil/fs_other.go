//go:build !linux

package testutil

import "testing"

// FilesystemMagic reports 0 on platforms without a filesystem-type query;
// callers treat 0 as "unknown" and skip magic-specific assertions.
func FilesystemMagic(tb testing.TB, path string) int64 {
	tb.Helper()
	return 0
}
