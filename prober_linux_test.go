//go:build linux

package duraio

import (
	"errors"
	"os"
	"testing"

	"github.com/aalhour/duraio/internal/testutil"
	"github.com/aalhour/duraio/osio"
)

// TestProbeRealFilesystem runs the probe against a real temporary
// directory. Expectations depend on where the test runner's TMPDIR lands.
func TestProbeRealFilesystem(t *testing.T) {
	dir := t.TempDir()
	magic := testutil.FilesystemMagic(t, dir)

	caps, err := ProbeCapabilities(dir)

	switch magic {
	case osio.TmpfsMagic:
		if err != nil {
			t.Fatalf("Probe on tmpfs failed: %v", err)
		}
		if caps.DirectBlockSize != 0 || caps.AsyncWrites {
			t.Errorf("caps on tmpfs = %+v, want {0 false}", caps)
		}
	case testutil.Ext4Magic, testutil.XfsMagic:
		if err != nil {
			t.Fatalf("Probe on ext4/xfs failed: %v", err)
		}
		if caps.DirectBlockSize == 0 {
			t.Error("DirectBlockSize = 0 on a filesystem with direct I/O support")
		}
	default:
		// Container overlays and network mounts are legitimately refused.
		var unsupported *UnsupportedFilesystemError
		if err != nil && !errors.As(err, &unsupported) {
			t.Fatalf("Probe failed with an unexpected error: %v", err)
		}
		t.Skipf("filesystem %#x has no pinned expectation (caps=%v err=%v)", magic, caps, err)
	}
}

// TestProbeLeavesNoStrayFiles checks that the scratch file is unlinked even
// though the probe ran to completion.
func TestProbeLeavesNoStrayFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := ProbeCapabilities(dir)
	var unsupported *UnsupportedFilesystemError
	if err != nil && !errors.As(err, &unsupported) {
		t.Fatalf("Probe failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("probe left stray files: %v", names)
	}
}
