// Package testutil provides filesystem-detection helpers for tests whose
// expectations depend on the filesystem a temporary directory lands on.
package testutil

// Filesystem magic numbers tests branch on, beyond the two the probe
// recognizes itself.
const (
	Ext4Magic    int64 = 0xef53
	XfsMagic     int64 = 0x58465342
	BtrfsMagic   int64 = 0x9123683e
	OverlayMagic int64 = 0x794c7630
)
