package duraio

import "fmt"

// probeFileSize is the amount of storage pre-allocated for the scratch
// file. It matches the largest candidate block size.
const probeFileSize = 4096

// Candidate block sizes are tried from largest to smallest, halving.
const (
	maxProbeBlockSize = 4096
	minProbeBlockSize = 512
)

// Capabilities is the result of probing one data directory.
type Capabilities struct {
	// DirectBlockSize is the minimum aligned buffer size for which an
	// unbuffered write succeeded, in bytes. 0 means direct I/O must not be
	// used on this directory.
	DirectBlockSize int

	// AsyncWrites reports whether a write can be submitted without the
	// calling thread blocking in the kernel, with durability on
	// completion. Meaningful only when DirectBlockSize > 0: without direct
	// I/O a submission could still block on buffered writeback, so this is
	// always false.
	AsyncWrites bool
}

// String renders the capabilities for log lines.
func (c Capabilities) String() string {
	if c.DirectBlockSize == 0 {
		return "buffered I/O only"
	}
	if c.AsyncWrites {
		return fmt.Sprintf("direct I/O (block size %d), fully async writes", c.DirectBlockSize)
	}
	return fmt.Sprintf("direct I/O (block size %d), blocking writes", c.DirectBlockSize)
}
