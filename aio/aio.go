// Package aio wraps kernel-level asynchronous I/O: context setup, batch
// submission, completion retrieval and teardown, plus the event-notification
// descriptor used for edge-triggered completion wakeups.
//
// The package exposes one abstract Context interface with backend variants
// selected at build time: raw Linux kernel AIO by default, io_uring under
// the "iouring" build tag, and a not-supported stub elsewhere. The
// capability probe and the log writer depend only on the interface.
//
// Ownership: a Context is exclusively owned by the caller that created it.
// Destroy must be called exactly once, after all submitted requests have
// completed; a context is never reused after Destroy. A submitted request
// cannot be withdrawn, only awaited. The caller must keep a request's
// buffer alive and unmodified until its completion event is retrieved.
package aio

import (
	"errors"
	"time"
)

// ErrNotSupported is returned by Setup and Eventfd on platforms without
// kernel-level async I/O.
var ErrNotSupported = errors.New("aio: not supported on this platform")

// Flags request per-write kernel behavior.
type Flags uint32

const (
	// FlagNoWait asks the kernel to fail the submission rather than block
	// the submitting thread.
	FlagNoWait Flags = 1 << iota
	// FlagDSync makes the write durable on completion, with fdatasync
	// semantics.
	FlagDSync
)

// Request describes one positional write.
type Request struct {
	// FD is the target file descriptor.
	FD int
	// Buf is the source buffer. For direct I/O descriptors it must satisfy
	// the filesystem's alignment requirements.
	Buf []byte
	// Offset is the absolute file offset.
	Offset int64
	// Flags select kernel write behavior.
	Flags Flags
	// Data is opaque and echoed back in the completion event.
	Data uint64
}

// Event is the completion of exactly one submitted request.
type Event struct {
	// Data echoes the request's Data field.
	Data uint64
	// Result is the bytes transferred when >= 0, or a negated error code
	// when < 0.
	Result int64
}

// Context is an opaque kernel handle bound to a fixed in-flight request
// capacity at creation time.
type Context interface {
	// Submit submits a batch of requests and returns how many were
	// accepted. Under the request shapes used here acceptance is
	// all-or-nothing; a partial accept is an invariant violation.
	Submit(reqs []Request) (int, error)

	// Wait blocks until at least minEvents and at most maxEvents
	// completions are available, or timeout elapses. A nil timeout waits
	// indefinitely. Transient signal interruptions are retried internally
	// and never surface to the caller.
	Wait(minEvents, maxEvents int, timeout *time.Duration) ([]Event, error)

	// Destroy releases the kernel resources. Call exactly once, after no
	// requests are outstanding.
	Destroy() error
}
