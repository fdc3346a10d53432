/*
Package duraio is the disk I/O capability layer underlying a replicated-log
storage engine.

It performs the raw file operations a log writer needs (package osio), wraps
kernel-level asynchronous I/O (package aio), routes every buffer allocation
through a swappable allocator table (package alloc). The hard part: it
empirically determines at startup what the filesystem under a data directory
actually supports: whether aligned unbuffered ("direct") I/O works and at
what block granularity, and whether a write can complete without the calling
thread blocking in the kernel. These facts are not knowable from the
filesystem type alone; container overlays, network filesystems and
copy-on-write filesystems all lie about or emulate support, so the probe
performs real I/O against a throwaway file and observes the outcome.

# Usage

Probe once per data directory at startup, before the engine serves writes:

	caps, err := duraio.ProbeCapabilities("/var/lib/engine")
	if err != nil {
		// refuse to start on this directory
	}
	if caps.DirectBlockSize > 0 {
		// direct I/O path, aligned to caps.DirectBlockSize
	}

A DirectBlockSize of 0 is a success outcome meaning direct I/O must not be
used; the writer falls back to a slower but correct buffered strategy.

# Concurrency

One probing goroutine per directory, at startup. The aio wrappers are
reusable on the hot write path afterwards; nothing in this module spawns
goroutines, and all blocking is syscall-level blocking of the caller.
*/
package duraio
