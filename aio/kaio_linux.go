//go:build linux && !iouring

package aio

import (
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Kernel AIO ABI, from linux/aio_abi.h. The padded key/rw_flags pair is laid
// out for little-endian targets, which covers every platform this module
// ships on (amd64, arm64, riscv64).
type iocb struct {
	data      uint64
	key       uint32
	rwFlags   uint32
	lioOpcode uint16
	reqPrio   int16
	fildes    uint32
	buf       uint64
	nbytes    uint64
	offset    int64
	reserved2 uint64
	flags     uint32
	resfd     uint32
}

type ioEvent struct {
	data uint64
	obj  uint64
	res  int64
	res2 int64
}

const iocbCmdPwrite = 1

// Supported reports whether this backend can deliver fully non-blocking
// submission. Kernel AIO with RWF_NOWAIT can.
func Supported() bool {
	return true
}

// kaioContext is the raw kernel AIO backend.
type kaioContext struct {
	id uintptr // aio_context_t
}

// Setup creates a kernel AIO context able to hold capacity in-flight
// requests. Resource exhaustion (EAGAIN) is the common failure mode.
func Setup(capacity uint) (Context, error) {
	ctx := &kaioContext{}
	_, _, errno := unix.Syscall(unix.SYS_IO_SETUP, uintptr(capacity),
		uintptr(unsafe.Pointer(&ctx.id)), 0)
	if errno != 0 {
		return nil, fmt.Errorf("aio: io_setup: %w", errno)
	}
	return ctx, nil
}

func kernelRWFlags(f Flags) uint32 {
	var rw uint32
	if f&FlagNoWait != 0 {
		rw |= uint32(unix.RWF_NOWAIT)
	}
	if f&FlagDSync != 0 {
		rw |= uint32(unix.RWF_DSYNC)
	}
	return rw
}

func (c *kaioContext) Submit(reqs []Request) (int, error) {
	if len(reqs) == 0 {
		return 0, nil
	}
	iocbs := make([]iocb, len(reqs))
	ptrs := make([]*iocb, len(reqs))
	for i := range reqs {
		r := &reqs[i]
		iocbs[i] = iocb{
			data:      r.Data,
			rwFlags:   kernelRWFlags(r.Flags),
			lioOpcode: iocbCmdPwrite,
			fildes:    uint32(r.FD),
			buf:       uint64(uintptr(unsafe.Pointer(&r.Buf[0]))),
			nbytes:    uint64(len(r.Buf)),
			offset:    r.Offset,
		}
		ptrs[i] = &iocbs[i]
	}

	n, _, errno := unix.Syscall(unix.SYS_IO_SUBMIT, c.id,
		uintptr(len(ptrs)), uintptr(unsafe.Pointer(&ptrs[0])))
	runtime.KeepAlive(iocbs)
	if errno != 0 {
		return 0, fmt.Errorf("aio: io_submit: %w", errno)
	}
	if int(n) != len(reqs) {
		// The kernel accepts either the whole batch or fails; a partial
		// accept under these request shapes breaks the completion
		// accounting.
		panic(fmt.Sprintf("aio: io_submit accepted %d of %d requests", n, len(reqs)))
	}
	return int(n), nil
}

func (c *kaioContext) Wait(minEvents, maxEvents int, timeout *time.Duration) ([]Event, error) {
	raw := make([]ioEvent, maxEvents)
	var ts *unix.Timespec
	if timeout != nil {
		t := unix.NsecToTimespec(timeout.Nanoseconds())
		ts = &t
	}

	for {
		n, _, errno := unix.Syscall6(unix.SYS_IO_GETEVENTS, c.id,
			uintptr(minEvents), uintptr(maxEvents),
			uintptr(unsafe.Pointer(&raw[0])), uintptr(unsafe.Pointer(ts)), 0)
		if errno == unix.EINTR {
			// Transient signal; never surfaced to the caller.
			continue
		}
		if errno != 0 {
			return nil, fmt.Errorf("aio: io_getevents: %w", errno)
		}
		if int(n) > maxEvents {
			panic(fmt.Sprintf("aio: io_getevents returned %d events, max %d", n, maxEvents))
		}
		events := make([]Event, n)
		for i := range events {
			events[i] = Event{Data: raw[i].data, Result: raw[i].res}
		}
		return events, nil
	}
}

func (c *kaioContext) Destroy() error {
	_, _, errno := unix.Syscall(unix.SYS_IO_DESTROY, c.id, 0, 0)
	if errno != 0 {
		return fmt.Errorf("aio: io_destroy: %w", errno)
	}
	return nil
}
