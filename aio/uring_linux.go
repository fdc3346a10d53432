//go:build linux && iouring

package aio

import (
	"fmt"
	"syscall"
	"time"

	"github.com/iceber/iouring-go"
)

// Supported reports whether this backend can deliver fully non-blocking
// submission. io_uring submission never blocks the calling thread.
func Supported() bool {
	return true
}

// uringContext adapts an io_uring instance to the Context interface.
//
// FlagNoWait is inherent here: submission queues the SQE and returns.
// FlagDSync has no per-write equivalent in this backend; durability is the
// caller's follow-up fdatasync.
type uringContext struct {
	ring    *iouring.IOURing
	results chan iouring.Result
}

// Setup creates an io_uring with the given submission queue depth.
func Setup(capacity uint) (Context, error) {
	ring, err := iouring.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("aio: io_uring setup: %w", err)
	}
	return &uringContext{
		ring:    ring,
		results: make(chan iouring.Result, capacity),
	}, nil
}

func (c *uringContext) Submit(reqs []Request) (int, error) {
	for i := range reqs {
		r := &reqs[i]
		prep := iouring.Pwrite(r.FD, r.Buf, uint64(r.Offset)).WithInfo(r.Data)
		if _, err := c.ring.SubmitRequest(prep, c.results); err != nil {
			if i != 0 {
				panic(fmt.Sprintf("aio: io_uring accepted %d of %d requests", i, len(reqs)))
			}
			return 0, fmt.Errorf("aio: io_uring submit: %w", err)
		}
	}
	return len(reqs), nil
}

func (c *uringContext) Wait(minEvents, maxEvents int, timeout *time.Duration) ([]Event, error) {
	var expired <-chan time.Time
	if timeout != nil {
		timer := time.NewTimer(*timeout)
		defer timer.Stop()
		expired = timer.C
	}

	events := make([]Event, 0, maxEvents)
	for len(events) < maxEvents {
		if len(events) >= minEvents {
			select {
			case res := <-c.results:
				events = append(events, eventFromResult(res))
			default:
				return events, nil
			}
			continue
		}
		select {
		case res := <-c.results:
			events = append(events, eventFromResult(res))
		case <-expired:
			return events, nil
		}
	}
	return events, nil
}

func (c *uringContext) Destroy() error {
	if err := c.ring.Close(); err != nil {
		return fmt.Errorf("aio: io_uring close: %w", err)
	}
	return nil
}

func eventFromResult(res iouring.Result) Event {
	var ev Event
	if data, ok := res.GetRequestInfo().(uint64); ok {
		ev.Data = data
	}
	if err := res.Err(); err != nil {
		if errno, ok := err.(syscall.Errno); ok {
			ev.Result = -int64(errno)
		} else {
			ev.Result = -int64(syscall.EIO)
		}
		return ev
	}
	n, err := res.ReturnInt()
	if err != nil {
		ev.Result = -int64(syscall.EIO)
		return ev
	}
	ev.Result = int64(n)
	return ev
}
