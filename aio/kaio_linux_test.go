//go:build linux && !iouring

package aio

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/aalhour/duraio/osio"
)

// setupOrSkip creates a context, skipping the test in sandboxes that deny
// the AIO syscalls.
func setupOrSkip(t *testing.T, capacity uint) Context {
	t.Helper()
	ctx, err := Setup(capacity)
	if err != nil {
		if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EPERM) || errors.Is(err, unix.EAGAIN) {
			t.Skipf("kernel AIO unavailable: %v", err)
		}
		t.Fatalf("Setup failed: %v", err)
	}
	return ctx
}

func TestSubmitAndWait(t *testing.T) {
	ctx := setupOrSkip(t, 1)
	defer ctx.Destroy()

	fd, err := osio.Open(osio.Join(t.TempDir(), "aio"), unix.O_RDWR|unix.O_CREAT, 0600)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer osio.Close(fd)
	if err := osio.Fallocate(fd, 0, 4096); err != nil {
		t.Fatalf("Fallocate failed: %v", err)
	}

	buf := make([]byte, 4096)
	for i := range buf {
		buf[i] = byte(i)
	}
	n, err := ctx.Submit([]Request{{FD: fd, Buf: buf, Offset: 0, Data: 42}})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("Submit accepted %d requests, want 1", n)
	}

	events, err := ctx.Wait(1, 1, nil)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Wait returned %d events, want 1", len(events))
	}
	if events[0].Data != 42 {
		t.Errorf("event data = %d, want 42", events[0].Data)
	}
	if events[0].Result != 4096 {
		t.Errorf("event result = %d, want 4096", events[0].Result)
	}

	got := make([]byte, 4096)
	if err := osio.ReadFully(fd, got); err != nil {
		t.Fatalf("ReadFully failed: %v", err)
	}
	for i := range got {
		if got[i] != byte(i) {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], byte(i))
		}
	}
}

func TestWaitTimeout(t *testing.T) {
	ctx := setupOrSkip(t, 1)
	defer ctx.Destroy()

	timeout := 10 * time.Millisecond
	start := time.Now()
	events, err := ctx.Wait(0, 1, &timeout)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Wait returned %d events, want 0", len(events))
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Wait took %v, want about %v", elapsed, timeout)
	}
}

func TestSubmitEmptyBatch(t *testing.T) {
	ctx := setupOrSkip(t, 1)
	defer ctx.Destroy()

	n, err := ctx.Submit(nil)
	if err != nil || n != 0 {
		t.Errorf("Submit(nil) = %d, %v; want 0, nil", n, err)
	}
}

func TestEventfd(t *testing.T) {
	fd, err := Eventfd(3, true)
	if err != nil {
		t.Fatalf("Eventfd failed: %v", err)
	}
	defer unix.Close(fd)

	// The counter reads back as 8 bytes, host order, then resets.
	buf := make([]byte, 8)
	n, err := unix.Read(fd, buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n != 8 {
		t.Fatalf("read %d bytes, want 8", n)
	}
	if got := binary.NativeEndian.Uint64(buf); got != 3 {
		t.Errorf("counter = %d, want 3", got)
	}

	// Non-blocking: a drained counter reports EAGAIN instead of blocking.
	if _, err := unix.Read(fd, buf); !errors.Is(err, unix.EAGAIN) {
		t.Errorf("read of drained counter = %v, want EAGAIN", err)
	}
}

func TestSupported(t *testing.T) {
	if !Supported() {
		t.Error("Supported() = false on linux kernel AIO backend")
	}
}
