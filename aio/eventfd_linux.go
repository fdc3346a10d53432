//go:build linux

package aio

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Eventfd creates a descriptor usable for edge-triggered readiness
// notification of completion queues. The descriptor is close-on-exec.
func Eventfd(initval uint, nonBlocking bool) (int, error) {
	flags := unix.EFD_CLOEXEC
	if nonBlocking {
		flags |= unix.EFD_NONBLOCK
	}
	fd, err := unix.Eventfd(initval, flags)
	if err != nil {
		return -1, fmt.Errorf("aio: eventfd: %w", err)
	}
	return fd, nil
}
