package duraio

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"syscall"

	"github.com/aalhour/duraio/aio"
	"github.com/aalhour/duraio/osio"
)

// system is the seam between the probe engine and the OS. The probe depends
// on this interface rather than calling osio/aio directly so tests can
// inject filesystem behaviors that would otherwise need exotic mounts:
// EINVAL-at-4096 shims, unrecognized filesystem magics, submission-time
// EOPNOTSUPP.
type system interface {
	// createScratch creates a uniquely named temporary file in dir and
	// unlinks it from the namespace while keeping the descriptor open, so
	// cleanup is automatic even on abnormal exit.
	createScratch(dir string) (int, error)
	fallocate(fd int, offset, length int64) error
	setDirectIO(fd int) error
	filesystemMagic(fd int) (int64, error)
	pwrite(fd int, buf []byte, offset int64) (int, error)
	close(fd int) error

	// asyncSupported reports whether the platform exposes non-blocking
	// write submission at all.
	asyncSupported() bool
	setupAsync(capacity uint) (aio.Context, error)
}

// realSystem is the production seam, backed by osio and aio.
type realSystem struct{}

func (realSystem) createScratch(dir string) (int, error) {
	for attempt := 0; attempt < 64; attempt++ {
		name := fmt.Sprintf(".probe-%d-%d", os.Getpid(), rand.Int63())
		path := osio.Join(dir, name)
		fd, err := osio.Open(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
		if err != nil {
			if errors.Is(err, syscall.EEXIST) {
				continue
			}
			return -1, err
		}
		if err := osio.Unlink(path); err != nil {
			_ = osio.Close(fd)
			return -1, err
		}
		return fd, nil
	}
	return -1, fmt.Errorf("duraio: can't find a free probe filename in %s", dir)
}

func (realSystem) fallocate(fd int, offset, length int64) error {
	return osio.Fallocate(fd, offset, length)
}

func (realSystem) setDirectIO(fd int) error {
	return osio.SetDirectIO(fd)
}

func (realSystem) filesystemMagic(fd int) (int64, error) {
	return osio.FilesystemMagic(fd)
}

func (realSystem) pwrite(fd int, buf []byte, offset int64) (int, error) {
	return osio.Writev(fd, [][]byte{buf}, offset)
}

func (realSystem) close(fd int) error {
	return osio.Close(fd)
}

func (realSystem) asyncSupported() bool {
	return aio.Supported()
}

func (realSystem) setupAsync(capacity uint) (aio.Context, error) {
	return aio.Setup(capacity)
}
