package duraio

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/aalhour/duraio/aio"
	"github.com/aalhour/duraio/alloc"
	"github.com/aalhour/duraio/internal/logging"
	"github.com/aalhour/duraio/osio"
)

// Prober runs the capability probe against one data directory. Probing is
// cheap and runs once per directory at startup; results are not cached
// across restarts.
type Prober struct {
	dir   string
	log   logging.Logger
	table *alloc.Table
	sys   system
}

// Option configures a Prober.
type Option func(*Prober)

// WithLogger sets the logger used for probe decisions. Defaults to a
// WARN-level stderr logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Prober) { p.log = l }
}

// WithAllocator makes the prober allocate its probe buffers from the given
// table instead of the process-wide current table.
func WithAllocator(t *alloc.Table) Option {
	return func(p *Prober) { p.table = t }
}

// NewProber creates a prober for the given data directory. The probe runs
// against a scratch file inside the directory itself, so it reflects that
// directory's actual filesystem, which may differ from other mounts.
func NewProber(dir string, opts ...Option) *Prober {
	p := &Prober{dir: dir, sys: realSystem{}}
	for _, opt := range opts {
		opt(p)
	}
	p.log = logging.OrDefault(p.log)
	return p
}

// ProbeCapabilities probes dir with default options. It is the entry point
// the storage-engine initializer calls once per data directory at startup.
func ProbeCapabilities(dir string) (Capabilities, error) {
	return NewProber(dir).Probe()
}

// Probe creates an unlinked scratch file in the directory, pre-sizes it,
// and performs real I/O against it to decide the working direct I/O block
// size (0 if unsupported) and whether fully non-blocking asynchronous
// writes are achievable.
//
// The engine is strict on unknown failures and lenient on known
// degradations: an unrecognized filesystem or an unexpected errno aborts
// the probe, while "no direct I/O" and "no async support" are valid,
// common, non-error outcomes.
func (p *Prober) Probe() (Capabilities, error) {
	fd, err := p.sys.createScratch(p.dir)
	if err != nil {
		return Capabilities{}, fmt.Errorf("duraio: create probe file in %s: %w", p.dir, err)
	}
	defer func() { _ = p.sys.close(fd) }()

	if err := p.sys.fallocate(fd, 0, probeFileSize); err != nil {
		return Capabilities{}, fmt.Errorf("duraio: pre-size probe file: %w", err)
	}

	blockSize, err := p.probeDirectIO(fd)
	if err != nil {
		return Capabilities{}, err
	}

	caps := Capabilities{DirectBlockSize: blockSize}
	if blockSize > 0 && p.sys.asyncSupported() {
		ok, err := p.probeAsyncIO(fd, blockSize)
		if err != nil {
			return Capabilities{}, err
		}
		caps.AsyncWrites = ok
	}

	p.log.Infof(logging.NSProbe+"%s: %s", p.dir, caps)
	return caps, nil
}

// probeDirectIO enables unbuffered mode on the scratch descriptor and finds
// the smallest aligned write size the filesystem accepts, trying candidates
// from 4096 down to 512. Returns 0, without error, when direct I/O is
// unavailable in one of the recognized harmless ways.
func (p *Prober) probeDirectIO(fd int) (int, error) {
	if err := p.sys.setDirectIO(fd); err != nil {
		if !errors.Is(err, syscall.EINVAL) {
			return 0, fmt.Errorf("duraio: enable direct I/O: %w", err)
		}
		// The descriptor and flags are fine, so EINVAL means the
		// filesystem itself rejects unbuffered mode. tmpfs and ZFS are
		// known to do that without implying a durability problem.
		magic, err := p.sys.filesystemMagic(fd)
		if err != nil {
			return 0, fmt.Errorf("duraio: identify filesystem: %w", err)
		}
		switch magic {
		case osio.TmpfsMagic, osio.ZfsMagic:
			p.log.Debugf(logging.NSProbe+"%s: filesystem %#x has no unbuffered mode, using buffered I/O", p.dir, magic)
			return 0, nil
		default:
			return 0, &UnsupportedFilesystemError{Magic: magic}
		}
	}

	for size := maxProbeBlockSize; size >= minProbeBlockSize; size /= 2 {
		buf := alloc.NewAligned(p.table, size, size)
		if buf == nil {
			return 0, errors.New("duraio: can't allocate probe write buffer")
		}
		n, err := p.sys.pwrite(fd, buf.Bytes(), 0)
		buf.Release()
		if err == nil {
			if n != size {
				// The file was pre-sized, so a short write cannot happen
				// for lack of space.
				panic(fmt.Sprintf("duraio: probe write returned %d of %d bytes", n, size))
			}
			p.log.Debugf(logging.NSProbe+"%s: aligned write of %d bytes succeeded", p.dir, size)
			return size, nil
		}
		switch {
		case errors.Is(err, syscall.EIO), errors.Is(err, syscall.EOPNOTSUPP):
			// The size is wrong for this filesystem; try the next one.
			p.log.Debugf(logging.NSProbe+"%s: aligned write of %d bytes rejected: %v", p.dir, size, err)
		case errors.Is(err, syscall.EINVAL) && size == maxProbeBlockSize:
			// Shim filesystems (overlay layers such as shiftfs) pass the
			// F_SETFL capability check above and only reject the first
			// write, with EINVAL instead of the errno the real filesystem
			// would use. Known quirk: treat as no direct I/O, not an
			// error. Applies only to this errno at this size.
			p.log.Debugf(logging.NSProbe+"%s: EINVAL at %d bytes, assuming shim filesystem without direct I/O", p.dir, size)
			return 0, nil
		default:
			return 0, fmt.Errorf("duraio: probe write of %d bytes: %w", size, err)
		}
	}

	return 0, nil
}

// probeAsyncIO submits one non-blocking durable write of exactly blockSize
// bytes through an async context of capacity 1 and checks that it completes
// fully. Blocking while waiting is acceptable here; this runs once at
// startup, not on the hot path.
func (p *Prober) probeAsyncIO(fd, blockSize int) (bool, error) {
	ctx, err := p.sys.setupAsync(1)
	if err != nil {
		return false, fmt.Errorf("duraio: async context setup: %w", err)
	}

	buf := alloc.NewAligned(p.table, blockSize, blockSize)
	if buf == nil {
		_ = ctx.Destroy()
		return false, errors.New("duraio: can't allocate async probe buffer")
	}
	defer buf.Release()

	_, err = ctx.Submit([]aio.Request{{
		FD:     fd,
		Buf:    buf.Bytes(),
		Offset: 0,
		Flags:  aio.FlagNoWait | aio.FlagDSync,
	}})
	if err != nil {
		_ = ctx.Destroy()
		// Some filesystems accept the flag combination at a shallow level
		// and only reject it at submission time.
		if errors.Is(err, syscall.EOPNOTSUPP) {
			p.log.Debugf(logging.NSProbe+"%s: non-blocking submission rejected, async writes unavailable", p.dir)
			return false, nil
		}
		return false, fmt.Errorf("duraio: async probe submit: %w", err)
	}

	events, err := ctx.Wait(1, 1, nil)
	if err != nil {
		_ = ctx.Destroy()
		return false, fmt.Errorf("duraio: async probe wait: %w", err)
	}
	if len(events) != 1 {
		_ = ctx.Destroy()
		return false, fmt.Errorf("duraio: async probe returned %d completions, want 1", len(events))
	}

	if err := ctx.Destroy(); err != nil {
		return false, fmt.Errorf("duraio: async context teardown: %w", err)
	}

	ok := events[0].Result == int64(blockSize)
	if !ok {
		p.log.Debugf(logging.NSProbe+"%s: async probe write returned %d, async writes unavailable", p.dir, events[0].Result)
	}
	return ok, nil
}
