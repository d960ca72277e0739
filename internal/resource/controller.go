package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when a reservation does not fit the limit.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits. Zero means unlimited.
type Config struct {
	// MemoryLimitBytes caps count-table and block-cache memory.
	MemoryLimitBytes int64
	// IOLimitBytesPerSec caps snapshot read and write throughput.
	IOLimitBytesPerSec int64
}

// Controller hands out memory reservations and IO bandwidth.
type Controller struct {
	mem budget
	io  *rate.Limiter // nil if unlimited
}

// budget tracks reserved bytes against an optional hard limit.
type budget struct {
	limit int64
	sem   *semaphore.Weighted // nil if unlimited
	used  atomic.Int64
	peak  atomic.Int64
}

func (b *budget) take(n int64) bool {
	if b.sem != nil && !b.sem.TryAcquire(n) {
		return false
	}
	used := b.used.Add(n)
	for {
		if p := b.peak.Load(); used <= p || b.peak.CompareAndSwap(p, used) {
			return true
		}
	}
}

func (b *budget) give(n int64) {
	if b.sem != nil {
		b.sem.Release(n)
	}
	b.used.Add(-n)
}

// NewController returns a controller enforcing cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{}
	if cfg.MemoryLimitBytes > 0 {
		c.mem.limit = cfg.MemoryLimitBytes
		c.mem.sem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if r := cfg.IOLimitBytesPerSec; r > 0 {
		// One second of throughput may be spent at once.
		c.io = rate.NewLimiter(rate.Limit(r), int(r))
	}
	return c
}

// AcquireMemory reserves n bytes without blocking, or returns
// ErrMemoryLimitExceeded.
func (c *Controller) AcquireMemory(n int64) error {
	if c == nil || n <= 0 || c.mem.take(n) {
		return nil
	}
	return ErrMemoryLimitExceeded
}

// ReleaseMemory returns n reserved bytes.
func (c *Controller) ReleaseMemory(n int64) {
	if c != nil && n > 0 {
		c.mem.give(n)
	}
}

// MemoryUsage reports the reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.mem.used.Load()
}

// PeakMemoryUsage reports the largest MemoryUsage since creation or the
// last ResetPeak.
func (c *Controller) PeakMemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.mem.peak.Load()
}

// ResetPeak starts a new peak window at the current usage.
func (c *Controller) ResetPeak() {
	if c != nil {
		c.mem.peak.Store(c.mem.used.Load())
	}
}

// MemoryLimit is the configured limit, 0 if unlimited.
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.mem.limit
}

// AcquireIO blocks until n bytes of IO are allowed. Requests above one
// second of throughput are charged in slices.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	burst := c.ioChunk()
	if burst == 0 {
		return nil
	}
	for n > 0 {
		step := min(n, burst)
		if err := c.io.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// ioChunk is the largest IO admitted at once, 0 if unlimited.
func (c *Controller) ioChunk() int {
	if c == nil || c.io == nil {
		return 0
	}
	return c.io.Burst()
}
