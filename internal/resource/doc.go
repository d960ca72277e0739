// Package resource governs the two shared resources of a build: count-table
// memory and snapshot IO bandwidth.
//
//   - Memory: a weighted semaphore enforces a hard limit; AcquireMemory is
//     non-blocking and fails fast with ErrMemoryLimitExceeded
//   - IO: a token bucket (golang.org/x/time/rate) throttles snapshot reads
//     and writes through RateLimitedReader and RateLimitedWriter
//
// Usage:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   1 << 30,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//
//	if err := rc.AcquireMemory(shardBytes); err != nil {
//	    return err // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(shardBytes)
//
//	w := resource.NewRateLimitedWriter(ctx, f, rc)
//
// All methods are safe for concurrent use and treat a nil *Controller as
// unlimited.
package resource
