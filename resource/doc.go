// Package resource implements a Controller for global limits and governance.
//
// The Controller provides centralized management of three resource types:
//
//   - Memory: track and limit bytes held by the block cache and by large
//     element materializations
//   - Concurrency: bound background jobs (auto-snapshot, journal checkpoints)
//   - IO: rate-limit snapshot and journal writes so foreground queries are
//     not starved
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and an atomic
// counter for usage. AcquireMemory blocks until the reservation fits under
// the limit or the context is canceled; TryAcquireMemory fails fast:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(ctx, 1024*1024); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(1024 * 1024)
//
// Cache insertion paths use TryAcquireMemory so a full budget degrades to a
// cache miss instead of a stall.
//
// # Background Worker Limits
//
// Limits concurrent background operations (auto-snapshot, checkpointing):
//
//	rc := resource.NewController(resource.Config{
//	    MaxBackgroundWorkers: 2,
//	})
//
//	if err := rc.AcquireBackground(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseBackground()
//
// # IO Rate Limiting
//
// A token bucket throttles background IO:
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 100 * 1024 * 1024, // 100MB/s
//	})
//
//	w := resource.NewThrottledWriter(ctx, f, rc)
//	r := resource.NewThrottledReader(ctx, f, rc)
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully and become no-ops, so
// resource limiting stays optional without nil checks at every call site.
package resource
