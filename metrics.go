package elemgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    addCounter       prometheus.Counter
//	    collectHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordAdd(duration time.Duration, err error) {
//	    p.addCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordAdd is called after each add operation.
	// duration is the total time taken, err is nil if successful.
	RecordAdd(duration time.Duration, err error)

	// RecordBatchAdd is called after each batch add operation.
	// count is the number of elements attempted, failed is the number that
	// failed, duration is the total time taken.
	RecordBatchAdd(count, failed int, duration time.Duration)

	// RecordUpdate is called after each update operation.
	RecordUpdate(duration time.Duration, err error)

	// RecordDelete is called after each delete operation.
	RecordDelete(duration time.Duration, err error)

	// RecordCollect is called after each collect pass.
	// steps is the number of filter steps applied, results is the number of
	// elements materialized, err is nil if successful.
	RecordCollect(steps, results int, duration time.Duration, err error)

	// RecordSnapshotSave is called after each snapshot save.
	RecordSnapshotSave(bytes int64, duration time.Duration, err error)

	// RecordSnapshotLoad is called after each snapshot load.
	RecordSnapshotLoad(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, error)                 {}
func (NoopMetricsCollector) RecordBatchAdd(int, int, time.Duration)         {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error)              {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)              {}
func (NoopMetricsCollector) RecordCollect(int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordSnapshotSave(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordSnapshotLoad(int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount           atomic.Int64
	AddErrors          atomic.Int64
	AddTotalNanos      atomic.Int64
	BatchAddCount      atomic.Int64
	BatchAddItems      atomic.Int64
	BatchAddFailed     atomic.Int64
	UpdateCount        atomic.Int64
	UpdateErrors       atomic.Int64
	DeleteCount        atomic.Int64
	DeleteErrors       atomic.Int64
	CollectCount       atomic.Int64
	CollectErrors      atomic.Int64
	CollectTotalNanos  atomic.Int64
	CollectSteps       atomic.Int64
	CollectResults     atomic.Int64
	SnapshotSaveCount  atomic.Int64
	SnapshotSaveErrors atomic.Int64
	SnapshotSaveBytes  atomic.Int64
	SnapshotLoadCount  atomic.Int64
	SnapshotLoadErrors atomic.Int64
	SnapshotLoadBytes  atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(duration time.Duration, err error) {
	b.AddCount.Add(1)
	b.AddTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AddErrors.Add(1)
	}
}

// RecordBatchAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchAdd(count, failed int, duration time.Duration) {
	b.BatchAddCount.Add(1)
	b.BatchAddItems.Add(int64(count))
	b.BatchAddFailed.Add(int64(failed))
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordCollect implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCollect(steps, results int, duration time.Duration, err error) {
	b.CollectCount.Add(1)
	b.CollectTotalNanos.Add(duration.Nanoseconds())
	b.CollectSteps.Add(int64(steps))
	b.CollectResults.Add(int64(results))
	if err != nil {
		b.CollectErrors.Add(1)
	}
}

// RecordSnapshotSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotSave(bytes int64, duration time.Duration, err error) {
	b.SnapshotSaveCount.Add(1)
	b.SnapshotSaveBytes.Add(bytes)
	if err != nil {
		b.SnapshotSaveErrors.Add(1)
	}
}

// RecordSnapshotLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotLoad(bytes int64, duration time.Duration, err error) {
	b.SnapshotLoadCount.Add(1)
	b.SnapshotLoadBytes.Add(bytes)
	if err != nil {
		b.SnapshotLoadErrors.Add(1)
	}
}

// Snapshot returns a point-in-time copy of current metrics.
func (b *BasicMetricsCollector) Snapshot() BasicMetricsSnapshot {
	return BasicMetricsSnapshot{
		AddCount:           b.AddCount.Load(),
		AddErrors:          b.AddErrors.Load(),
		AddAvgNanos:        b.avgAddNanos(),
		BatchAddCount:      b.BatchAddCount.Load(),
		BatchAddItems:      b.BatchAddItems.Load(),
		BatchAddFailed:     b.BatchAddFailed.Load(),
		UpdateCount:        b.UpdateCount.Load(),
		UpdateErrors:       b.UpdateErrors.Load(),
		DeleteCount:        b.DeleteCount.Load(),
		DeleteErrors:       b.DeleteErrors.Load(),
		CollectCount:       b.CollectCount.Load(),
		CollectErrors:      b.CollectErrors.Load(),
		CollectAvgNanos:    b.avgCollectNanos(),
		CollectSteps:       b.CollectSteps.Load(),
		CollectResults:     b.CollectResults.Load(),
		SnapshotSaveCount:  b.SnapshotSaveCount.Load(),
		SnapshotSaveErrors: b.SnapshotSaveErrors.Load(),
		SnapshotSaveBytes:  b.SnapshotSaveBytes.Load(),
		SnapshotLoadCount:  b.SnapshotLoadCount.Load(),
		SnapshotLoadErrors: b.SnapshotLoadErrors.Load(),
		SnapshotLoadBytes:  b.SnapshotLoadBytes.Load(),
	}
}

func (b *BasicMetricsCollector) avgAddNanos() int64 {
	count := b.AddCount.Load()
	if count == 0 {
		return 0
	}
	return b.AddTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) avgCollectNanos() int64 {
	count := b.CollectCount.Load()
	if count == 0 {
		return 0
	}
	return b.CollectTotalNanos.Load() / count
}

// BasicMetricsSnapshot is a point-in-time copy of BasicMetricsCollector state.
type BasicMetricsSnapshot struct {
	AddCount           int64
	AddErrors          int64
	AddAvgNanos        int64
	BatchAddCount      int64
	BatchAddItems      int64
	BatchAddFailed     int64
	UpdateCount        int64
	UpdateErrors       int64
	DeleteCount        int64
	DeleteErrors       int64
	CollectCount       int64
	CollectErrors      int64
	CollectAvgNanos    int64
	CollectSteps       int64
	CollectResults     int64
	SnapshotSaveCount  int64
	SnapshotSaveErrors int64
	SnapshotSaveBytes  int64
	SnapshotLoadCount  int64
	SnapshotLoadErrors int64
	SnapshotLoadBytes  int64
}
