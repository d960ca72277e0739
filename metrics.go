package kmergraph

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see examples/observability).
//
// Graph queries are not instrumented; they run in the nanosecond range and
// are called billions of times during a traversal.
type MetricsCollector interface {
	// RecordBuild is called after each Create.
	// kmers is the number of windows scanned, solid the number of k-mers
	// inserted into the filter, err is nil if successful.
	RecordBuild(kmers, solid int64, duration time.Duration, err error)

	// RecordSave is called after each snapshot write with the bytes written.
	RecordSave(bytes int64, duration time.Duration, err error)

	// RecordLoad is called after each snapshot read with the bytes read.
	RecordLoad(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int64, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(int64, time.Duration, error)         {}
func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildTotalNanos atomic.Int64
	KmersScanned    atomic.Int64
	SolidKmers      atomic.Int64
	SaveCount       atomic.Int64
	SaveErrors      atomic.Int64
	BytesWritten    atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	BytesRead       atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(kmers, solid int64, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.KmersScanned.Add(kmers)
	b.SolidKmers.Add(solid)
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(bytes int64, duration time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.BytesWritten.Add(bytes)
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.BytesRead.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:    b.BuildCount.Load(),
		BuildErrors:   b.BuildErrors.Load(),
		BuildAvgNanos: b.getAvgBuildNanos(),
		KmersScanned:  b.KmersScanned.Load(),
		SolidKmers:    b.SolidKmers.Load(),
		SaveCount:     b.SaveCount.Load(),
		SaveErrors:    b.SaveErrors.Load(),
		BytesWritten:  b.BytesWritten.Load(),
		LoadCount:     b.LoadCount.Load(),
		LoadErrors:    b.LoadErrors.Load(),
		BytesRead:     b.BytesRead.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgBuildNanos() int64 {
	count := b.BuildCount.Load()
	if count == 0 {
		return 0
	}
	return b.BuildTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount    int64
	BuildErrors   int64
	BuildAvgNanos int64
	KmersScanned  int64
	SolidKmers    int64
	SaveCount     int64
	SaveErrors    int64
	BytesWritten  int64
	LoadCount     int64
	LoadErrors    int64
	BytesRead     int64
}
