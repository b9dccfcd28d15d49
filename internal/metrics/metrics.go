package metrics

import (
	"sync"
	"time"
)

type endpointStats struct {
	calls           int
	errors          int
	cacheHits       int
	duplicates      int
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about gateway calls.
// It is intentionally simple so it can be swapped for a real backend later.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*endpointStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*endpointStats),
		otel:  otel,
	}
}

// RecordCall increments counters for a gateway call and stores the last
// observed latency.
func (r *Recorder) RecordCall(endpoint string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(endpoint)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCall(endpoint, duration, err)
	}
}

// RecordCacheHit tracks that a read was satisfied from the session cache.
func (r *Recorder) RecordCacheHit(endpoint string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.ensureStats(endpoint).cacheHits++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheHit(endpoint)
	}
}

// RecordDuplicate tracks an in-flight duplicate that was suppressed.
func (r *Recorder) RecordDuplicate(endpoint string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.ensureStats(endpoint).duplicates++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordDuplicate(endpoint)
	}
}

// Snapshot is a copy of the current stats for an endpoint.
type Snapshot struct {
	Calls           int
	Errors          int
	CacheHits       int
	Duplicates      int
	LastCallLatency time.Duration
}

// SnapshotFor returns a copy of the current stats for the endpoint.
func (r *Recorder) SnapshotFor(endpoint string) Snapshot {
	if r == nil {
		return Snapshot{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[endpoint]
	if !ok {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		CacheHits:       stats.cacheHits,
		Duplicates:      stats.duplicates,
		LastCallLatency: stats.lastCallLatency,
	}
}

// Calls returns the total attempts recorded for an endpoint.
func (r *Recorder) Calls(endpoint string) int {
	return r.SnapshotFor(endpoint).Calls
}

// Errors returns the total failed attempts recorded for an endpoint.
func (r *Recorder) Errors(endpoint string) int {
	return r.SnapshotFor(endpoint).Errors
}

// CacheHits returns the cache hits recorded for an endpoint.
func (r *Recorder) CacheHits(endpoint string) int {
	return r.SnapshotFor(endpoint).CacheHits
}

// Duplicates returns the suppressed duplicates recorded for an endpoint.
func (r *Recorder) Duplicates(endpoint string) int {
	return r.SnapshotFor(endpoint).Duplicates
}

func (r *Recorder) ensureStats(endpoint string) *endpointStats {
	stats, ok := r.stats[endpoint]
	if !ok {
		stats = &endpointStats{}
		r.stats[endpoint] = stats
	}
	return stats
}
