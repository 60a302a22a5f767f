// Package metrics provides in-process counters for the device proxy and the
// status watcher.
//
// The Collector is a leaf package with no internal dependencies. Error kinds
// and route names are plain strings so callers do not leak their types here.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// HTTP surface
	Requests        int64            `json:"requests_total"`
	RequestsByRoute map[string]int64 `json:"requests_by_route"`
	ResponseErrors  int64            `json:"response_errors_total"`

	// Upstream (Braket API)
	UpstreamCalls        int64            `json:"upstream_calls_total"`
	UpstreamErrors       int64            `json:"upstream_errors_total"`
	UpstreamErrorsByKind map[string]int64 `json:"upstream_errors_by_kind"`
	RegionWarnings       int64            `json:"region_warnings_total"`

	// Normalisation
	ParseFailures int64 `json:"parse_failures_total"`

	// Static detail cache
	CacheHits   int64 `json:"cache_hits_total"`
	CacheMisses int64 `json:"cache_misses_total"`

	// Watcher
	PollsCompleted        int64 `json:"polls_completed_total"`
	PollsFailed           int64 `json:"polls_failed_total"`
	StatusChanges         int64 `json:"status_changes_total"`
	AdapterPublishSuccess int64 `json:"adapter_publish_success_total"`
	AdapterPublishFailure int64 `json:"adapter_publish_failure_total"`
	ArchiveWriteSuccess   int64 `json:"archive_write_success_total"`
	ArchiveWriteFailure   int64 `json:"archive_write_failure_total"`
	ArchivedObservations  int64 `json:"archived_observations_total"`

	// Dimensions (informational, set at construction)
	Regions        string `json:"regions"`
	StorageBackend string `json:"storage_backend,omitempty"`
	Adapter        string `json:"adapter,omitempty"`
}

// Collector accumulates counters for the lifetime of a process.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	requests        int64
	requestsByRoute map[string]int64
	responseErrors  int64

	upstreamCalls        int64
	upstreamErrors       int64
	upstreamErrorsByKind map[string]int64
	regionWarnings       int64

	parseFailures int64

	cacheHits   int64
	cacheMisses int64

	pollsCompleted        int64
	pollsFailed           int64
	statusChanges         int64
	adapterPublishSuccess int64
	adapterPublishFailure int64
	archiveWriteSuccess   int64
	archiveWriteFailure   int64
	archivedObservations  int64

	regions        string
	storageBackend string
	adapter        string
}

// NewCollector creates a Collector with dimension labels. storageBackend and
// adapter are empty when the archive or adapter is not configured.
func NewCollector(regions, storageBackend, adapter string) *Collector {
	return &Collector{
		requestsByRoute:      make(map[string]int64),
		upstreamErrorsByKind: make(map[string]int64),
		regions:              regions,
		storageBackend:       storageBackend,
		adapter:              adapter,
	}
}

func (c *Collector) inc(p *int64) {
	c.mu.Lock()
	*p++
	c.mu.Unlock()
}

// --- HTTP surface ---

// IncRequest records a request served by route.
func (c *Collector) IncRequest(route string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.requests++
	c.requestsByRoute[route]++
	c.mu.Unlock()
}

// IncResponseError records a request answered with an error envelope.
func (c *Collector) IncResponseError() {
	if c == nil {
		return
	}
	c.inc(&c.responseErrors)
}

// --- Upstream ---

// IncUpstreamCall records one Braket API call (per call, not per page).
func (c *Collector) IncUpstreamCall() {
	if c == nil {
		return
	}
	c.inc(&c.upstreamCalls)
}

// IncUpstreamError records a failed Braket API call by error kind.
func (c *Collector) IncUpstreamError(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.upstreamErrors++
	c.upstreamErrorsByKind[kind]++
	c.mu.Unlock()
}

// IncRegionWarning records a region whose search failed while others succeeded.
func (c *Collector) IncRegionWarning() {
	if c == nil {
		return
	}
	c.inc(&c.regionWarnings)
}

// IncParseFailure records a capabilities document that could not be parsed.
func (c *Collector) IncParseFailure() {
	if c == nil {
		return
	}
	c.inc(&c.parseFailures)
}

// --- Cache ---

// IncCacheHit records a detail served from the static cache.
func (c *Collector) IncCacheHit() {
	if c == nil {
		return
	}
	c.inc(&c.cacheHits)
}

// IncCacheMiss records a detail fetched in full.
func (c *Collector) IncCacheMiss() {
	if c == nil {
		return
	}
	c.inc(&c.cacheMisses)
}

// --- Watcher ---

// IncPollCompleted records a status poll that produced a listing.
func (c *Collector) IncPollCompleted() {
	if c == nil {
		return
	}
	c.inc(&c.pollsCompleted)
}

// IncPollFailed records a status poll that failed outright.
func (c *Collector) IncPollFailed() {
	if c == nil {
		return
	}
	c.inc(&c.pollsFailed)
}

// IncStatusChange records one observed device status transition.
func (c *Collector) IncStatusChange() {
	if c == nil {
		return
	}
	c.inc(&c.statusChanges)
}

// IncAdapterPublishSuccess records a delivered status-change event.
func (c *Collector) IncAdapterPublishSuccess() {
	if c == nil {
		return
	}
	c.inc(&c.adapterPublishSuccess)
}

// IncAdapterPublishFailure records an event the adapter gave up on.
func (c *Collector) IncAdapterPublishFailure() {
	if c == nil {
		return
	}
	c.inc(&c.adapterPublishFailure)
}

// Archive counters are per write call. ArchivedObservations counts records.

// IncArchiveWriteSuccess records a successful archive write of n observations.
func (c *Collector) IncArchiveWriteSuccess(n int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.archiveWriteSuccess++
	c.archivedObservations += int64(n)
	c.mu.Unlock()
}

// IncArchiveWriteFailure records a failed archive write.
func (c *Collector) IncArchiveWriteFailure() {
	if c == nil {
		return
	}
	c.inc(&c.archiveWriteFailure)
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all counters.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Requests:        c.requests,
		RequestsByRoute: copyCounts(c.requestsByRoute),
		ResponseErrors:  c.responseErrors,

		UpstreamCalls:        c.upstreamCalls,
		UpstreamErrors:       c.upstreamErrors,
		UpstreamErrorsByKind: copyCounts(c.upstreamErrorsByKind),
		RegionWarnings:       c.regionWarnings,

		ParseFailures: c.parseFailures,

		CacheHits:   c.cacheHits,
		CacheMisses: c.cacheMisses,

		PollsCompleted:        c.pollsCompleted,
		PollsFailed:           c.pollsFailed,
		StatusChanges:         c.statusChanges,
		AdapterPublishSuccess: c.adapterPublishSuccess,
		AdapterPublishFailure: c.adapterPublishFailure,
		ArchiveWriteSuccess:   c.archiveWriteSuccess,
		ArchiveWriteFailure:   c.archiveWriteFailure,
		ArchivedObservations:  c.archivedObservations,

		Regions:        c.regions,
		StorageBackend: c.storageBackend,
		Adapter:        c.adapter,
	}
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
