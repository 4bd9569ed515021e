// Package metrics collects in-process counters and histograms for the
// planner service: generation latency, cache effectiveness, oracle
// fallback rate, and rate-limit rejections.
package metrics

import (
	"runtime"
	"sync"
	"time"
)

// Metrics holds the raw counters a Collector aggregates.
type Metrics struct {
	mu sync.RWMutex

	// HTTP metrics
	RequestCount    int64
	RequestDuration time.Duration
	ErrorCount      int64
	StatusCodes     map[int]int64

	// Generation metrics
	GenerationCount    int64
	GenerationDuration time.Duration
	GenerationTimeouts int64

	// Cache metrics
	CacheHits   int64
	CacheMisses int64
	CacheErrors int64

	// Oracle metrics
	RoutingFallbacks int64
	WeatherFallbacks int64

	// Rate limit metrics
	RateLimitRejections int64

	// System metrics
	MemoryUsage    uint64
	GoroutineCount int
	GCPauses       time.Duration

	GenerationLatency *Histogram
}

// Histogram tracks the distribution of observed values.
type Histogram struct {
	mu      sync.RWMutex
	buckets []float64
	counts  []int64
	sum     float64
	count   int64
}

// NewHistogram creates a Histogram with the given upper bucket bounds.
func NewHistogram(buckets []float64) *Histogram {
	return &Histogram{
		buckets: buckets,
		counts:  make([]int64, len(buckets)+1),
	}
}

// Observe records value into its bucket.
func (h *Histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sum += value
	h.count++

	for i, bucket := range h.buckets {
		if value <= bucket {
			h.counts[i]++
			return
		}
	}
	h.counts[len(h.buckets)]++
}

// Summary returns a point-in-time copy of the histogram's state.
func (h *Histogram) Summary() HistogramSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return HistogramSummary{
		Count:   h.count,
		Sum:     h.sum,
		Buckets: append([]float64{}, h.buckets...),
		Counts:  append([]int64{}, h.counts...),
	}
}

// HistogramSummary is an immutable snapshot of a Histogram.
type HistogramSummary struct {
	Count   int64
	Sum     float64
	Buckets []float64
	Counts  []int64
}

// generationLatencyBuckets are seconds, scaled to the planner's 25s
// generation deadline.
var generationLatencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 20, 25}

// Collector aggregates metrics and periodically samples runtime stats.
type Collector struct {
	metrics *Metrics
	ticker  *time.Ticker
	done    chan struct{}
}

// NewCollector creates a Collector.
func NewCollector() *Collector {
	return &Collector{
		metrics: &Metrics{
			StatusCodes:       make(map[int]int64),
			GenerationLatency: NewHistogram(generationLatencyBuckets),
		},
		done: make(chan struct{}),
	}
}

// Start begins sampling runtime memory/goroutine stats every interval.
func (c *Collector) Start(interval time.Duration) {
	c.ticker = time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-c.ticker.C:
				c.collectSystemMetrics()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the sampling goroutine.
func (c *Collector) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	close(c.done)
}

func (c *Collector) collectSystemMetrics() {
	c.metrics.mu.Lock()
	defer c.metrics.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	c.metrics.MemoryUsage = m.Alloc
	c.metrics.GoroutineCount = runtime.NumGoroutine()
	c.metrics.GCPauses = time.Duration(m.PauseTotalNs)
}

// RecordHTTPRequest records one completed HTTP request.
func (c *Collector) RecordHTTPRequest(duration time.Duration, statusCode int, isError bool) {
	c.metrics.mu.Lock()
	defer c.metrics.mu.Unlock()

	c.metrics.RequestCount++
	c.metrics.RequestDuration += duration
	c.metrics.StatusCodes[statusCode]++
	if isError {
		c.metrics.ErrorCount++
	}
}

// RecordGeneration records one plan generation attempt.
func (c *Collector) RecordGeneration(duration time.Duration, timedOut bool) {
	c.metrics.mu.Lock()
	defer c.metrics.mu.Unlock()

	c.metrics.GenerationCount++
	c.metrics.GenerationDuration += duration
	if timedOut {
		c.metrics.GenerationTimeouts++
	}
	c.metrics.GenerationLatency.Observe(duration.Seconds())
}

// RecordCache records a single cache lookup outcome.
func (c *Collector) RecordCache(hit bool, isError bool) {
	c.metrics.mu.Lock()
	defer c.metrics.mu.Unlock()

	if hit {
		c.metrics.CacheHits++
	} else {
		c.metrics.CacheMisses++
	}
	if isError {
		c.metrics.CacheErrors++
	}
}

// RecordRoutingFallback records a routing oracle call that fell back
// to the Haversine estimate.
func (c *Collector) RecordRoutingFallback() {
	c.metrics.mu.Lock()
	defer c.metrics.mu.Unlock()
	c.metrics.RoutingFallbacks++
}

// RecordWeatherFallback records a weather oracle call that failed and
// was omitted from a day's intro.
func (c *Collector) RecordWeatherFallback() {
	c.metrics.mu.Lock()
	defer c.metrics.mu.Unlock()
	c.metrics.WeatherFallbacks++
}

// RecordRateLimitRejection records a request rejected by the rate limiter.
func (c *Collector) RecordRateLimitRejection() {
	c.metrics.mu.Lock()
	defer c.metrics.mu.Unlock()
	c.metrics.RateLimitRejections++
}

// Snapshot returns a point-in-time copy of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.metrics.mu.RLock()
	defer c.metrics.mu.RUnlock()

	statusCodes := make(map[int]int64, len(c.metrics.StatusCodes))
	for k, v := range c.metrics.StatusCodes {
		statusCodes[k] = v
	}

	return Snapshot{
		RequestCount:        c.metrics.RequestCount,
		RequestDuration:     c.metrics.RequestDuration,
		ErrorCount:          c.metrics.ErrorCount,
		StatusCodes:         statusCodes,
		GenerationCount:     c.metrics.GenerationCount,
		GenerationDuration:  c.metrics.GenerationDuration,
		GenerationTimeouts:  c.metrics.GenerationTimeouts,
		GenerationLatency:   c.metrics.GenerationLatency.Summary(),
		CacheHits:           c.metrics.CacheHits,
		CacheMisses:         c.metrics.CacheMisses,
		CacheErrors:         c.metrics.CacheErrors,
		RoutingFallbacks:    c.metrics.RoutingFallbacks,
		WeatherFallbacks:    c.metrics.WeatherFallbacks,
		RateLimitRejections: c.metrics.RateLimitRejections,
		MemoryUsage:         c.metrics.MemoryUsage,
		GoroutineCount:      c.metrics.GoroutineCount,
		GCPauses:            c.metrics.GCPauses,
		Timestamp:           time.Now(),
	}
}

// Snapshot is an immutable point-in-time copy of Metrics.
type Snapshot struct {
	RequestCount        int64
	RequestDuration     time.Duration
	ErrorCount          int64
	StatusCodes         map[int]int64
	GenerationCount     int64
	GenerationDuration  time.Duration
	GenerationTimeouts  int64
	GenerationLatency   HistogramSummary
	CacheHits           int64
	CacheMisses         int64
	CacheErrors         int64
	RoutingFallbacks    int64
	WeatherFallbacks    int64
	RateLimitRejections int64
	MemoryUsage         uint64
	GoroutineCount      int
	GCPauses            time.Duration
	Timestamp           time.Time
}

// CacheHitRate returns the cache hit percentage for this snapshot, or
// 0 if no lookups were recorded.
func (s Snapshot) CacheHitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total) * 100
}
