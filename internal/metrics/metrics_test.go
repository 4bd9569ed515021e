package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramObserveBucketsAndSum(t *testing.T) {
	h := NewHistogram([]float64{1, 5, 10})

	h.Observe(0.5)
	h.Observe(3)
	h.Observe(8)
	h.Observe(20)

	s := h.Summary()
	require.Equal(t, int64(4), s.Count)
	assert.Equal(t, 0.5+3+8+20, s.Sum)
	assert.Equal(t, []int64{1, 1, 1, 1}, s.Counts)
}

func TestCollectorRecordHTTPRequest(t *testing.T) {
	c := NewCollector()
	c.RecordHTTPRequest(50*time.Millisecond, 200, false)
	c.RecordHTTPRequest(10*time.Millisecond, 500, true)

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.RequestCount)
	assert.Equal(t, int64(1), snap.ErrorCount)
	assert.Equal(t, int64(1), snap.StatusCodes[200])
	assert.Equal(t, int64(1), snap.StatusCodes[500])
}

func TestCollectorRecordGeneration(t *testing.T) {
	c := NewCollector()
	c.RecordGeneration(2*time.Second, false)
	c.RecordGeneration(26*time.Second, true)

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.GenerationCount)
	assert.Equal(t, int64(1), snap.GenerationTimeouts)
	assert.Equal(t, int64(2), snap.GenerationLatency.Count)
}

func TestCollectorRecordCacheAndHitRate(t *testing.T) {
	c := NewCollector()
	c.RecordCache(true, false)
	c.RecordCache(true, false)
	c.RecordCache(false, false)
	c.RecordCache(false, true)

	snap := c.Snapshot()
	require.Equal(t, int64(2), snap.CacheHits)
	require.Equal(t, int64(2), snap.CacheMisses)
	assert.Equal(t, int64(1), snap.CacheErrors)
	assert.Equal(t, float64(50), snap.CacheHitRate())
}

func TestSnapshotCacheHitRateWithNoLookups(t *testing.T) {
	c := NewCollector()
	assert.Equal(t, float64(0), c.Snapshot().CacheHitRate())
}

func TestCollectorRecordFallbacksAndRateLimit(t *testing.T) {
	c := NewCollector()
	c.RecordRoutingFallback()
	c.RecordRoutingFallback()
	c.RecordWeatherFallback()
	c.RecordRateLimitRejection()

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.RoutingFallbacks)
	assert.Equal(t, int64(1), snap.WeatherFallbacks)
	assert.Equal(t, int64(1), snap.RateLimitRejections)
}

func TestCollectorStartStopSamplesSystemMetrics(t *testing.T) {
	c := NewCollector()
	c.Start(5 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	c.Stop()

	assert.NotZero(t, c.Snapshot().GoroutineCount)
}
