package service

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	searchDuration  *prometheus.HistogramVec
	searchTotal     *prometheus.CounterVec
	searchEvaluated prometheus.Histogram
	jobsTotal       *prometheus.CounterVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	searchCount          uint64
	searchTruncated      uint64
	searchEvaluatedTotal uint64
	searchDurationTotal  uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	searchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_search_duration_seconds",
		Help:    "Wall time of combination searches",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60},
	}, []string{"exhaustive"})

	searchTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_searches_total",
		Help: "Total combination searches by completion",
	}, []string{"exhaustive"})

	searchEvaluated := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_search_evaluated_schedules",
		Help:    "Complete schedules scored per search",
		Buckets: prometheus.ExponentialBuckets(1, 10, 9),
	})

	jobsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_jobs_total",
		Help: "Async optimization jobs by final status",
	}, []string{"status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		searchDuration, searchTotal, searchEvaluated, jobsTotal, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		searchDuration:  searchDuration,
		searchTotal:     searchTotal,
		searchEvaluated: searchEvaluated,
		jobsTotal:       jobsTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveSearch records one completed combination search.
func (m *MetricsService) ObserveSearch(evaluated int64, exhaustive bool, duration time.Duration) {
	if m == nil {
		return
	}
	label := strconv.FormatBool(exhaustive)
	m.searchDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.searchTotal.WithLabelValues(label).Inc()
	m.searchEvaluated.Observe(float64(evaluated))
	atomic.AddUint64(&m.searchCount, 1)
	if !exhaustive {
		atomic.AddUint64(&m.searchTruncated, 1)
	}
	if evaluated > 0 {
		atomic.AddUint64(&m.searchEvaluatedTotal, uint64(evaluated))
	}
	atomic.AddUint64(&m.searchDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveJob counts an async job reaching a terminal status.
func (m *MetricsService) ObserveJob(status models.OptimizationRunStatus) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(string(status)).Inc()
}

// Snapshot returns aggregated metrics for the JSON summary endpoint.
func (m *MetricsService) Snapshot() models.ServiceMetrics {
	if m == nil {
		return models.ServiceMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	searches := atomic.LoadUint64(&m.searchCount)
	searchDuration := atomic.LoadUint64(&m.searchDurationTotal)

	var cacheRatio float64
	if totalLookups := hits + misses; totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgSearchMs float64
	if searches > 0 {
		avgSearchMs = float64(searchDuration) / float64(searches) / float64(time.Millisecond)
	}

	return models.ServiceMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		SearchesTotal:            searches,
		SearchesTruncated:        atomic.LoadUint64(&m.searchTruncated),
		SchedulesEvaluated:       atomic.LoadUint64(&m.searchEvaluatedTotal),
		AverageSearchDurationMs:  avgSearchMs,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
