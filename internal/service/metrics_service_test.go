package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	metrics := NewMetricsService()

	metrics.ObserveHTTPRequest(http.MethodPost, "/api/v1/optimizations", http.StatusOK, 20*time.Millisecond)
	metrics.ObserveSearch(12, true, 10*time.Millisecond)
	metrics.ObserveSearch(5, false, 30*time.Millisecond)
	metrics.ObserveJob(models.OptimizationRunStatusCompleted)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.RequestsTotal)
	assert.InDelta(t, 20, snapshot.AverageRequestDurationMs, 1e-6)
	assert.Equal(t, uint64(2), snapshot.SearchesTotal)
	assert.Equal(t, uint64(1), snapshot.SearchesTruncated)
	assert.Equal(t, uint64(17), snapshot.SchedulesEvaluated)
	assert.InDelta(t, 20, snapshot.AverageSearchDurationMs, 1e-6)
	assert.Greater(t, snapshot.Goroutines, 0)
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveSearch(3, true, time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `timetable_searches_total{exhaustive="true"} 1`)
	assert.Contains(t, rec.Body.String(), "timetable_search_evaluated_schedules_count 1")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService

	metrics.ObserveSearch(1, true, time.Millisecond)
	metrics.ObserveJob(models.OptimizationRunStatusFailed)
	metrics.RecordCacheOperation(true, time.Millisecond)
	assert.Equal(t, models.ServiceMetrics{}, metrics.Snapshot())

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
