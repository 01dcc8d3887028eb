package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/service"
)

func TestMetricsHandlerReady(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{
		"postgres": PingFunc(func(ctx context.Context) error { return nil }),
	})
	c, w := newTestContext(http.MethodGet, "/ready", nil, "")
	h.Ready(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"postgres":"ok"}}`, w.Body.String())

	h = NewMetricsHandler(nil, map[string]Pinger{
		"postgres": PingFunc(func(ctx context.Context) error { return nil }),
		"redis":    PingFunc(func(ctx context.Context) error { return errors.New("connection refused") }),
	})
	c, w = newTestContext(http.MethodGet, "/ready", nil, "")
	h.Ready(c)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"postgres":"ok","redis":"connection refused"}}`, w.Body.String())
}

func TestMetricsHandlerSummaryAndPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.ObserveSearch(4, true, time.Millisecond)
	h := NewMetricsHandler(metrics, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/metrics/summary", nil, "")
	h.Summary(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"schedulesEvaluated":4`)

	c, w = newTestContext(http.MethodGet, "/metrics", nil, "")
	h.Prometheus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "timetable_searches_total")

	c, w = newTestContext(http.MethodGet, "/health", nil, "")
	h.Health(c)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
