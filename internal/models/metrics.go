package models

import "time"

// ServiceMetrics is a lightweight JSON snapshot of process counters.
type ServiceMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	SearchesTotal            uint64    `json:"searchesTotal"`
	SearchesTruncated        uint64    `json:"searchesTruncated"`
	SchedulesEvaluated       uint64    `json:"schedulesEvaluated"`
	AverageSearchDurationMs  float64   `json:"averageSearchDurationMs"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
