package models

import "time"

// Cache status values recorded per logical operation.
const (
	CacheHit      = "hit"
	CacheMiss     = "miss"
	CacheBypassed = "bypass"
)

// Outcome values recorded per logical operation.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// RequestRecord is one row of the request log: a single logical
// operation resolved end-to-end.
type RequestRecord struct {
	Operation   string    `json:"operation"`
	Query       string    `json:"query"`
	CacheStatus string    `json:"cache_status"`
	Outcome     string    `json:"outcome"`
	LatencyMs   int64     `json:"latency_ms"`
	RequestID   string    `json:"request_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// OperationSummary aggregates the request log per operation.
type OperationSummary struct {
	Operation    string    `json:"operation"`
	Requests     int64     `json:"requests"`
	CacheHits    int64     `json:"cache_hits"`
	Failures     int64     `json:"failures"`
	AvgLatencyMs float64   `json:"avg_latency_ms"`
	LastSeen     time.Time `json:"last_seen"`
}
