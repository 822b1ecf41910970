package tracker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicanaksel/Cineseek/pkg/models"
)

func newTestTracker(t *testing.T) *SQLiteTracker {
	t.Helper()
	tr, err := New(filepath.Join(t.TempDir(), "tracker_test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func record(op, cacheStatus, outcome string, latency int64) models.RequestRecord {
	return models.RequestRecord{
		Operation:   op,
		Query:       "batman",
		CacheStatus: cacheStatus,
		Outcome:     outcome,
		LatencyMs:   latency,
		RequestID:   "req-1",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestRecordAndSummary(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	recs := []models.RequestRecord{
		record("search", models.CacheMiss, models.OutcomeOK, 120),
		record("search", models.CacheHit, models.OutcomeOK, 2),
		record("search", models.CacheMiss, models.OutcomeError, 400),
		record("title", models.CacheHit, models.OutcomeOK, 1),
	}
	for _, r := range recs {
		if err := tr.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	sums, err := tr.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(sums))
	}

	// Ordered by request count: search first.
	s := sums[0]
	if s.Operation != "search" {
		t.Fatalf("expected search first, got %s", s.Operation)
	}
	if s.Requests != 3 {
		t.Errorf("expected 3 requests, got %d", s.Requests)
	}
	if s.CacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %d", s.CacheHits)
	}
	if s.Failures != 1 {
		t.Errorf("expected 1 failure, got %d", s.Failures)
	}
	if s.AvgLatencyMs < 173 || s.AvgLatencyMs > 175 {
		t.Errorf("unexpected avg latency: %f", s.AvgLatencyMs)
	}
}

func TestSummaryEmpty(t *testing.T) {
	tr := newTestTracker(t)

	sums, err := tr.Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 0 {
		t.Errorf("expected no summaries, got %d", len(sums))
	}
}
