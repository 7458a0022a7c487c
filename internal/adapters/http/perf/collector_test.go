package perf

import (
	"sync"
	"testing"
	"time"
)

// TestCollector_Snapshot separates requests from queries and counts server errors.
func TestCollector_Snapshot(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "POST /session/start", StatusCode: 201, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "POST /session/start", StatusCode: 500, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "INSERT session", DurationMs: 5, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRequests != 2 || snap.TotalQueries != 1 {
		t.Errorf("totals = %d requests, %d queries; want 2, 1", snap.TotalRequests, snap.TotalQueries)
	}
	if len(snap.SlowestPaths) != 1 {
		t.Fatalf("SlowestPaths len = %d, want 1", len(snap.SlowestPaths))
	}
	p := snap.SlowestPaths[0]
	if p.AvgMs != 20 || p.MaxMs != 30 || p.ServerErrors != 1 {
		t.Errorf("path stat = %+v", p)
	}
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Path != "INSERT session" {
		t.Errorf("SlowestQueries = %+v", snap.SlowestQueries)
	}
}

// TestCollector_RingBuffer_Overwrites verifies oldest entries are overwritten when full.
func TestCollector_RingBuffer_Overwrites(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /dashboard/{userId}", DurationMs: float64(i), Timestamp: now})
	}
	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.SlowestPaths[0].Count != 3 {
		t.Errorf("Count = %d, want 3", snap.SlowestPaths[0].Count)
	}
	if snap.SlowestPaths[0].AvgMs != 3 {
		t.Errorf("AvgMs = %v, want 3 (entries 2,3,4)", snap.SlowestPaths[0].AvgMs)
	}
}

// TestCollector_Percentiles verifies P50/P95/P99 calculation.
func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /p", DurationMs: float64(i), Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	checks := []struct {
		name     string
		got      float64
		min, max float64
	}{
		{"p50", snap.RequestP50Ms, 49, 51},
		{"p95", snap.RequestP95Ms, 94, 96},
		{"p99", snap.RequestP99Ms, 98, 100},
	}
	for _, ch := range checks {
		if ch.got < ch.min || ch.got > ch.max {
			t.Errorf("%s = %v, want within [%v, %v]", ch.name, ch.got, ch.min, ch.max)
		}
	}
}

// TestCollector_Snapshot_FiltersBySince verifies old entries are excluded and ties sort by path.
func TestCollector_Snapshot_FiltersBySince(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	c.Record(Entry{Kind: KindRequest, Path: "GET /old", DurationMs: 100, Timestamp: now.Add(-2 * time.Hour)})
	c.Record(Entry{Kind: KindRequest, Path: "GET /b", DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /a", DurationMs: 10, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Hour), 10)
	if len(snap.SlowestPaths) != 2 {
		t.Fatalf("SlowestPaths len = %d, want 2", len(snap.SlowestPaths))
	}
	if snap.SlowestPaths[0].Path != "GET /a" {
		t.Errorf("first path = %q, want GET /a", snap.SlowestPaths[0].Path)
	}
}

// TestCollector_ConcurrentWrites verifies goroutine safety of Record.
func TestCollector_ConcurrentWrites(t *testing.T) {
	c := NewCollector(1000)
	now := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				kind := KindRequest
				if j%2 == 0 {
					kind = KindQuery
				}
				c.Record(Entry{Kind: kind, Path: "x", DurationMs: float64(n), Timestamp: now})
			}
		}(i)
	}
	wg.Wait()
	if c.TotalRecorded() != 500 {
		t.Errorf("TotalRecorded = %d, want 500", c.TotalRecorded())
	}
}

// BenchmarkCollectorRecord measures per-call cost of Record.
func BenchmarkCollectorRecord(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	e := Entry{Kind: KindRequest, Path: "POST /session/measurement", StatusCode: 200, DurationMs: 1.5, Timestamp: time.Now()}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Record(e)
	}
}
