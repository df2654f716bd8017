package markcache

import (
	"context"
	"fmt"
	"time"
)

// Statistics aggregates cache effectiveness counters.
type Statistics struct {
	Entries          int64
	Hits             int64
	Misses           int64
	Stale            int64
	Inserts          int64
	Updates          int64
	VisionCallsSaved int64
	TSDRCallsSaved   int64
	AvgLookupMS      float64
}

// HitRate returns hits / (hits + misses + stale), or 0 when no lookups happened.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses + s.Stale
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Statistics returns aggregate counters for diagnostic output.
func (s *Store) Statistics(ctx context.Context) (Statistics, error) {
	ctx = ensureContext(ctx)
	var stats Statistics

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM marks").Scan(&stats.Entries); err != nil {
		return Statistics{}, fmt.Errorf("markcache stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT event, COUNT(1), COALESCE(AVG(latency_ms), 0) FROM cache_events GROUP BY event")
	if err != nil {
		return Statistics{}, fmt.Errorf("markcache stats: %w", err)
	}
	defer rows.Close()

	var lookupLatencySum float64
	var lookupCount int64
	for rows.Next() {
		var event string
		var count int64
		var avgLatency float64
		if err := rows.Scan(&event, &count, &avgLatency); err != nil {
			return Statistics{}, err
		}
		switch event {
		case eventHit:
			stats.Hits = count
		case eventMiss:
			stats.Misses = count
		case eventStale:
			stats.Stale = count
		case eventInsert:
			stats.Inserts = count
		case eventUpdate:
			stats.Updates = count
		}
		switch event {
		case eventHit, eventMiss, eventStale:
			lookupLatencySum += avgLatency * float64(count)
			lookupCount += count
		}
	}
	if err := rows.Err(); err != nil {
		return Statistics{}, err
	}
	if lookupCount > 0 {
		stats.AvgLookupMS = lookupLatencySum / float64(lookupCount)
	}

	counters, err := s.db.QueryContext(ctx, "SELECT name, value FROM cache_counters")
	if err != nil {
		return Statistics{}, fmt.Errorf("markcache stats: %w", err)
	}
	defer counters.Close()
	for counters.Next() {
		var name string
		var value int64
		if err := counters.Scan(&name, &value); err != nil {
			return Statistics{}, err
		}
		switch name {
		case "vision_calls_saved":
			stats.VisionCallsSaved = value
		case "tsdr_calls_saved":
			stats.TSDRCallsSaved = value
		}
	}
	return stats, counters.Err()
}

// recordEvent appends a cache event row. Best effort: statistics must never
// fail a lookup.
func (s *Store) recordEvent(ctx context.Context, event, serial string, latency time.Duration) {
	_, _ = s.execWithRetry(ctx,
		"INSERT INTO cache_events (event, serial, latency_ms, created_at) VALUES (?, ?, ?, ?)",
		event, serial, float64(latency)/float64(time.Millisecond),
		s.now().UTC().Format(time.RFC3339Nano))
}

func (s *Store) bumpCounter(ctx context.Context, name string, delta int64) {
	_, _ = s.execWithRetry(ctx,
		"UPDATE cache_counters SET value = value + ? WHERE name = ?", delta, name)
}
