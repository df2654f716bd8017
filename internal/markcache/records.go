package markcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ttabscan/internal/classify"
)

// Record is one cached mark enrichment result.
type Record struct {
	Serial     string
	MarkText   string
	MarkType   classify.MarkType
	Classes    string
	Source     string
	FetchedAt  time.Time
	UpdatedAt  time.Time
	FetchCount int64
}

const (
	eventHit    = "hit"
	eventMiss   = "miss"
	eventStale  = "stale"
	eventInsert = "insert"
	eventUpdate = "update"
)

// Lookup returns the cached record for serial if it exists and was fetched
// within ttl. Expired entries count as misses and remain in place until
// refreshed or purged. Hits also bump the calls-saved counters, since a hit
// spares one vision call and one classes fetch.
func (s *Store) Lookup(ctx context.Context, serial string, ttl time.Duration) (Record, bool, error) {
	ctx = ensureContext(ctx)
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return Record{}, false, errors.New("markcache lookup: serial required")
	}
	start := s.now()

	row := s.db.QueryRowContext(ctx, `
SELECT serial, mark_text, mark_type, classes, source, fetched_at, updated_at, fetch_count
FROM marks WHERE serial = ?`, serial)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		s.recordEvent(ctx, eventMiss, serial, s.now().Sub(start))
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("markcache lookup: %w", err)
	}

	if ttl > 0 && s.now().Sub(rec.FetchedAt) >= ttl {
		s.recordEvent(ctx, eventStale, serial, s.now().Sub(start))
		return Record{}, false, nil
	}

	s.recordEvent(ctx, eventHit, serial, s.now().Sub(start))
	s.bumpCounter(ctx, "vision_calls_saved", 1)
	s.bumpCounter(ctx, "tsdr_calls_saved", 1)
	return rec, true, nil
}

// Put inserts or refreshes the record for rec.Serial. On refresh the fetch
// count is incremented and fetched_at is reset, restarting the TTL window.
func (s *Store) Put(ctx context.Context, rec Record) error {
	ctx = ensureContext(ctx)
	rec.Serial = strings.TrimSpace(rec.Serial)
	if rec.Serial == "" {
		return errors.New("markcache put: serial required")
	}
	if !rec.MarkType.Valid() {
		return fmt.Errorf("markcache put: invalid mark type %d", rec.MarkType)
	}
	now := s.now().UTC()

	var exists int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM marks WHERE serial = ?", rec.Serial,
	).Scan(&exists); err != nil {
		return fmt.Errorf("markcache put: %w", err)
	}

	_, err := s.execWithRetry(ctx, `
INSERT INTO marks (serial, mark_text, mark_type, classes, source, fetched_at, updated_at, fetch_count)
VALUES (?, ?, ?, ?, ?, ?, ?, 1)
ON CONFLICT(serial) DO UPDATE SET
    mark_text   = excluded.mark_text,
    mark_type   = excluded.mark_type,
    classes     = excluded.classes,
    source      = excluded.source,
    fetched_at  = excluded.fetched_at,
    updated_at  = excluded.updated_at,
    fetch_count = marks.fetch_count + 1`,
		rec.Serial, rec.MarkText, int(rec.MarkType), rec.Classes, rec.Source,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("markcache put: %w", err)
	}

	if exists > 0 {
		s.recordEvent(ctx, eventUpdate, rec.Serial, 0)
	} else {
		s.recordEvent(ctx, eventInsert, rec.Serial, 0)
	}
	return nil
}

// PurgeStale deletes entries older than ttl and returns how many were removed.
func (s *Store) PurgeStale(ctx context.Context, ttl time.Duration) (int64, error) {
	ctx = ensureContext(ctx)
	if ttl <= 0 {
		return 0, errors.New("markcache purge: ttl must be positive")
	}
	cutoff := s.now().UTC().Add(-ttl)
	res, err := s.execWithRetry(ctx,
		"DELETE FROM marks WHERE fetched_at < ?", cutoff.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("markcache purge: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every cached mark and returns how many were removed.
// Statistics and counters are reset as well.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, "DELETE FROM marks")
	if err != nil {
		return 0, fmt.Errorf("markcache clear: %w", err)
	}
	if _, err := s.execWithRetry(ctx, "DELETE FROM cache_events"); err != nil {
		return 0, fmt.Errorf("markcache clear events: %w", err)
	}
	if _, err := s.execWithRetry(ctx, "UPDATE cache_counters SET value = 0"); err != nil {
		return 0, fmt.Errorf("markcache clear counters: %w", err)
	}
	return res.RowsAffected()
}

// Serials returns every cached serial number in ascending order.
func (s *Store) Serials(ctx context.Context) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT serial FROM marks ORDER BY serial")
	if err != nil {
		return nil, fmt.Errorf("markcache serials: %w", err)
	}
	defer rows.Close()

	var serials []string
	for rows.Next() {
		var serial string
		if err := rows.Scan(&serial); err != nil {
			return nil, err
		}
		serials = append(serials, serial)
	}
	return serials, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec       Record
		markType  int
		fetchedAt string
		updatedAt string
	)
	if err := row.Scan(&rec.Serial, &rec.MarkText, &markType, &rec.Classes,
		&rec.Source, &fetchedAt, &updatedAt, &rec.FetchCount); err != nil {
		return Record{}, err
	}
	rec.MarkType = classify.MarkType(markType)
	var err error
	if rec.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt); err != nil {
		return Record{}, fmt.Errorf("parse fetched_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return Record{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return rec, nil
}
