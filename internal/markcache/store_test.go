package markcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ttabscan/internal/classify"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "marks.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutThenLookupRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := Record{
		Serial:   "88123456",
		MarkText: "ROCKET FUEL",
		MarkType: classify.Slogan,
		Classes:  "032: Energy drinks | 025: Clothing",
		Source:   "vision",
	}
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, ok, err := store.Lookup(ctx, "88123456", 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.MarkText != rec.MarkText || got.MarkType != rec.MarkType || got.Classes != rec.Classes {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.FetchCount != 1 {
		t.Fatalf("fetch count = %d, want 1", got.FetchCount)
	}
}

func TestLookupMissForUnknownSerial(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.Lookup(context.Background(), "99999999", time.Hour)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if ok {
		t.Fatal("expected miss for unknown serial")
	}
}

func TestExpiredEntryIsMiss(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return current })

	if err := store.Put(ctx, Record{Serial: "88000001", MarkType: classify.StandardText}); err != nil {
		t.Fatal(err)
	}

	current = current.Add(31 * 24 * time.Hour)
	_, ok, err := store.Lookup(ctx, "88000001", 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if ok {
		t.Fatal("expected expired entry to miss")
	}

	// The stale row stays until refreshed or purged.
	serials, err := store.Serials(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(serials) != 1 {
		t.Fatalf("serials = %v, want stale entry retained", serials)
	}
}

func TestEntryExactlyTTLOldIsStale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return current })

	if err := store.Put(ctx, Record{Serial: "88000008", MarkType: classify.StandardText}); err != nil {
		t.Fatal(err)
	}

	ttl := 30 * 24 * time.Hour
	current = current.Add(ttl - time.Second)
	if _, ok, err := store.Lookup(ctx, "88000008", ttl); err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	} else if !ok {
		t.Fatal("expected hit just inside ttl")
	}

	// An entry whose age equals the ttl has already expired.
	current = current.Add(time.Second)
	if _, ok, err := store.Lookup(ctx, "88000008", ttl); err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	} else if ok {
		t.Fatal("expected miss at exactly ttl age")
	}
}

func TestRefreshRestartsTTLAndBumpsFetchCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return current })

	rec := Record{Serial: "88000002", MarkText: "OLD", MarkType: classify.StandardText}
	if err := store.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}

	current = current.Add(40 * 24 * time.Hour)
	rec.MarkText = "NEW"
	if err := store.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, ok, err := store.Lookup(ctx, "88000002", 30*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected hit after refresh")
	}
	if got.MarkText != "NEW" {
		t.Fatalf("mark text = %q, want NEW", got.MarkText)
	}
	if got.FetchCount != 2 {
		t.Fatalf("fetch count = %d, want 2", got.FetchCount)
	}
}

func TestPurgeStaleRemovesOnlyExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return current })
	if err := store.Put(ctx, Record{Serial: "88000003", MarkType: classify.NoImage}); err != nil {
		t.Fatal(err)
	}

	current = current.Add(20 * 24 * time.Hour)
	if err := store.Put(ctx, Record{Serial: "88000004", MarkType: classify.NoImage}); err != nil {
		t.Fatal(err)
	}

	current = current.Add(15 * 24 * time.Hour)
	removed, err := store.PurgeStale(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("PurgeStale returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	serials, err := store.Serials(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(serials) != 1 || serials[0] != "88000004" {
		t.Fatalf("serials = %v, want only fresh entry", serials)
	}
}

func TestStatisticsTrackLookupsAndSavings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, Record{Serial: "88000005", MarkType: classify.StandardText}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.Lookup(ctx, "88000005", time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.Lookup(ctx, "88000005", time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.Lookup(ctx, "77777777", time.Hour); err != nil {
		t.Fatal(err)
	}

	stats, err := store.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics returned error: %v", err)
	}
	if stats.Entries != 1 {
		t.Fatalf("entries = %d, want 1", stats.Entries)
	}
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Fatalf("hits/misses = %d/%d, want 2/1", stats.Hits, stats.Misses)
	}
	if stats.Inserts != 1 {
		t.Fatalf("inserts = %d, want 1", stats.Inserts)
	}
	if stats.VisionCallsSaved != 2 || stats.TSDRCallsSaved != 2 {
		t.Fatalf("calls saved = %d/%d, want 2/2", stats.VisionCallsSaved, stats.TSDRCallsSaved)
	}
	if got := stats.HitRate(); got < 0.66 || got > 0.67 {
		t.Fatalf("hit rate = %f, want ~0.667", got)
	}
}

func TestClearResetsEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, Record{Serial: "88000006", MarkType: classify.StandardText}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.Lookup(ctx, "88000006", time.Hour); err != nil {
		t.Fatal(err)
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	stats, err := store.Statistics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 0 || stats.Hits != 0 || stats.VisionCallsSaved != 0 {
		t.Fatalf("expected reset statistics, got %+v", stats)
	}
}

func TestPutRejectsInvalidMarkType(t *testing.T) {
	store := newTestStore(t)
	err := store.Put(context.Background(), Record{Serial: "88000007", MarkType: classify.MarkType(9)})
	if err == nil {
		t.Fatal("expected error for invalid mark type")
	}
}

func TestSchemaMismatchDetected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marks.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	_, err = Open(path)
	if err == nil {
		t.Fatal("expected schema mismatch error")
	}
}
