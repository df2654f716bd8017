// Package pipeline sequences an acquisition run end to end: party search
// with bounded pagination, strictly sequential case and mark processing
// with pacing delays, cache-first mark enrichment, per-case failure
// isolation, and consolidation into report rows with run aggregates.
package pipeline
