// Package markcache persists mark enrichment results in SQLite so repeat
// runs skip the expensive vision and classes lookups. Entries expire after a
// freshness window but are only removed by an explicit purge. The store also
// tracks hit/miss statistics and how many upstream calls the cache avoided.
package markcache
