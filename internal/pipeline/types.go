package pipeline

import (
	"time"

	"ttabscan/internal/classify"
	"ttabscan/internal/docket"
)

// CaseStatus reports whether a case made it through the run.
type CaseStatus string

const (
	StatusOK     CaseStatus = "ok"
	StatusFailed CaseStatus = "failed"
)

// MarkRecord is one pleaded mark after enrichment: docket identity, class
// data from the status service, and the classifier's verdict.
type MarkRecord struct {
	Serial      string
	Name        string
	Owner       docket.Role
	MarkText    string
	Type        classify.MarkType
	USClasses   []string
	IntlClasses []string
	Description string
	FilingDate  string
	Source      string
	FromCache   bool
	// Err carries enrichment failures (class fetch, image download) as
	// data; the mark still appears in the report.
	Err string
}

// CaseRecord is one processed proceeding. A failed case keeps its identity
// and the error text; the run carries on.
type CaseRecord struct {
	Case   docket.Case
	Marks  []MarkRecord
	Status CaseStatus
	Err    string
}

// ConsolidatedRow flattens a case into one report line.
type ConsolidatedRow struct {
	CaseID          string
	Plaintiff       string
	Defendant       string
	PartyRole       docket.Role
	FilingDate      string
	TerminationDate string
	Outcome         docket.Outcome
	Serials         string
	MarkNames       string
	USClasses       string
	IntlClasses     string
	UniqueClasses   int
	TotalClasses    int
	MarkTypeCounts  map[classify.MarkType]int
	// MarkErrors joins per-mark enrichment failures as "serial: error".
	MarkErrors string
	Status     CaseStatus
	Err        string
}

// RunStats aggregates one pipeline run.
type RunStats struct {
	RunID       string
	Cases       int
	Failed      int
	Marks       int
	CacheHits   int
	CacheMisses int
	Elapsed     time.Duration
	AvgPerCase  time.Duration
}

// HitRate is the fraction of mark lookups served from cache.
func (s RunStats) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// Report is the complete output of a run: per-case detail, the flattened
// rows, and the aggregates.
type Report struct {
	Records []CaseRecord
	Rows    []ConsolidatedRow
	Stats   RunStats
}

// SearchOptions bound a party search. Zero time bounds mean unbounded;
// MaxPages zero means the configured default.
type SearchOptions struct {
	From     time.Time
	To       time.Time
	MaxPages int
}
