package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ttabscan/internal/classify"
	"ttabscan/internal/config"
	"ttabscan/internal/docket"
	"ttabscan/internal/logging"
	"ttabscan/internal/markcache"
	"ttabscan/internal/services"
	"ttabscan/internal/tsdr"
	"ttabscan/internal/ttab"
)

// DocketSource serves proceeding and search pages.
type DocketSource interface {
	Case(ctx context.Context, caseID, proceedingType string) (docket.Case, error)
	Listing(ctx context.Context, partyName string, page int) (docket.Listing, error)
}

// StatusSource serves class data and drawing images for a serial.
type StatusSource interface {
	Classes(ctx context.Context, serial string) (tsdr.ClassData, error)
	Image(ctx context.Context, serial string) ([]byte, error)
}

// Classifier decides the mark type for a drawing payload.
type Classifier interface {
	Classify(ctx context.Context, image []byte) classify.Result
}

// Pipeline drives the acquisition run: search, sequential case processing
// with pacing delays, cache-first mark enrichment, and consolidation.
type Pipeline struct {
	docket     DocketSource
	status     StatusSource
	classifier Classifier
	cache      *markcache.Store
	logger     *slog.Logger

	markDelay time.Duration
	pageDelay time.Duration
	maxPages  int
	cacheTTL  time.Duration

	sleep func(context.Context, time.Duration)
	now   func() time.Time
}

// New wires a pipeline from its collaborators. cache may be nil, in which
// case every mark is enriched from the live services.
func New(cfg config.Pipeline, cacheCfg config.Cache, dockets DocketSource, status StatusSource, classifier Classifier, cache *markcache.Store, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		docket:     dockets,
		status:     status,
		classifier: classifier,
		cache:      cache,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		markDelay:  time.Duration(cfg.MarkDelayMS) * time.Millisecond,
		pageDelay:  time.Duration(cfg.PageDelayMS) * time.Millisecond,
		maxPages:   cfg.MaxSearchPages,
		cacheTTL:   time.Duration(cacheCfg.TTLDays) * 24 * time.Hour,
		sleep:      sleepContext,
		now:        time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (p *Pipeline) SetClock(now func() time.Time) { p.now = now }

// SetSleeper overrides pacing sleeps. Tests only.
func (p *Pipeline) SetSleeper(sleep func(context.Context, time.Duration)) { p.sleep = sleep }

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Search walks the party search results page by page, keeping opposition
// proceedings within the optional date bounds. Pagination stops at the
// configured page cap, when no next-page link exists, or when a page
// contributes nothing new.
func (p *Pipeline) Search(ctx context.Context, partyName string, opts SearchOptions) ([]docket.ListingEntry, error) {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = p.maxPages
	}

	seen := make(map[string]struct{})
	var entries []docket.ListingEntry
	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		listing, err := p.docket.Listing(ctx, partyName, page)
		if err != nil {
			return entries, err
		}

		added := 0
		for _, entry := range listing.Entries {
			if entry.Type != ttab.DefaultProceedingType {
				continue
			}
			if _, dup := seen[entry.CaseID]; dup {
				continue
			}
			seen[entry.CaseID] = struct{}{}
			if !withinBounds(entry.Filed, opts.From, opts.To) {
				continue
			}
			entries = append(entries, entry)
			added++
		}

		p.logger.Debug("search page processed",
			logging.Int("page", page),
			logging.Int("added", added),
			logging.Bool("has_next", listing.HasNext))
		if !listing.HasNext {
			break
		}
		if added == 0 && len(listing.Entries) == 0 {
			break
		}
		p.sleep(ctx, p.pageDelay)
	}
	return entries, nil
}

func withinBounds(filed, from, to time.Time) bool {
	// Entries with no recognizable date pass only an unbounded search.
	if filed.IsZero() {
		return from.IsZero() && to.IsZero()
	}
	if !from.IsZero() && filed.Before(from) {
		return false
	}
	if !to.IsZero() && filed.After(to) {
		return false
	}
	return true
}

// Run processes the given proceedings sequentially and consolidates them
// against the queried party. A case that fails produces a failed row; the
// run keeps going.
func (p *Pipeline) Run(ctx context.Context, partyName string, caseIDs []string) (Report, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	start := p.now()
	p.logger.Info("run started",
		logging.String(logging.FieldRunID, runID),
		logging.String("party", partyName),
		logging.Int("cases", len(caseIDs)))

	report := Report{Stats: RunStats{RunID: runID}}
	for i, caseID := range caseIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if i > 0 {
			p.sleep(ctx, p.pageDelay)
		}

		record := p.processCase(services.WithCaseID(ctx, caseID), caseID, &report.Stats)
		report.Records = append(report.Records, record)
		report.Rows = append(report.Rows, Consolidate(record, partyName))
		report.Stats.Cases++
		if record.Status == StatusFailed {
			report.Stats.Failed++
		}
		report.Stats.Marks += len(record.Marks)
	}

	report.Stats.Elapsed = p.now().Sub(start)
	if report.Stats.Cases > 0 {
		report.Stats.AvgPerCase = report.Stats.Elapsed / time.Duration(report.Stats.Cases)
	}
	p.logger.Info("run finished",
		logging.String(logging.FieldRunID, runID),
		logging.Int("cases", report.Stats.Cases),
		logging.Int("failed", report.Stats.Failed),
		logging.Int("cache_hits", report.Stats.CacheHits),
		logging.Duration("elapsed", report.Stats.Elapsed))
	return report, nil
}

func (p *Pipeline) processCase(ctx context.Context, caseID string, stats *RunStats) CaseRecord {
	parsed, err := p.docket.Case(ctx, caseID, ttab.DefaultProceedingType)
	if err != nil {
		p.logger.Warn("case failed",
			logging.String(logging.FieldCaseID, caseID),
			logging.Error(err))
		return CaseRecord{
			Case:   docket.Case{CaseID: caseID},
			Status: StatusFailed,
			Err:    err.Error(),
		}
	}

	record := CaseRecord{Case: parsed, Status: StatusOK}
	for i, mark := range parsed.Marks {
		if i > 0 {
			p.sleep(ctx, p.markDelay)
		}
		record.Marks = append(record.Marks, p.enrichMark(services.WithSerial(ctx, mark.Serial), mark, stats))
	}
	return record
}

// enrichMark resolves one pleaded mark: cache first, then the status and
// drawing services plus the classifier. Serials the status service has no
// record for are never cached.
func (p *Pipeline) enrichMark(ctx context.Context, mark docket.Mark, stats *RunStats) MarkRecord {
	out := MarkRecord{Serial: mark.Serial, Name: mark.Name, Owner: mark.Owner}

	if p.cache != nil {
		cached, ok, err := p.cache.Lookup(ctx, mark.Serial, p.cacheTTL)
		if err != nil {
			p.logger.Warn("cache lookup failed",
				logging.String(logging.FieldSerial, mark.Serial),
				logging.Error(err))
		} else if ok {
			stats.CacheHits++
			out.MarkText = cached.MarkText
			out.Type = cached.MarkType
			out.Source = cached.Source
			out.FromCache = true
			if payload, err := decodeClasses(cached.Classes); err == nil {
				out.USClasses = payload.US
				out.IntlClasses = payload.Intl
				out.Description = payload.Description
				out.FilingDate = payload.FilingDate
			} else {
				p.logger.Warn("cached classes unreadable",
					logging.String(logging.FieldSerial, mark.Serial),
					logging.Error(err))
			}
			return out
		} else {
			stats.CacheMisses++
		}
	}

	cacheable := true
	classes, err := p.status.Classes(ctx, mark.Serial)
	switch {
	case err == nil:
		out.USClasses = classes.USCodes()
		out.IntlClasses = classes.IntlCodes()
		out.Description = classes.Description
		out.FilingDate = classes.FilingDate
	case errors.Is(err, services.ErrNotFound):
		cacheable = false
	default:
		p.logger.Warn("class fetch failed",
			logging.String(logging.FieldSerial, mark.Serial),
			logging.Error(err))
		out.Err = appendMarkError(out.Err, fmt.Sprintf("classes: %v", err))
		cacheable = false
	}

	// A drawing that cannot be downloaded is not a missing drawing: NoImage
	// is reserved for serials with no image on record, so a failed fetch
	// degrades to the stylized middle of the taxonomy instead.
	var result classify.Result
	image, err := p.status.Image(ctx, mark.Serial)
	if err != nil {
		p.logger.Warn("image fetch failed, using degraded default",
			logging.String(logging.FieldSerial, mark.Serial),
			logging.Error(err))
		result = classify.Result{Type: classify.StylizedOrDesign, Source: "default"}
		out.Err = appendMarkError(out.Err, fmt.Sprintf("image: %v", err))
		cacheable = false
	} else {
		result = p.classifier.Classify(ctx, image)
	}
	out.MarkText = result.MarkText
	out.Type = result.Type
	out.Source = result.Source

	if p.cache != nil && cacheable && out.Err == "" {
		encoded, err := encodeClasses(classes)
		if err == nil {
			err = p.cache.Put(ctx, markcache.Record{
				Serial:   mark.Serial,
				MarkText: result.MarkText,
				MarkType: result.Type,
				Classes:  encoded,
				Source:   result.Source,
			})
		}
		if err != nil {
			p.logger.Warn("cache write failed",
				logging.String(logging.FieldSerial, mark.Serial),
				logging.Error(err))
		}
	}
	return out
}

func appendMarkError(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + "; " + addition
}
