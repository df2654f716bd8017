package ttab

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ttabscan/internal/config"
	"ttabscan/internal/docket"
	"ttabscan/internal/fetch"
	"ttabscan/internal/logging"
	"ttabscan/internal/services"
)

// DefaultProceedingType is assumed when the caller does not name one.
const DefaultProceedingType = "OPP"

// Client retrieves and parses proceeding and search pages from the docket
// source.
type Client struct {
	baseURL string
	http    *fetch.Client
	logger  *slog.Logger
}

// New constructs a docket source client from configuration. Extra fetch
// options are appended after the configured ones, so tests can override
// retry pacing.
func New(cfg config.TTAB, logger *slog.Logger, opts ...fetch.Option) *Client {
	options := []fetch.Option{
		fetch.WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
		fetch.WithRetryMaxAttempts(cfg.MaxAttempts),
	}
	options = append(options, opts...)
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    fetch.NewClient("ttab", options...),
		logger:  logging.NewComponentLogger(logger, "ttab"),
	}
}

// Case fetches and parses a single proceeding page.
func (c *Client) Case(ctx context.Context, caseID, proceedingType string) (docket.Case, error) {
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return docket.Case{}, services.Wrap(services.ErrValidation, "ttab", "case", "case id required", nil)
	}
	if proceedingType == "" {
		proceedingType = DefaultProceedingType
	}

	query := url.Values{}
	query.Set("pno", caseID)
	query.Set("pty", proceedingType)

	body, err := c.http.Get(ctx, c.baseURL+"/v?"+query.Encode(), nil)
	if err != nil {
		return docket.Case{}, services.Wrap(services.ErrTransient, "ttab", "case", "fetch case page", err)
	}

	parsed, err := docket.ParseCase(bytes.NewReader(body), caseID)
	if err != nil {
		return docket.Case{}, services.Wrap(services.ErrFatal, "ttab", "case", "parse case page", err)
	}
	c.logger.Debug("case page parsed",
		logging.String(logging.FieldCaseID, caseID),
		logging.Int("marks", len(parsed.Marks)))
	return parsed, nil
}

// Listing fetches and parses one page of party search results. Pages are
// 1-based.
func (c *Client) Listing(ctx context.Context, partyName string, page int) (docket.Listing, error) {
	partyName = strings.TrimSpace(partyName)
	if partyName == "" {
		return docket.Listing{}, services.Wrap(services.ErrValidation, "ttab", "listing", "party name required", nil)
	}
	if page < 1 {
		page = 1
	}

	query := url.Values{}
	query.Set("qt", "adv")
	query.Set("pn", partyName)
	query.Set("procstatus", "All")
	query.Set("page", strconv.Itoa(page))

	body, err := c.http.Get(ctx, c.baseURL+"/v?"+query.Encode(), nil)
	if err != nil {
		return docket.Listing{}, services.Wrap(services.ErrTransient, "ttab", "listing", "fetch listing page", err)
	}

	listing, err := docket.ParseListing(bytes.NewReader(body))
	if err != nil {
		return docket.Listing{}, services.Wrap(services.ErrFatal, "ttab", "listing", "parse listing page", err)
	}
	c.logger.Debug("listing page parsed",
		logging.String("party", partyName),
		logging.Int("page", page),
		logging.Int("entries", len(listing.Entries)))
	return listing, nil
}
