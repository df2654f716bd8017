package tsdr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ttabscan/internal/config"
	"ttabscan/internal/fetch"
	"ttabscan/internal/logging"
	"ttabscan/internal/services"
)

// Class is one classification code with its description.
type Class struct {
	Code        string
	Description string
}

// ClassData is the status record for one serial: deduplicated class lists,
// the goods/services description, and the application filing date as the
// source reports it.
type ClassData struct {
	USClasses   []Class
	IntlClasses []Class
	Description string
	FilingDate  string
}

// USCodes returns the US class codes in first-seen order.
func (d ClassData) USCodes() []string {
	return codes(d.USClasses)
}

// IntlCodes returns the international class codes in first-seen order.
func (d ClassData) IntlCodes() []string {
	return codes(d.IntlClasses)
}

func codes(classes []Class) []string {
	out := make([]string, 0, len(classes))
	for _, class := range classes {
		out = append(out, class.Code)
	}
	return out
}

// Client talks to the trademark status and drawing image services.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	http         *fetch.Client
	logger       *slog.Logger
}

// New constructs a status client from configuration.
func New(cfg config.TSDR, logger *slog.Logger, opts ...fetch.Option) *Client {
	options := []fetch.Option{
		fetch.WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
		fetch.WithRetryMaxAttempts(cfg.MaxAttempts),
		fetch.WithRetryBackoff(time.Second, 60*time.Second),
	}
	options = append(options, opts...)
	return &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		http:         fetch.NewClient("tsdr", options...),
		logger:       logging.NewComponentLogger(logger, "tsdr"),
	}
}

type statusResponse struct {
	Trademarks []struct {
		Status struct {
			FilingDate string `json:"filingDate"`
		} `json:"status"`
		GSList []struct {
			Description string `json:"description"`
			USClasses   []struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"usClasses"`
			InternationalClasses []struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"internationalClasses"`
		} `json:"gsList"`
	} `json:"trademarks"`
}

// Classes fetches the status record for a serial. A payload with no
// trademark entry maps to services.ErrNotFound; callers treat that as
// empty data and must not cache it.
func (c *Client) Classes(ctx context.Context, serial string) (ClassData, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return ClassData{}, services.Wrap(services.ErrValidation, "tsdr", "classes", "serial required", nil)
	}

	url := fmt.Sprintf("%s/casestatus/sn%s/info.json", c.baseURL, serial)
	body, err := c.http.Get(ctx, url, c.header())
	if err != nil {
		return ClassData{}, services.Wrap(services.ErrTransient, "tsdr", "classes", "fetch status", err)
	}

	var parsed statusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ClassData{}, services.Wrap(services.ErrFatal, "tsdr", "classes", "decode status payload", err)
	}
	if len(parsed.Trademarks) == 0 {
		return ClassData{}, services.Wrap(services.ErrNotFound, "tsdr", "classes", "no trademark record for serial", nil)
	}

	trademark := parsed.Trademarks[0]
	data := ClassData{FilingDate: trademark.Status.FilingDate}

	seenUS := make(map[string]struct{})
	seenIntl := make(map[string]struct{})
	var descriptions []string
	for _, gs := range trademark.GSList {
		for _, class := range gs.USClasses {
			if _, dup := seenUS[class.Code]; dup {
				continue
			}
			seenUS[class.Code] = struct{}{}
			data.USClasses = append(data.USClasses, Class{Code: class.Code, Description: class.Description})
		}
		for _, class := range gs.InternationalClasses {
			if _, dup := seenIntl[class.Code]; dup {
				continue
			}
			seenIntl[class.Code] = struct{}{}
			data.IntlClasses = append(data.IntlClasses, Class{Code: class.Code, Description: class.Description})
		}
		if desc := strings.TrimSpace(gs.Description); desc != "" {
			descriptions = append(descriptions, desc)
		}
	}
	data.Description = strings.Join(descriptions, " | ")

	c.logger.Debug("status fetched",
		logging.String(logging.FieldSerial, serial),
		logging.Int("us_classes", len(data.USClasses)),
		logging.Int("intl_classes", len(data.IntlClasses)))
	return data, nil
}

// Image fetches the raw drawing image bytes for a serial. The format is
// determined by the caller from magic bytes, not from response headers.
func (c *Client) Image(ctx context.Context, serial string) ([]byte, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, services.Wrap(services.ErrValidation, "tsdr", "image", "serial required", nil)
	}
	body, err := c.http.Get(ctx, c.imageBaseURL+"/"+serial, c.header())
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "tsdr", "image", "fetch image", err)
	}
	return body, nil
}

func (c *Client) header() http.Header {
	if c.apiKey == "" {
		return nil
	}
	header := http.Header{}
	header.Set("USPTO-API-KEY", c.apiKey)
	return header
}
