package vision

import (
	"bytes"
	"context"
	"encoding/base64"
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

const (
	apiVersion = "2023-06-01"

	// firstAttemptDelay throttles the steady-state request rate: the
	// classifier is the most expensive endpoint, so every call pays a small
	// toll even when the service is healthy.
	firstAttemptDelay = 500 * time.Millisecond

	retryBaseDelay = 3 * time.Second
	retryMaxDelay  = 60 * time.Second
)

// Prompt is the structured instruction sent with every drawing image. The
// response parser depends on the labeled lines it requests.
const Prompt = `Analyze this trademark image and provide:
1. All text detected in the image (word for word)
2. Whether there are any logos, symbols, or graphic design elements
3. Visual characteristics: font styling, colors, decorative elements, shapes, patterns
4. Overall visual complexity (simple/moderate/complex)

Format your response as:
TEXT: [all text found]
HAS_LOGO: [yes/no]
HAS_DESIGN: [yes/no]
VISUAL_ELEMENTS: [list of visual characteristics]
COMPLEXITY: [simple/moderate/complex]`

// Client submits drawing images to the vision model and returns its
// structured description.
type Client struct {
	cfg       config.Vision
	http      *fetch.Client
	logger    *slog.Logger
	sleeper   func(time.Duration)
	fetchOpts []fetch.Option
}

// Option customizes the client.
type Option func(*Client)

// WithSleeper overrides how the first-attempt delay is performed.
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleeper = sleeper
		}
	}
}

// WithFetchOptions appends options to the underlying HTTP executor.
func WithFetchOptions(opts ...fetch.Option) Option {
	return func(c *Client) {
		c.fetchOpts = append(c.fetchOpts, opts...)
	}
}

// New constructs a vision client from configuration.
func New(cfg config.Vision, logger *slog.Logger, opts ...Option) *Client {
	client := &Client{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "vision"),
		sleeper: func(d time.Duration) {
			time.Sleep(d)
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	options := []fetch.Option{
		fetch.WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
		fetch.WithRetryMaxAttempts(cfg.MaxAttempts),
		fetch.WithRetryBackoff(retryBaseDelay, retryMaxDelay),
	}
	options = append(options, client.fetchOpts...)
	client.http = fetch.NewClient("vision", options...)
	return client
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Describe submits the image and returns the parsed observation. Transient
// service failures are retried up to the configured bound; exhaustion
// surfaces as an error for the caller's degraded-default handling.
func (c *Client) Describe(ctx context.Context, image []byte, mediaType string) (Observation, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return Observation{}, services.Wrap(services.ErrConfiguration, "vision", "describe", "api key required", nil)
	}
	if len(image) == 0 {
		return Observation{}, services.Wrap(services.ErrValidation, "vision", "describe", "image required", nil)
	}

	payload := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{
					Type: "image",
					Source: &imageSource{
						Type:      "base64",
						MediaType: mediaType,
						Data:      base64.StdEncoding.EncodeToString(image),
					},
				},
				{Type: "text", Text: Prompt},
			},
		}},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return Observation{}, services.Wrap(services.ErrFatal, "vision", "describe", "encode request", err)
	}

	c.sleeper(firstAttemptDelay)

	body, err := c.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
		if err != nil {
			return nil, fmt.Errorf("vision request: new request: %w", err)
		}
		req.Header.Set("x-api-key", c.cfg.APIKey)
		req.Header.Set("anthropic-version", apiVersion)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return Observation{}, services.Wrap(services.ErrTransient, "vision", "describe", "classification call", err)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Observation{}, services.Wrap(services.ErrFatal, "vision", "describe", "decode response", err)
	}
	if parsed.Error != nil {
		return Observation{}, services.Wrap(services.ErrTransient, "vision", "describe",
			fmt.Sprintf("api error: %s", parsed.Error.Message), nil)
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return Observation{}, services.Wrap(services.ErrFatal, "vision", "describe", "empty response content", nil)
	}

	obs := ParseObservation(text)
	c.logger.Debug("image described",
		logging.Int("labels", len(obs.Labels)),
		logging.Bool("has_logo", obs.HasLogo))
	return obs, nil
}
