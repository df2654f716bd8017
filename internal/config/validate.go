package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTTAB(); err != nil {
		return err
	}
	if err := c.validateTSDR(); err != nil {
		return err
	}
	if err := c.validateVision(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTTAB() error {
	if err := validateHTTPURL("ttab.base_url", c.TTAB.BaseURL); err != nil {
		return err
	}
	return ensurePositiveMap(map[string]int{
		"ttab.timeout_seconds": c.TTAB.TimeoutSeconds,
		"ttab.max_attempts":    c.TTAB.MaxAttempts,
	})
}

func (c *Config) validateTSDR() error {
	if err := validateHTTPURL("tsdr.base_url", c.TSDR.BaseURL); err != nil {
		return err
	}
	if err := validateHTTPURL("tsdr.image_base_url", c.TSDR.ImageBaseURL); err != nil {
		return err
	}
	return ensurePositiveMap(map[string]int{
		"tsdr.timeout_seconds": c.TSDR.TimeoutSeconds,
		"tsdr.max_attempts":    c.TSDR.MaxAttempts,
	})
}

func (c *Config) validateVision() error {
	if !c.Vision.Enabled {
		return nil
	}
	if c.Vision.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/ttabscan/config.toml"
		}
		return fmt.Errorf("vision.api_key is required when vision.enabled is true. Set ANTHROPIC_API_KEY env var or edit %s (create with 'ttabscan config init')", defaultPath)
	}
	if err := validateHTTPURL("vision.base_url", c.Vision.BaseURL); err != nil {
		return err
	}
	if strings.TrimSpace(c.Vision.Model) == "" {
		return errors.New("vision.model must be set when vision.enabled is true")
	}
	return ensurePositiveMap(map[string]int{
		"vision.timeout_seconds": c.Vision.TimeoutSeconds,
		"vision.max_attempts":    c.Vision.MaxAttempts,
		"vision.max_tokens":      c.Vision.MaxTokens,
	})
}

func (c *Config) validateCache() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		return errors.New("cache.path must be set")
	}
	if c.Cache.TTLDays <= 0 {
		return errors.New("cache.ttl_days must be positive")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	return ensurePositiveMap(map[string]int{
		"pipeline.mark_delay_ms":    c.Pipeline.MarkDelayMS,
		"pipeline.page_delay_ms":    c.Pipeline.PageDelayMS,
		"pipeline.max_search_pages": c.Pipeline.MaxSearchPages,
	})
}

func validateHTTPURL(key, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", key)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", key)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
