package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTTAB()
	c.normalizeTSDR()
	c.normalizeVision()
	c.normalizeOCR()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTTAB() {
	c.TTAB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TTAB.BaseURL), "/")
	if c.TTAB.BaseURL == "" {
		c.TTAB.BaseURL = defaultTTABBaseURL
	}
	if c.TTAB.TimeoutSeconds <= 0 {
		c.TTAB.TimeoutSeconds = defaultTTABTimeoutSeconds
	}
	if c.TTAB.MaxAttempts <= 0 {
		c.TTAB.MaxAttempts = defaultTTABMaxAttempts
	}
}

func (c *Config) normalizeTSDR() {
	c.TSDR.APIKey = strings.TrimSpace(c.TSDR.APIKey)
	if c.TSDR.APIKey == "" {
		if value, ok := os.LookupEnv("TSDR_API_KEY"); ok {
			c.TSDR.APIKey = strings.TrimSpace(value)
		}
	}
	c.TSDR.BaseURL = strings.TrimRight(strings.TrimSpace(c.TSDR.BaseURL), "/")
	if c.TSDR.BaseURL == "" {
		c.TSDR.BaseURL = defaultTSDRBaseURL
	}
	c.TSDR.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.TSDR.ImageBaseURL), "/")
	if c.TSDR.ImageBaseURL == "" {
		c.TSDR.ImageBaseURL = defaultTSDRImageBaseURL
	}
	if c.TSDR.TimeoutSeconds <= 0 {
		c.TSDR.TimeoutSeconds = defaultTSDRTimeoutSeconds
	}
	if c.TSDR.MaxAttempts <= 0 {
		c.TSDR.MaxAttempts = defaultTSDRMaxAttempts
	}
}

func (c *Config) normalizeVision() {
	c.Vision.APIKey = strings.TrimSpace(c.Vision.APIKey)
	if c.Vision.APIKey == "" {
		if value, ok := os.LookupEnv("ANTHROPIC_API_KEY"); ok {
			c.Vision.APIKey = strings.TrimSpace(value)
		}
	}
	c.Vision.BaseURL = strings.TrimSpace(c.Vision.BaseURL)
	if c.Vision.BaseURL == "" {
		c.Vision.BaseURL = defaultVisionBaseURL
	}
	c.Vision.Model = strings.TrimSpace(c.Vision.Model)
	if c.Vision.Model == "" {
		c.Vision.Model = defaultVisionModel
	}
	if c.Vision.TimeoutSeconds <= 0 {
		c.Vision.TimeoutSeconds = defaultVisionTimeoutSeconds
	}
	if c.Vision.MaxAttempts <= 0 {
		c.Vision.MaxAttempts = defaultVisionMaxAttempts
	}
	if c.Vision.MaxTokens <= 0 {
		c.Vision.MaxTokens = defaultVisionMaxTokens
	}
}

func (c *Config) normalizeOCR() {
	c.OCR.Binary = strings.TrimSpace(c.OCR.Binary)
	if c.OCR.Binary == "" {
		c.OCR.Binary = defaultOCRBinary
	}
	c.OCR.Language = strings.TrimSpace(c.OCR.Language)
	if c.OCR.Language == "" {
		c.OCR.Language = defaultOCRLanguage
	}
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	if c.Cache.TTLDays <= 0 {
		c.Cache.TTLDays = defaultCacheTTLDays
	}
	return nil
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.MarkDelayMS <= 0 {
		c.Pipeline.MarkDelayMS = defaultMarkDelayMS
	}
	if c.Pipeline.PageDelayMS <= 0 {
		c.Pipeline.PageDelayMS = defaultPageDelayMS
	}
	if c.Pipeline.MaxSearchPages <= 0 {
		c.Pipeline.MaxSearchPages = defaultMaxSearchPages
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
