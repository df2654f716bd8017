package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ttabscan/internal/classify"
	"ttabscan/internal/config"
	"ttabscan/internal/logging"
	"ttabscan/internal/markcache"
	"ttabscan/internal/pipeline"
	"ttabscan/internal/runlock"
	"ttabscan/internal/tsdr"
	"ttabscan/internal/ttab"
	"ttabscan/internal/vision"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// app bundles the collaborators a processing command needs. close releases
// the cache store.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *markcache.Store
	pipe   *pipeline.Pipeline
}

func (c *commandContext) buildApp() (*app, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	store, err := markcache.Open(cfg.Cache.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open mark cache: %w", err)
	}

	rules := classify.DefaultRules()
	var strategies []classify.Strategy
	if cfg.Vision.Enabled {
		strategies = append(strategies, classify.NewVisionStrategy(vision.New(cfg.Vision, logger), rules))
	}
	if cfg.OCR.Enabled {
		strategies = append(strategies, classify.NewOCRStrategy(classify.NewTesseract(cfg.OCR), rules))
	}
	engine := classify.NewEngine(logger, strategies...)

	pipe := pipeline.New(
		cfg.Pipeline, cfg.Cache,
		ttab.New(cfg.TTAB, logger),
		tsdr.New(cfg.TSDR, logger),
		engine, store, logger,
	)

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close mark cache", logging.Error(err))
		}
	}
	return &app{cfg: cfg, logger: logger, store: store, pipe: pipe}, cleanup, nil
}

// withRunLock serializes processing commands that share rate limits and the
// cache database.
func (a *app) withRunLock(fn func() error) error {
	lock, err := runlock.New(a.cfg.Paths.DataDir)
	if err != nil {
		return err
	}
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()
	return fn()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
