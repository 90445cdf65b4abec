package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"crosstalk/internal/config"
	"crosstalk/internal/logging"
	"crosstalk/internal/pipeline"
	"crosstalk/internal/runstore"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
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

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// withStore opens the run store for the duration of fn. A store held by
// another process is reported with a hint instead of a raw lock error.
func (c *commandContext) withStore(fn func(*runstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := runstore.Open(cfg)
	if err != nil {
		if errors.Is(err, runstore.ErrLocked) {
			return fmt.Errorf("%w; another crosstalk process is using the run database", err)
		}
		return err
	}
	defer store.Close()
	return fn(store)
}

// withPipeline builds a recording pipeline and runs fn with it.
func (c *commandContext) withPipeline(fn func(*pipeline.Pipeline) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	return c.withStore(func(store *runstore.Store) error {
		return fn(pipeline.New(cfg, logger, store))
	})
}
