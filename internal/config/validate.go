package config

import (
	"errors"
	"fmt"
)

var validMethods = map[string]struct{}{
	"alternating": {},
	"block":       {},
	"paragraph":   {},
	"fixed":       {},
	"auto":        {},
	"keep":        {},
}

var validLogFormats = map[string]struct{}{
	"console": {},
	"json":    {},
}

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTextDiar(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTextDiar() error {
	if _, ok := validMethods[c.TextDiar.Method]; !ok {
		return fmt.Errorf("textdiar.method %q is not one of alternating, block, paragraph, fixed, auto, keep", c.TextDiar.Method)
	}
	if c.TextDiar.Speakers < 1 {
		return errors.New("textdiar.speakers must be at least 1")
	}
	if c.TextDiar.MaxSpeakers < 2 {
		return errors.New("textdiar.max_speakers must be at least 2")
	}
	if c.TextDiar.MergeThreshold < 1 {
		return errors.New("textdiar.merge_threshold must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, ok := validLogFormats[c.Logging.Format]; !ok {
		return fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format)
	}
	if _, ok := validLogLevels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
