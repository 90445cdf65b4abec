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
	c.normalizeWhisper()
	c.normalizeDiarization()
	c.normalizeTextDiar()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWhisper() {
	c.Whisper.Model = strings.TrimSpace(c.Whisper.Model)
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	c.Whisper.Language = strings.ToLower(strings.TrimSpace(c.Whisper.Language))
	if c.Whisper.Language == "" {
		c.Whisper.Language = defaultLanguage
	}
}

func (c *Config) normalizeDiarization() {
	c.Diarization.HFToken = strings.TrimSpace(c.Diarization.HFToken)
	if c.Diarization.HFToken == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			c.Diarization.HFToken = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.Diarization.HFToken = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeTextDiar() {
	c.TextDiar.Method = strings.ToLower(strings.TrimSpace(c.TextDiar.Method))
	if c.TextDiar.Method == "" {
		c.TextDiar.Method = defaultTextDiarMethod
	}
	if c.TextDiar.Speakers == 0 {
		c.TextDiar.Speakers = defaultSpeakers
	}
	if c.TextDiar.MaxSpeakers == 0 {
		c.TextDiar.MaxSpeakers = defaultMaxSpeakers
	}
	if c.TextDiar.MergeThreshold == 0 {
		c.TextDiar.MergeThreshold = defaultMergeThreshold
	}
	c.TextDiar.EmbeddingModel = strings.TrimSpace(c.TextDiar.EmbeddingModel)
	if c.TextDiar.EmbeddingModel == "" {
		c.TextDiar.EmbeddingModel = defaultEmbeddingModel
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
