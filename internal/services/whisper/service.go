package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"crosstalk/internal/language"
	"crosstalk/internal/segments"
	"crosstalk/internal/services"
)

// Service runs Whisper transcription through uvx.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a Whisper service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// Available reports whether the uvx launcher is on PATH.
func Available() bool {
	_, err := exec.LookPath(UVXCommand)
	return err == nil
}

// Result contains the output of one transcription.
type Result struct {
	// Text is the plain transcript.
	Text string
	// Language is the code the engine detected or was given.
	Language string
	// Segments carry per-utterance timing.
	Segments []segments.TextSegment
	// JSONPath is the raw engine output file.
	JSONPath string
}

// Transcribe runs the whisper CLI on a 16 kHz mono WAV file and parses its
// JSON output. outputDir defaults to the audio file's directory.
func (s *Service) Transcribe(ctx context.Context, audioPath, outputDir string) (Result, error) {
	var result Result

	if strings.TrimSpace(audioPath) == "" {
		return result, services.Wrap(services.ErrValidation, "whisper", "transcribe", "audio path required", nil)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrProcessing, "whisper", "transcribe", "ensure output dir", err)
	}
	if s.commandRunner == nil && !Available() {
		return result, services.Wrap(services.ErrEngineUnavailable, "whisper", "transcribe", UVXCommand+" not found on PATH", nil)
	}

	args := s.buildArgs(audioPath, outputDir)
	if err := s.run(ctx, UVXCommand, args...); err != nil {
		marker := services.ErrProcessing
		if errors.Is(err, exec.ErrNotFound) {
			marker = services.ErrEngineUnavailable
		}
		return result, services.Wrap(marker, "whisper", "transcribe", "engine run failed", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	result.JSONPath = filepath.Join(outputDir, baseName+".json")
	payload, err := loadPayload(result.JSONPath)
	if err != nil {
		return result, services.Wrap(services.ErrProcessing, "whisper", "transcribe", "parse engine output", err)
	}

	result.Language = payload.Language
	result.Segments = make([]segments.TextSegment, 0, len(payload.Segments))
	var parts []string
	for _, seg := range payload.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		ts := segments.TextSegment{Start: seg.Start, End: seg.End, Text: text}
		ts.Normalize()
		result.Segments = append(result.Segments, ts)
		parts = append(parts, text)
	}
	result.Text = strings.TrimSpace(payload.Text)
	if result.Text == "" {
		result.Text = strings.Join(parts, " ")
	}
	return result, nil
}

// buildArgs constructs the uvx invocation for the whisper CLI.
func (s *Service) buildArgs(audioPath, outputDir string) []string {
	args := []string{
		"--from", PackageSpec,
		WhisperCommand,
		audioPath,
		"--model", s.Model(),
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--verbose", "False",
	}
	if lang := language.ForEngine(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	return args
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, tail(string(output)))
	}
	return nil
}

// tail keeps the last few lines of engine output, which is where Python
// tracebacks put the actual error.
func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

type payloadSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type enginePayload struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []payloadSegment `json:"segments"`
}

func loadPayload(jsonPath string) (enginePayload, error) {
	var payload enginePayload
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return payload, err
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("parse whisper json: %w", err)
	}
	return payload, nil
}
