package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"crosstalk/internal/services"
)

// Command names for external tools.
const UVXCommand = "uvx"

// DefaultModel is the sentence-transformers model used for text units.
// MiniLM is small enough to download on first use and good enough to
// separate speakers by phrasing.
const DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"

// embedScript is the embedded Python script for sentence embeddings. It
// reads a JSON array of strings from a file and prints a JSON document
// with one vector per input string on stdout.
const embedScript = `#!/usr/bin/env python3
import argparse
import json
import sys


def main():
    parser = argparse.ArgumentParser()
    parser.add_argument("--input", required=True)
    parser.add_argument("--model", required=True)
    args = parser.parse_args()
    try:
        with open(args.input, "r", encoding="utf-8") as f:
            texts = json.load(f)
        from sentence_transformers import SentenceTransformer
        model = SentenceTransformer(args.model)
        vectors = model.encode(texts, show_progress_bar=False)
        print(json.dumps({"vectors": [[float(x) for x in v] for v in vectors]}))
    except Exception as e:
        print(json.dumps({"error": str(e)}), file=sys.stderr)
        sys.exit(1)


if __name__ == "__main__":
    main()
`

// Config captures runtime settings for the embedding model.
type Config struct {
	// Model is a sentence-transformers model name.
	Model string
}

// Service computes sentence embeddings through a uvx subprocess. It
// implements the Embedder capability of the text diarizer.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// NewService creates an embedding service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)) {
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
func (s *Service) Available() bool {
	if s.commandRunner != nil {
		return true
	}
	_, err := exec.LookPath(UVXCommand)
	return err == nil
}

type scriptPayload struct {
	Vectors [][]float64 `json:"vectors"`
	Error   string      `json:"error,omitempty"`
}

// Embed returns one vector per input text, in input order.
func (s *Service) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	workDir, err := os.MkdirTemp("", "crosstalk-embed-")
	if err != nil {
		return nil, services.Wrap(services.ErrProcessing, "embedder", "embed", "create work dir", err)
	}
	defer os.RemoveAll(workDir)

	scriptPath := filepath.Join(workDir, "embed.py")
	if err := os.WriteFile(scriptPath, []byte(embedScript), 0o644); err != nil {
		return nil, services.Wrap(services.ErrProcessing, "embedder", "embed", "write engine script", err)
	}
	inputPath := filepath.Join(workDir, "units.json")
	data, err := json.Marshal(texts)
	if err != nil {
		return nil, services.Wrap(services.ErrProcessing, "embedder", "embed", "encode input", err)
	}
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		return nil, services.Wrap(services.ErrProcessing, "embedder", "embed", "write input", err)
	}

	args := []string{
		"--quiet",
		"--with", "sentence-transformers",
		"python", scriptPath,
		"--input", inputPath,
		"--model", s.Model(),
	}
	stdout, stderr, err := s.run(ctx, UVXCommand, args...)
	if err != nil {
		marker := services.ErrProcessing
		if errors.Is(err, exec.ErrNotFound) {
			marker = services.ErrEngineUnavailable
		}
		return nil, services.Wrap(marker, "embedder", "embed", stderrTail(stderr), err)
	}

	var payload scriptPayload
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &payload); err != nil {
		return nil, services.Wrap(services.ErrProcessing, "embedder", "embed", "parse engine output", err)
	}
	if payload.Error != "" {
		return nil, services.Wrap(services.ErrProcessing, "embedder", "embed", payload.Error, nil)
	}
	if len(payload.Vectors) != len(texts) {
		return nil, services.Wrap(services.ErrProcessing, "embedder", "embed", "vector count mismatch", nil)
	}
	return payload.Vectors, nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func stderrTail(stderr []byte) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	detail := strings.TrimSpace(strings.Join(lines, "\n"))
	if detail == "" {
		detail = "engine run failed"
	}
	return detail
}
