package pyannote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"crosstalk/internal/segments"
	"crosstalk/internal/services"
)

// Command names for external tools.
const UVXCommand = "uvx"

// Config captures runtime settings for pyannote diarization.
type Config struct {
	// HFToken authenticates against the gated Hugging Face pipelines.
	HFToken string
	// CUDAEnabled installs GPU torch wheels and runs on cuda.
	CUDAEnabled bool
}

// Service runs pyannote speaker diarization through uvx.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// NewService creates a pyannote service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)) {
	s.commandRunner = runner
}

// Available reports whether the service can run: the uvx launcher must be
// on PATH and a Hugging Face token must be configured.
func (s *Service) Available() bool {
	if strings.TrimSpace(s.cfg.HFToken) == "" {
		return false
	}
	if s.commandRunner != nil {
		return true
	}
	_, err := exec.LookPath(UVXCommand)
	return err == nil
}

type turnPayload struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

type scriptPayload struct {
	Turns []turnPayload `json:"turns"`
	Error string        `json:"error,omitempty"`
}

// Diarize runs speaker diarization on an audio file and returns the speaker
// turns in engine order. workDir holds the script and must already exist.
func (s *Service) Diarize(ctx context.Context, audioPath, workDir string) ([]segments.SpeakerTurn, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "pyannote", "diarize", "audio path required", nil)
	}
	token := strings.TrimSpace(s.cfg.HFToken)
	if token == "" {
		return nil, services.Wrap(services.ErrEngineUnavailable, "pyannote", "diarize", "Hugging Face token required", nil)
	}

	scriptPath := filepath.Join(workDir, "diarize.py")
	if err := os.WriteFile(scriptPath, []byte(diarizeScript), 0o644); err != nil {
		return nil, services.Wrap(services.ErrProcessing, "pyannote", "diarize", "write engine script", err)
	}

	args := s.buildArgs(scriptPath, audioPath, token)
	stdout, stderr, err := s.run(ctx, UVXCommand, args...)
	if err != nil {
		marker := services.ErrProcessing
		if errors.Is(err, exec.ErrNotFound) {
			marker = services.ErrEngineUnavailable
		}
		detail := scriptError(stderr)
		return nil, services.Wrap(marker, "pyannote", "diarize", detail, err)
	}

	var payload scriptPayload
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &payload); err != nil {
		return nil, services.Wrap(services.ErrProcessing, "pyannote", "diarize", "parse engine output", err)
	}
	if payload.Error != "" {
		return nil, services.Wrap(services.ErrProcessing, "pyannote", "diarize", payload.Error, nil)
	}

	turns := make([]segments.SpeakerTurn, 0, len(payload.Turns))
	for _, t := range payload.Turns {
		speaker := strings.TrimSpace(t.Speaker)
		if speaker == "" {
			speaker = segments.UnknownSpeaker
		}
		turns = append(turns, segments.SpeakerTurn{Start: t.Start, End: t.End, Speaker: speaker})
	}
	return turns, nil
}

// buildArgs constructs the uvx invocation with pyannote dependencies.
// torchaudio + soundfile are the audio decoder fallback (torchcodec often
// fails on plain WAV input).
func (s *Service) buildArgs(scriptPath, audioPath, token string) []string {
	args := []string{
		"--quiet",
		"--with", "pyannote.audio",
		"--with", "torchaudio",
		"--with", "soundfile",
	}
	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", "https://download.pytorch.org/whl/cu128",
			"--extra-index-url", "https://pypi.org/simple",
		)
	}
	return append(args, "python", scriptPath,
		"--audio", audioPath,
		"--hf-token", token,
	)
}

func (s *Service) run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(), "HF_TOKEN="+strings.TrimSpace(s.cfg.HFToken))
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(cmd.Env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// scriptError pulls a structured error out of stderr when the script
// reported one, otherwise keeps the last lines of raw stderr.
func scriptError(stderr []byte) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var payload scriptPayload
		if json.Unmarshal([]byte(line), &payload) == nil && payload.Error != "" {
			return payload.Error
		}
	}
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	detail := strings.TrimSpace(strings.Join(lines, "\n"))
	if detail == "" {
		detail = "engine run failed"
	}
	return fmt.Sprintf("engine: %s", detail)
}
