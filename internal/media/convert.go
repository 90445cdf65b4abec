package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"crosstalk/internal/services"
)

// FFmpegCommand is the default conversion binary.
const FFmpegCommand = "ffmpeg"

// Converter turns arbitrary audio or video input into the mono 16 kHz WAV
// the speech engines expect.
type Converter struct {
	ffmpegBinary  string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewConverter creates a converter using the given ffmpeg binary. An empty
// binary falls back to "ffmpeg" from PATH.
func NewConverter(ffmpegBinary string) *Converter {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = FFmpegCommand
	}
	return &Converter{ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Converter) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	c.commandRunner = runner
}

// ToMono16k converts the source into a mono 16 kHz pcm_s16le WAV inside a
// fresh scoped temp directory. The returned cleanup removes the directory
// and must be called exactly once; on error the directory is already gone.
func (c *Converter) ToMono16k(ctx context.Context, sourcePath string) (string, func(), error) {
	if strings.TrimSpace(sourcePath) == "" {
		return "", nil, services.Wrap(services.ErrValidation, "media", "convert", "source path required", nil)
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return "", nil, services.Wrap(services.ErrValidation, "media", "convert", "source not readable", err)
	}

	workDir, err := os.MkdirTemp("", "crosstalk-audio-")
	if err != nil {
		return "", nil, services.Wrap(services.ErrConversion, "media", "convert", "create work dir", err)
	}
	cleanup := func() { os.RemoveAll(workDir) }

	wavPath := filepath.Join(workDir, "audio-16k.wav")
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", sourcePath,
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		"-y", wavPath,
	}
	if err := c.run(ctx, args); err != nil {
		cleanup()
		marker := services.ErrConversion
		if errors.Is(err, exec.ErrNotFound) {
			marker = services.ErrEngineUnavailable
		}
		return "", nil, services.Wrap(marker, "media", "convert", "ffmpeg", err)
	}
	if _, err := os.Stat(wavPath); err != nil {
		cleanup()
		return "", nil, services.Wrap(services.ErrConversion, "media", "convert", "no output produced", err)
	}
	return wavPath, cleanup, nil
}

func (c *Converter) run(ctx context.Context, args []string) error {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, c.ffmpegBinary, args...)
	}
	cmd := exec.CommandContext(ctx, c.ffmpegBinary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", c.ffmpegBinary, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
