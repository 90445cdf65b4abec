package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"crosstalk/internal/services"
)

func writeSource(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "input.mp3")
	if err := os.WriteFile(src, []byte("fake audio"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return src
}

func TestToMono16k(t *testing.T) {
	src := writeSource(t)
	conv := NewConverter("")
	conv.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		if name != FFmpegCommand {
			t.Fatalf("binary = %q", name)
		}
		joined := strings.Join(args, " ")
		for _, want := range []string{"-ac 1", "-ar 16000", "-c:a pcm_s16le"} {
			if !strings.Contains(joined, want) {
				t.Fatalf("args missing %q: %v", want, args)
			}
		}
		// The output path is the final argument.
		return os.WriteFile(args[len(args)-1], []byte("wav"), 0o644)
	})

	wavPath, cleanup, err := conv.ToMono16k(context.Background(), src)
	if err != nil {
		t.Fatalf("ToMono16k: %v", err)
	}
	if _, err := os.Stat(wavPath); err != nil {
		t.Fatalf("output missing: %v", err)
	}
	cleanup()
	if _, err := os.Stat(wavPath); !os.IsNotExist(err) {
		t.Fatalf("cleanup left the work dir behind: %v", err)
	}
}

func TestToMono16kFailureRemovesWorkDir(t *testing.T) {
	src := writeSource(t)
	conv := NewConverter("")
	var outPath string
	conv.WithCommandRunner(func(_ context.Context, _ string, args ...string) error {
		outPath = args[len(args)-1]
		return errors.New("decode failed")
	})
	_, _, err := conv.ToMono16k(context.Background(), src)
	if !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Dir(outPath)); !os.IsNotExist(statErr) {
		t.Fatalf("work dir should be removed on failure: %v", statErr)
	}
}

func TestToMono16kMissingSource(t *testing.T) {
	conv := NewConverter("")
	_, _, err := conv.ToMono16k(context.Background(), filepath.Join(t.TempDir(), "absent.wav"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestToMono16kNoOutput(t *testing.T) {
	src := writeSource(t)
	conv := NewConverter("")
	conv.WithCommandRunner(func(_ context.Context, _ string, _ ...string) error {
		return nil // ffmpeg "succeeded" without writing anything
	})
	_, _, err := conv.ToMono16k(context.Background(), src)
	if !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
}
