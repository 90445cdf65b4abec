package embedder

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"crosstalk/internal/services"
)

func TestEmbedRoundTrip(t *testing.T) {
	svc := NewService(Config{})
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		if name != UVXCommand {
			t.Fatalf("command = %q", name)
		}
		var inputPath string
		for i, a := range args {
			if a == "--input" && i+1 < len(args) {
				inputPath = args[i+1]
			}
		}
		if inputPath == "" {
			t.Fatalf("no --input in args: %v", args)
		}
		data, err := os.ReadFile(inputPath)
		if err != nil {
			t.Fatalf("read input: %v", err)
		}
		var texts []string
		if err := json.Unmarshal(data, &texts); err != nil {
			t.Fatalf("decode input: %v", err)
		}
		vectors := make([][]float64, len(texts))
		for i := range texts {
			vectors[i] = []float64{float64(i), float64(len(texts[i]))}
		}
		out, _ := json.Marshal(map[string]any{"vectors": vectors})
		return out, nil, nil
	})

	got, err := svc.Embed(context.Background(), []string{"one", "three"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("vectors = %d, want 2", len(got))
	}
	if got[1][0] != 1 || got[1][1] != 5 {
		t.Fatalf("vector 1 = %v", got[1])
	}
}

func TestEmbedDefaultModelFlag(t *testing.T) {
	svc := NewService(Config{})
	svc.WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
		if !strings.Contains(strings.Join(args, " "), "--model "+DefaultModel) {
			t.Fatalf("default model missing: %v", args)
		}
		return []byte(`{"vectors":[[0]]}`), nil, nil
	})
	if _, err := svc.Embed(context.Background(), []string{"x"}); err != nil {
		t.Fatalf("Embed: %v", err)
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	svc := NewService(Config{})
	got, err := svc.Embed(context.Background(), nil)
	if err != nil || got != nil {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestEmbedCountMismatch(t *testing.T) {
	svc := NewService(Config{})
	svc.WithCommandRunner(func(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
		return []byte(`{"vectors":[[0]]}`), nil, nil
	})
	_, err := svc.Embed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, services.ErrProcessing) {
		t.Fatalf("expected ErrProcessing, got %v", err)
	}
}

func TestEmbedScriptError(t *testing.T) {
	svc := NewService(Config{})
	svc.WithCommandRunner(func(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
		return nil, []byte("model download failed"), errors.New("exit status 1")
	})
	_, err := svc.Embed(context.Background(), []string{"a"})
	if !errors.Is(err, services.ErrProcessing) {
		t.Fatalf("expected ErrProcessing, got %v", err)
	}
	if !strings.Contains(err.Error(), "model download failed") {
		t.Fatalf("stderr not surfaced: %v", err)
	}
}
