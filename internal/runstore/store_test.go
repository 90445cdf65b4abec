package runstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"crosstalk/internal/config"
	"crosstalk/internal/runstore"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.StateDir = filepath.Join(dir, "state")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	return &cfg
}

func openStore(t *testing.T) *runstore.Store {
	t.Helper()
	store, err := runstore.Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, runstore.Run{
		Kind:       runstore.KindTranscribe,
		SourcePath: "/media/interview.mp4",
		Language:   "en",
		Model:      "base",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create returned empty ID")
	}
	if created.Status != runstore.StatusRunning {
		t.Fatalf("Status = %q, want running", created.Status)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SourcePath != "/media/interview.mp4" {
		t.Fatalf("SourcePath = %q", got.SourcePath)
	}
	if got.Kind != runstore.KindTranscribe {
		t.Fatalf("Kind = %q", got.Kind)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("timestamps not persisted")
	}
}

func TestGetMissingRun(t *testing.T) {
	store := openStore(t)

	_, err := store.Get(context.Background(), "no-such-run")
	if !errors.Is(err, runstore.ErrNotFound) {
		t.Fatalf("Get err = %v, want ErrNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run, err := store.Create(ctx, runstore.Run{
		Kind:       runstore.KindDiarize,
		SourcePath: "/media/panel.wav",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	run.Status = runstore.StatusCompleted
	run.SpeakerCount = 3
	run.SegmentCount = 42
	run.TurnCount = 17
	run.OutputPath = "/out/panel.txt"
	run.ReportPath = "/out/panel.html"
	if err := store.Update(ctx, run); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != runstore.StatusCompleted {
		t.Fatalf("Status = %q, want completed", got.Status)
	}
	if got.SpeakerCount != 3 {
		t.Fatalf("SpeakerCount = %d, want 3", got.SpeakerCount)
	}
	if got.SegmentCount != 42 || got.TurnCount != 17 {
		t.Fatalf("counts = %d/%d, want 42/17", got.SegmentCount, got.TurnCount)
	}
	if got.OutputPath != "/out/panel.txt" || got.ReportPath != "/out/panel.html" {
		t.Fatalf("paths not updated: %q %q", got.OutputPath, got.ReportPath)
	}
	if !got.UpdatedAt.After(got.CreatedAt) && !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Fatal("UpdatedAt went backwards")
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	var ids []string
	for _, src := range []string{"a.wav", "b.wav", "c.wav"} {
		run, err := store.Create(ctx, runstore.Run{Kind: runstore.KindTranscribe, SourcePath: src})
		if err != nil {
			t.Fatalf("Create %s: %v", src, err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("List returned %d runs, want 3", len(runs))
	}
	if runs[0].ID != ids[2] {
		t.Fatalf("newest run first: got %s, want %s", runs[0].ID, ids[2])
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List limit: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("List limit returned %d runs, want 2", len(limited))
	}
}

func TestSummarize(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	completed, err := store.Create(ctx, runstore.Run{Kind: runstore.KindTextDiar, SourcePath: "x.txt"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	completed.Status = runstore.StatusCompleted
	if err := store.Update(ctx, completed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	failed, err := store.Create(ctx, runstore.Run{Kind: runstore.KindDiarize, SourcePath: "y.wav"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	failed.Status = runstore.StatusFailed
	failed.ErrorMessage = "engine unavailable"
	if err := store.Update(ctx, failed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := store.Create(ctx, runstore.Run{Kind: runstore.KindTranscribe, SourcePath: "z.wav"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Total != 3 || summary.Completed != 1 || summary.Failed != 1 || summary.Running != 1 {
		t.Fatalf("Summary = %+v", summary)
	}
}

func TestSecondOpenIsLocked(t *testing.T) {
	cfg := testConfig(t)

	first, err := runstore.Open(cfg)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	defer first.Close()

	second, err := runstore.Open(cfg)
	if !errors.Is(err, runstore.ErrLocked) {
		if second != nil {
			second.Close()
		}
		t.Fatalf("second Open err = %v, want ErrLocked", err)
	}
}
