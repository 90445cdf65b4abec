package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"crosstalk/internal/config"
	"crosstalk/internal/logging"
	"crosstalk/internal/media"
	"crosstalk/internal/media/ffprobe"
	"crosstalk/internal/report"
	"crosstalk/internal/runstore"
	"crosstalk/internal/segments"
	"crosstalk/internal/services"
	"crosstalk/internal/services/embedder"
	"crosstalk/internal/services/pyannote"
	"crosstalk/internal/services/whisper"
	"crosstalk/internal/textdiar"
	"crosstalk/internal/textutil"
)

// Pipeline wires the engines, the run store and the renderers into the
// operations the CLI exposes. One Pipeline serves many runs.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *runstore.Store
	converter *media.Converter
	whisper   *whisper.Service
	pyannote  *pyannote.Service
	diarizer  *textdiar.Diarizer

	// probe is swapped out in tests.
	probe func(ctx context.Context, binary, path string) (ffprobe.Result, error)
}

// New builds a pipeline from configuration. The store may be nil, in which
// case runs are executed without being recorded.
func New(cfg *config.Config, logger *slog.Logger, store *runstore.Store) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:       cfg,
		logger:    logger.With(logging.String(logging.FieldComponent, "pipeline")),
		store:     store,
		converter: media.NewConverter(cfg.FFmpegBinary()),
		whisper: whisper.NewService(whisper.Config{
			Model:    cfg.Whisper.Model,
			Language: cfg.Whisper.Language,
		}),
		pyannote: pyannote.NewService(pyannote.Config{
			HFToken:     cfg.Diarization.HFToken,
			CUDAEnabled: cfg.Diarization.CUDAEnabled,
		}),
		diarizer: textdiar.New(embedder.NewService(embedder.Config{
			Model: cfg.TextDiar.EmbeddingModel,
		}), nil, nil),
		probe: ffprobe.Inspect,
	}
}

// WithConverter replaces the audio converter (for testing).
func (p *Pipeline) WithConverter(c *media.Converter) { p.converter = c }

// WithWhisper replaces the transcription service (for testing).
func (p *Pipeline) WithWhisper(s *whisper.Service) { p.whisper = s }

// WithPyannote replaces the diarization service (for testing).
func (p *Pipeline) WithPyannote(s *pyannote.Service) { p.pyannote = s }

// WithDiarizer replaces the text-only diarizer (for testing).
func (p *Pipeline) WithDiarizer(d *textdiar.Diarizer) { p.diarizer = d }

// WithProbe replaces the ffprobe call (for testing).
func (p *Pipeline) WithProbe(fn func(ctx context.Context, binary, path string) (ffprobe.Result, error)) {
	p.probe = fn
}

// beginRun records a new run and attaches its ID to the context so every
// log line downstream carries it.
func (p *Pipeline) beginRun(ctx context.Context, run runstore.Run) (context.Context, runstore.Run, error) {
	if p.store == nil {
		return ctx, run, nil
	}
	created, err := p.store.Create(ctx, run)
	if err != nil {
		return ctx, run, fmt.Errorf("record run: %w", err)
	}
	return services.WithRunID(ctx, created.ID), created, nil
}

// finishRun persists the terminal state of a run. Store failures here are
// logged, not returned: the user already has the pipeline outcome.
func (p *Pipeline) finishRun(ctx context.Context, run runstore.Run, runErr error) {
	if p.store == nil || run.ID == "" {
		return
	}
	if runErr != nil {
		run.Status = runstore.StatusFailed
		run.ErrorMessage = runErr.Error()
	} else {
		run.Status = runstore.StatusCompleted
	}
	if err := p.store.Update(ctx, run); err != nil {
		logging.WithContext(ctx, p.logger).Warn("run record update failed",
			logging.Error(err))
	}
}

// probeSource validates that the input exists and carries an audio stream.
func (p *Pipeline) probeSource(ctx context.Context, sourcePath string) (ffprobe.Result, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return ffprobe.Result{}, services.Wrap(services.ErrValidation, "pipeline", "probe",
			fmt.Sprintf("source not readable: %s", sourcePath), err)
	}
	result, err := p.probe(ctx, p.cfg.FFprobeBinary(), sourcePath)
	if err != nil {
		return ffprobe.Result{}, err
	}
	if !result.HasAudio() {
		return ffprobe.Result{}, services.Wrap(services.ErrValidation, "pipeline", "probe",
			fmt.Sprintf("no audio stream in %s", sourcePath), nil)
	}
	return result, nil
}

// outputBase derives a safe output file stem from the source path.
func outputBase(sourcePath string) string {
	base := filepath.Base(sourcePath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = textutil.SanitizeFileName(base)
	if base == "" || base == "." {
		base = "transcript"
	}
	return base
}

// writeOutputs renders the document as TXT and HTML under the output
// directory and returns both paths.
func (p *Pipeline) writeOutputs(doc *report.Document, base string) (txtPath, htmlPath string, err error) {
	if err := os.MkdirAll(p.cfg.Paths.OutputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("ensure output dir: %w", err)
	}

	txtPath = filepath.Join(p.cfg.Paths.OutputDir, base+".txt")
	if err := os.WriteFile(txtPath, []byte(report.RenderText(doc)), 0o644); err != nil {
		return "", "", fmt.Errorf("write transcript: %w", err)
	}

	htmlPath = filepath.Join(p.cfg.Paths.OutputDir, base+".html")
	file, err := os.Create(htmlPath)
	if err != nil {
		return "", "", fmt.Errorf("create report: %w", err)
	}
	defer file.Close()
	if err := report.RenderHTML(file, doc); err != nil {
		return "", "", err
	}
	return txtPath, htmlPath, nil
}

func newDocument(sourcePath, language, model string, diarized bool) *report.Document {
	return &report.Document{
		Title:       outputBase(sourcePath),
		SourcePath:  sourcePath,
		Language:    language,
		Model:       model,
		GeneratedAt: time.Now(),
		Diarized:    diarized,
	}
}

func segmentsFromTranscript(texts []segments.TextSegment) []segments.DiarizedSegment {
	out := make([]segments.DiarizedSegment, len(texts))
	for i, seg := range texts {
		out[i] = segments.DiarizedSegment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}
	return out
}
