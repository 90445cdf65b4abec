package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"crosstalk/internal/fileutil"
	"crosstalk/internal/logging"
	"crosstalk/internal/report"
	"crosstalk/internal/runstore"
	"crosstalk/internal/segments"
)

// TranscribeResult reports one completed transcription run.
type TranscribeResult struct {
	RunID      string
	Language   string
	Segments   []segments.DiarizedSegment
	OutputPath string
	ReportPath string
}

// Transcribe converts the source to 16 kHz mono, runs speech recognition and
// renders the timed transcript.
func (p *Pipeline) Transcribe(ctx context.Context, sourcePath string) (TranscribeResult, error) {
	var result TranscribeResult

	probed, err := p.probeSource(ctx, sourcePath)
	if err != nil {
		return result, err
	}

	ctx, run, err := p.beginRun(ctx, runstore.Run{
		Kind:       runstore.KindTranscribe,
		SourcePath: sourcePath,
		Language:   p.cfg.Whisper.Language,
		Model:      p.cfg.Whisper.Model,
	})
	if err != nil {
		return result, err
	}
	result.RunID = run.ID

	logger := logging.WithContext(ctx, p.logger)
	logger.Info("transcription started",
		logging.String("source", sourcePath),
		logging.String("model", p.cfg.Whisper.Model),
		logging.Float64("duration_seconds", probed.DurationSeconds()))

	doc, err := p.transcribeToDocument(ctx, sourcePath, false)
	if err != nil {
		p.finishRun(ctx, run, err)
		return result, err
	}

	txtPath, htmlPath, err := p.writeOutputs(doc, outputBase(sourcePath))
	if err != nil {
		p.finishRun(ctx, run, err)
		return result, err
	}

	run.Language = doc.Language
	run.SegmentCount = len(doc.Segments)
	run.OutputPath = txtPath
	run.ReportPath = htmlPath
	p.finishRun(ctx, run, nil)

	logger.Info("transcription finished",
		logging.Int("segments", len(doc.Segments)),
		logging.String("output", txtPath))

	result.Language = doc.Language
	result.Segments = doc.Segments
	result.OutputPath = txtPath
	result.ReportPath = htmlPath
	return result, nil
}

// transcribeToDocument runs conversion and speech recognition in a scoped
// temp dir and returns an unrendered document.
func (p *Pipeline) transcribeToDocument(ctx context.Context, sourcePath string, diarized bool) (*report.Document, error) {
	wavPath, cleanup, err := p.converter.ToMono16k(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return p.recognize(ctx, wavPath, sourcePath, diarized)
}

// recognize runs speech recognition on an already converted WAV. The engine
// JSON lands next to the WAV and is removed with it by the caller's cleanup;
// a verified copy is kept under the state dir for later inspection.
func (p *Pipeline) recognize(ctx context.Context, wavPath, sourcePath string, diarized bool) (*report.Document, error) {
	transcript, err := p.whisper.Transcribe(ctx, wavPath, "")
	if err != nil {
		return nil, err
	}
	p.preserveRawOutput(ctx, transcript.JSONPath, sourcePath)

	doc := newDocument(sourcePath, transcript.Language, p.whisper.Model(), diarized)
	doc.Segments = segmentsFromTranscript(transcript.Segments)
	return doc, nil
}

// preserveRawOutput copies the raw engine JSON into state before the
// conversion temp dir disappears. Failure costs only debuggability, so it is
// logged and swallowed.
func (p *Pipeline) preserveRawOutput(ctx context.Context, jsonPath, sourcePath string) {
	rawDir := filepath.Join(p.cfg.Paths.StateDir, "raw")
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		logging.WithContext(ctx, p.logger).Warn("raw output dir failed", logging.Error(err))
		return
	}
	dst := filepath.Join(rawDir, outputBase(sourcePath)+".json")
	if err := fileutil.CopyFileVerified(jsonPath, dst); err != nil {
		logging.WithContext(ctx, p.logger).Warn("raw output copy failed", logging.Error(err))
	}
}
