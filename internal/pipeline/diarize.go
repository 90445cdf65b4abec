package pipeline

import (
	"context"
	"path/filepath"

	"crosstalk/internal/logging"
	"crosstalk/internal/runstore"
	"crosstalk/internal/segments"
	"crosstalk/internal/services"
)

// DiarizeResult reports one completed transcribe-and-diarize run.
type DiarizeResult struct {
	RunID      string
	Language   string
	Segments   []segments.DiarizedSegment
	Labels     segments.LabelMap
	Speakers   int
	OutputPath string
	ReportPath string
}

// Diarize transcribes the source, runs voice diarization on the same
// converted audio, aligns the two and renders the speaker-labeled
// transcript.
func (p *Pipeline) Diarize(ctx context.Context, sourcePath string) (DiarizeResult, error) {
	var result DiarizeResult

	if !p.pyannote.Available() {
		return result, services.Wrap(services.ErrEngineUnavailable, "pipeline", "diarize",
			"voice diarization needs a Hugging Face token and uvx on PATH", nil)
	}

	probed, err := p.probeSource(ctx, sourcePath)
	if err != nil {
		return result, err
	}

	ctx, run, err := p.beginRun(ctx, runstore.Run{
		Kind:       runstore.KindDiarize,
		SourcePath: sourcePath,
		Language:   p.cfg.Whisper.Language,
		Model:      p.cfg.Whisper.Model,
	})
	if err != nil {
		return result, err
	}
	result.RunID = run.ID

	logger := logging.WithContext(ctx, p.logger)
	logger.Info("diarization started",
		logging.String("source", sourcePath),
		logging.Float64("duration_seconds", probed.DurationSeconds()))

	wavPath, cleanup, err := p.converter.ToMono16k(ctx, sourcePath)
	if err != nil {
		p.finishRun(ctx, run, err)
		return result, err
	}
	defer cleanup()

	doc, err := p.recognize(ctx, wavPath, sourcePath, true)
	if err != nil {
		p.finishRun(ctx, run, err)
		return result, err
	}
	logger.Info("transcript ready", logging.Int("segments", len(doc.Segments)))

	turns, err := p.pyannote.Diarize(ctx, wavPath, filepath.Dir(wavPath))
	if err != nil {
		p.finishRun(ctx, run, err)
		return result, err
	}
	logger.Info("speaker turns ready", logging.Int("turns", len(turns)))

	texts := make([]segments.TextSegment, len(doc.Segments))
	for i, seg := range doc.Segments {
		texts[i] = segments.TextSegment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}
	doc.Segments = segments.Align(texts, turns)
	doc.Labels = segments.SequentialLabels(doc.Segments)

	txtPath, htmlPath, err := p.writeOutputs(doc, outputBase(sourcePath))
	if err != nil {
		p.finishRun(ctx, run, err)
		return result, err
	}

	speakerCount := countSpeakers(doc.Segments)
	run.Language = doc.Language
	run.SpeakerCount = speakerCount
	run.SegmentCount = len(doc.Segments)
	run.TurnCount = len(turns)
	run.OutputPath = txtPath
	run.ReportPath = htmlPath
	p.finishRun(ctx, run, nil)

	logger.Info("diarization finished",
		logging.Int("speakers", speakerCount),
		logging.String("output", txtPath))

	result.Language = doc.Language
	result.Segments = doc.Segments
	result.Labels = doc.Labels
	result.Speakers = speakerCount
	result.OutputPath = txtPath
	result.ReportPath = htmlPath
	return result, nil
}

// countSpeakers counts distinct attributed speakers, ignoring segments no
// turn overlapped.
func countSpeakers(segs []segments.DiarizedSegment) int {
	count := 0
	for _, speaker := range segments.Speakers(segs) {
		if speaker != segments.UnknownSpeaker {
			count++
		}
	}
	return count
}
