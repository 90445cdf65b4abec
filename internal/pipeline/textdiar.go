package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"crosstalk/internal/logging"
	"crosstalk/internal/runstore"
	"crosstalk/internal/segline"
	"crosstalk/internal/textdiar"
)

// TextDiarResult reports one completed text-only diarization run.
type TextDiarResult struct {
	RunID      string
	Text       string
	Speakers   int
	OutputPath string
}

// TextDiarize assigns pseudo-speaker labels to transcript text. sourcePath
// is recorded for history and used for the output name; pass "stdin" (or any
// placeholder) when the text did not come from a file, in which case no
// output file is written and the labeled text is only returned.
func (p *Pipeline) TextDiarize(ctx context.Context, sourcePath, text string, opts textdiar.Options) (TextDiarResult, error) {
	var result TextDiarResult

	ctx, run, err := p.beginRun(ctx, runstore.Run{
		Kind:       runstore.KindTextDiar,
		SourcePath: sourcePath,
		Method:     string(opts.Method),
	})
	if err != nil {
		return result, err
	}
	result.RunID = run.ID

	logger := logging.WithContext(ctx, p.logger)
	logger.Info("text diarization started",
		logging.String("method", string(opts.Method)),
		logging.Int("speakers", opts.Speakers))

	labeled, err := p.diarizer.Diarize(ctx, text, opts)
	if err != nil {
		p.finishRun(ctx, run, err)
		return result, err
	}

	speakerCount := len(segline.CollectSpeakers(labeled))
	result.Text = labeled
	result.Speakers = speakerCount

	fromFile := fileExists(sourcePath)
	if fromFile {
		outPath, err := p.writeLabeledText(sourcePath, labeled)
		if err != nil {
			p.finishRun(ctx, run, err)
			return result, err
		}
		result.OutputPath = outPath
		run.OutputPath = outPath
	}

	run.SpeakerCount = speakerCount
	run.SegmentCount = len(strings.Split(strings.TrimSpace(labeled), "\n"))
	p.finishRun(ctx, run, nil)

	logger.Info("text diarization finished",
		logging.Int("labeled_speakers", speakerCount))
	return result, nil
}

func (p *Pipeline) writeLabeledText(sourcePath, labeled string) (string, error) {
	if err := os.MkdirAll(p.cfg.Paths.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure output dir: %w", err)
	}
	outPath := filepath.Join(p.cfg.Paths.OutputDir, outputBase(sourcePath)+".diarized.txt")
	body := labeled
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	if err := os.WriteFile(outPath, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write labeled transcript: %w", err)
	}
	return outPath, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
