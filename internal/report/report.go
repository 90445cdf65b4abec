package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"crosstalk/internal/segline"
	"crosstalk/internal/segments"
)

// Document is one rendered transcript plus the metadata shown in report
// headers.
type Document struct {
	Title       string
	SourcePath  string
	Language    string
	Model       string
	GeneratedAt time.Time
	Diarized    bool
	Segments    []segments.DiarizedSegment
	Labels      segments.LabelMap
}

// DisplayName normalizes a speaker name for presentation. Engine-style labels
// (SPK1, UNKNOWN) pass through unchanged; human names get title casing.
func DisplayName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return segments.UnknownSpeaker
	}
	if trimmed == strings.ToUpper(trimmed) {
		return trimmed
	}
	return cases.Title(language.Und).String(trimmed)
}

// speakerFor resolves the display label for one segment.
func (d *Document) speakerFor(seg segments.DiarizedSegment) string {
	return DisplayName(d.Labels.Apply(seg.Speaker))
}

// RenderText renders the document as plain transcript lines. Diarized
// documents carry a speaker label after the time bracket; transcript-only
// documents omit it.
func RenderText(doc *Document) string {
	var b strings.Builder
	for _, seg := range doc.Segments {
		bracket := fmt.Sprintf("[%s - %s]",
			segline.FormatTimestamp(seg.Start), segline.FormatTimestamp(seg.End))
		if doc.Diarized {
			fmt.Fprintf(&b, "%s %s: %s\n", bracket, doc.speakerFor(seg), seg.Text)
		} else {
			fmt.Fprintf(&b, "%s %s\n", bracket, seg.Text)
		}
	}
	return b.String()
}

// line is one row handed to the HTML template.
type line struct {
	Start   string
	End     string
	Speaker string
	Text    string
}

type htmlData struct {
	Title       string
	SourcePath  string
	Language    string
	Model       string
	GeneratedAt string
	Diarized    bool
	Speakers    []string
	Lines       []line
}

var htmlTemplate = template.Must(template.New("report").Parse(reportHTML))

// RenderHTML writes an HTML transcript report to w.
func RenderHTML(w io.Writer, doc *Document) error {
	data := htmlData{
		Title:       doc.Title,
		SourcePath:  doc.SourcePath,
		Language:    doc.Language,
		Model:       doc.Model,
		GeneratedAt: doc.GeneratedAt.UTC().Format(time.RFC3339),
		Diarized:    doc.Diarized,
	}
	if data.Title == "" {
		data.Title = "Transcript"
	}

	seen := make(map[string]bool)
	for _, seg := range doc.Segments {
		row := line{
			Start: segline.FormatTimestamp(seg.Start),
			End:   segline.FormatTimestamp(seg.End),
			Text:  seg.Text,
		}
		if doc.Diarized {
			row.Speaker = doc.speakerFor(seg)
			if !seen[row.Speaker] {
				seen[row.Speaker] = true
				data.Speakers = append(data.Speakers, row.Speaker)
			}
		}
		data.Lines = append(data.Lines, row)
	}

	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}
