package segments

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownSpeaker is assigned when no speaker turn overlaps a text segment.
const UnknownSpeaker = "UNKNOWN"

// TextSegment is one span of recognized speech from the transcription engine.
type TextSegment struct {
	Start float64
	End   float64
	Text  string
}

// SpeakerTurn is one span attributed to a single speaker by the diarization
// engine. Speaker is an opaque engine label, not stable across runs.
type SpeakerTurn struct {
	Start   float64
	End     float64
	Speaker string
}

// DiarizedSegment pairs a text segment with the speaker whose turn overlaps
// it the most.
type DiarizedSegment struct {
	Speaker string
	Start   float64
	End     float64
	Text    string
}

// Normalize trims the text and swaps reversed bounds in place. Engines
// occasionally emit end < start; that is repaired here rather than rejected.
func (s *TextSegment) Normalize() {
	s.Text = strings.TrimSpace(s.Text)
	if s.End < s.Start {
		s.Start, s.End = s.End, s.Start
	}
}

// Normalize swaps reversed bounds in place.
func (t *SpeakerTurn) Normalize() {
	if t.End < t.Start {
		t.Start, t.End = t.End, t.Start
	}
}

// Duration returns the segment length in seconds.
func (s TextSegment) Duration() float64 { return s.End - s.Start }

// Overlap returns the duration during which both spans occur.
func Overlap(aStart, aEnd, bStart, bEnd float64) float64 {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	if end <= start {
		return 0
	}
	return end - start
}

// Align assigns each text segment the speaker whose turn overlaps it the most
// in time. Ties keep the first turn in iteration order. Segments with no
// positive overlap get UnknownSpeaker. The output preserves input order and
// count exactly; no segment is merged, split, or dropped.
func Align(texts []TextSegment, turns []SpeakerTurn) []DiarizedSegment {
	out := make([]DiarizedSegment, 0, len(texts))
	for _, seg := range texts {
		best := UnknownSpeaker
		bestOverlap := 0.0
		for _, turn := range turns {
			ov := Overlap(seg.Start, seg.End, turn.Start, turn.End)
			if ov > bestOverlap {
				bestOverlap = ov
				best = turn.Speaker
			}
		}
		out = append(out, DiarizedSegment{
			Speaker: best,
			Start:   seg.Start,
			End:     seg.End,
			Text:    seg.Text,
		})
	}
	return out
}

// LabelMap renames raw engine speaker labels to user-facing display names.
// Labels without an entry pass through unchanged.
type LabelMap map[string]string

// Apply returns the display name for a raw label.
func (m LabelMap) Apply(label string) string {
	if m == nil {
		return label
	}
	if name, ok := m[label]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	return label
}

// SequentialLabels builds a LabelMap that renumbers the raw labels in the
// order of their first appearance: SPK1, SPK2, and so on. UnknownSpeaker is
// left unmapped so unattributed segments stay visibly unknown.
func SequentialLabels(segs []DiarizedSegment) LabelMap {
	m := make(LabelMap)
	next := 1
	for _, seg := range segs {
		if seg.Speaker == UnknownSpeaker {
			continue
		}
		if _, ok := m[seg.Speaker]; !ok {
			m[seg.Speaker] = fmt.Sprintf("SPK%d", next)
			next++
		}
	}
	return m
}

// Speakers returns the distinct speaker labels in segs, sorted.
func Speakers(segs []DiarizedSegment) []string {
	seen := make(map[string]struct{})
	for _, seg := range segs {
		seen[seg.Speaker] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
