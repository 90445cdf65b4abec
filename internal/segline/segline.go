package segline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Position records where a speaker label sat relative to the timestamp
// bracket in the parsed line, so formatting can reproduce it.
type Position int

const (
	// PositionNone means the line carried no speaker label.
	PositionNone Position = iota
	// PositionBefore means "SPEAKER: [a - b] text".
	PositionBefore
	// PositionAfter means "[a - b] SPEAKER: text".
	PositionAfter
)

// Line is the structured view over one rendered segment line. It is
// recomputed on demand by re-parsing text; nothing persists it.
type Line struct {
	BlockIndex int
	Bracket    string
	Start      float64
	End        float64
	Speaker    string
	Text       string
	SpeakerPos Position
}

var (
	// Both '-' and '–' are accepted between timestamps, and ',' may be used
	// as the decimal separator.
	bracketRe = regexp.MustCompile(`\[([0-9:.,]+)\s*[-–]\s*([0-9:.,]+)\]`)

	// Speaker labels may contain anything except ':' and brackets, so a
	// label never swallows a timestamp. 64 chars max.
	speakerRe = regexp.MustCompile(`^([^:\[\]]{1,64}):\s*(.*)$`)

	plainSecondsRe = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	clockRe        = regexp.MustCompile(`^(?:(\d{1,2}):)?(\d{1,2}):(\d{2})(?:\.(\d{1,3}))?$`)
)

// ParseTimestamp reads a timestamp in plain decimal seconds, MM:SS, or
// H:MM:SS form. The fraction separator may be '.' or ','. Returns false for
// anything else.
func ParseTimestamp(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	if plainSecondsRe.MatchString(s) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hours := 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	frac := m[4]
	millis := 0
	if frac != "" {
		for len(frac) < 3 {
			frac += "0"
		}
		millis, _ = strconv.Atoi(frac[:3])
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000.0, true
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	s := seconds - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}

// Parse reads one rendered segment line. It recognizes, in priority order:
//
//	SPEAKER_00: [00:00:01.230 - 00:00:03.900] some text
//	[12.34-15.67] SPEAKER_00: some text
//	[00:00:01.230 - 00:00:03.900] some text
//
// Reversed bounds are swapped silently. Lines with no parseable timestamp
// bracket return nil; malformed input never raises.
func Parse(line string, blockIndex int) *Line {
	raw := strings.TrimRight(line, "\n")
	rest := strings.TrimSpace(raw)
	if rest == "" {
		return nil
	}

	speaker := ""
	pos := PositionNone

	// Speaker before the bracket, only when a bracket actually follows.
	if m := speakerRe.FindStringSubmatch(rest); m != nil && bracketRe.MatchString(m[2]) {
		speaker = strings.TrimSpace(m[1])
		pos = PositionBefore
		rest = strings.TrimSpace(m[2])
	}

	loc := bracketRe.FindStringSubmatchIndex(rest)
	if loc == nil {
		return nil
	}
	bracket := rest[loc[0]:loc[1]]
	start, okA := ParseTimestamp(rest[loc[2]:loc[3]])
	end, okB := ParseTimestamp(rest[loc[4]:loc[5]])
	if !okA || !okB {
		return nil
	}

	after := strings.TrimSpace(rest[loc[1]:])
	before := strings.TrimSpace(rest[:loc[0]])

	// Speaker right after the bracket.
	if speaker == "" && after != "" {
		if m := speakerRe.FindStringSubmatch(after); m != nil {
			speaker = strings.TrimSpace(m[1])
			after = strings.TrimSpace(m[2])
			pos = PositionAfter
		}
	}

	text := after
	// Rare case: content only before the bracket. Keep it instead of
	// dropping information.
	if text == "" && before != "" && pos == PositionNone {
		text = before
	}

	if end < start {
		start, end = end, start
	}

	return &Line{
		BlockIndex: blockIndex,
		Bracket:    bracket,
		Start:      start,
		End:        end,
		Speaker:    speaker,
		Text:       text,
		SpeakerPos: pos,
	}
}

// Format renders the line back to text, preserving the speaker position the
// line was parsed with. A line that never had a bracket recorded gets a
// default "[start - end]" one.
func (l *Line) Format() string {
	bracket := l.Bracket
	if bracket == "" {
		bracket = fmt.Sprintf("[%s - %s]", FormatTimestamp(l.Start), FormatTimestamp(l.End))
	}
	speaker := strings.TrimSpace(l.Speaker)
	text := strings.TrimSpace(l.Text)

	switch {
	case speaker != "" && l.SpeakerPos == PositionBefore:
		return strings.TrimRight(fmt.Sprintf("%s: %s %s", speaker, bracket, text), " ")
	case speaker != "":
		// After-bracket is also the default placement for a speaker added to
		// a line that previously had none.
		return strings.TrimRight(fmt.Sprintf("%s %s: %s", bracket, speaker, text), " ")
	default:
		return strings.TrimRight(fmt.Sprintf("%s %s", bracket, text), " ")
	}
}

// RenameSpeakers rewrites speaker labels in rendered transcript text. Only
// label positions are touched: the start of a line or right after a closing
// bracket, immediately before ':'. Body text is never rewritten.
func RenameSpeakers(text string, names map[string]string) string {
	out := text
	for old, name := range names {
		if strings.TrimSpace(old) == "" || strings.TrimSpace(name) == "" || old == name {
			continue
		}
		quoted := regexp.QuoteMeta(old)
		lineStart := regexp.MustCompile(`(?m)^(\s*)` + quoted + `:`)
		out = lineStart.ReplaceAllString(out, "${1}"+name+":")
		afterBracket := regexp.MustCompile(`(\]\s*)` + quoted + `:`)
		out = afterBracket.ReplaceAllString(out, "${1}"+name+":")
	}
	return out
}

// CollectSpeakers returns the distinct speaker labels found in rendered
// transcript text, in order of first appearance. Lines without a timestamp
// bracket still contribute when they look like "SPEAKER: text".
func CollectSpeakers(text string) []string {
	var speakers []string
	seen := make(map[string]struct{})
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		speakers = append(speakers, s)
	}
	for i, line := range strings.Split(text, "\n") {
		if parsed := Parse(line, i); parsed != nil {
			add(parsed.Speaker)
			continue
		}
		if m := speakerRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			add(m[1])
		}
	}
	return speakers
}
