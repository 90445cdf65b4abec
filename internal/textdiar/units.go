package textdiar

import (
	"strings"
	"unicode"
)

// DefaultMergeThreshold is the character count below which consecutive units
// are coalesced, so one-word lines do not become one-word speaker turns.
const DefaultMergeThreshold = 40

// SplitSentences breaks a line at sentence boundaries: '.', '?' or '!'
// followed by whitespace. The terminator stays with its sentence.
func SplitSentences(line string) []string {
	var out []string
	var buf strings.Builder
	runes := []rune(strings.TrimSpace(line))
	for i, r := range runes {
		buf.WriteRune(r)
		if (r == '.' || r == '?' || r == '!') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(buf.String()); s != "" {
				out = append(out, s)
			}
			buf.Reset()
		}
	}
	if s := strings.TrimSpace(buf.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// MergeShort coalesces consecutive units until the running buffer reaches the
// threshold, then starts a new unit. Greedy: the final unit may stay short.
func MergeShort(units []string, threshold int) []string {
	if threshold <= 0 {
		threshold = DefaultMergeThreshold
	}
	var merged []string
	buf := ""
	for _, u := range units {
		if len(buf) < threshold {
			buf = strings.TrimSpace(buf + " " + u)
		} else {
			merged = append(merged, buf)
			buf = u
		}
	}
	if buf != "" {
		merged = append(merged, buf)
	}
	return merged
}
