package segline

import (
	"math"
	"strings"
	"testing"
)

func TestParseTimestampForms(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.2", 1.2},
		{"90", 90},
		{"01:02", 62},
		{"00:01:02.340", 62.34},
		{"00:01:02,340", 62.34},
		{"1:00:00", 3600},
		{"00:00:01.5", 1.5},
	}
	for _, tc := range cases {
		got, ok := ParseTimestamp(tc.in)
		if !ok {
			t.Fatalf("ParseTimestamp(%q) failed", tc.in)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "abc", "1:2:3:4", "::"} {
		if _, ok := ParseTimestamp(bad); ok {
			t.Fatalf("ParseTimestamp(%q) should fail", bad)
		}
	}
}

func TestParseSpeakerAfterBracket(t *testing.T) {
	line := "[00:01:02.340 - 00:01:05.900] SPEAKER_01: hello there"
	got := Parse(line, 3)
	if got == nil {
		t.Fatal("expected a parsed line")
	}
	if got.BlockIndex != 3 {
		t.Fatalf("block index: got %d", got.BlockIndex)
	}
	if got.Speaker != "SPEAKER_01" || got.SpeakerPos != PositionAfter {
		t.Fatalf("speaker: got %q at %v", got.Speaker, got.SpeakerPos)
	}
	if got.Text != "hello there" {
		t.Fatalf("text: got %q", got.Text)
	}
	if math.Abs(got.Start-62.34) > 1e-9 || math.Abs(got.End-65.9) > 1e-9 {
		t.Fatalf("bounds: got %v-%v", got.Start, got.End)
	}
}

func TestParseSpeakerBeforeBracket(t *testing.T) {
	got := Parse("SPEAKER_01: [1.2-3.4] hello there", 0)
	if got == nil {
		t.Fatal("expected a parsed line")
	}
	if got.Speaker != "SPEAKER_01" || got.SpeakerPos != PositionBefore {
		t.Fatalf("speaker: got %q at %v", got.Speaker, got.SpeakerPos)
	}
	if got.Start != 1.2 || got.End != 3.4 {
		t.Fatalf("bounds: got %v-%v", got.Start, got.End)
	}
	if got.Text != "hello there" {
		t.Fatalf("text: got %q", got.Text)
	}
}

func TestParsePlainLine(t *testing.T) {
	got := Parse("[00:00:01.230 - 00:00:03.900] some text", 0)
	if got == nil {
		t.Fatal("expected a parsed line")
	}
	if got.Speaker != "" || got.SpeakerPos != PositionNone {
		t.Fatalf("expected no speaker, got %q", got.Speaker)
	}
	if got.Text != "some text" {
		t.Fatalf("text: got %q", got.Text)
	}
}

func TestParseEnDashAndCommaFraction(t *testing.T) {
	got := Parse("[00:00:01,500 – 00:00:02,750] SPK1: ok", 0)
	if got == nil {
		t.Fatal("expected a parsed line")
	}
	if got.Start != 1.5 || got.End != 2.75 {
		t.Fatalf("bounds: got %v-%v", got.Start, got.End)
	}
}

func TestParseSwapsReversedBounds(t *testing.T) {
	got := Parse("[5.0-2.0] SPK1: x", 0)
	if got == nil {
		t.Fatal("expected a parsed line")
	}
	if got.Start != 2.0 || got.End != 5.0 {
		t.Fatalf("expected swapped bounds 2-5, got %v-%v", got.Start, got.End)
	}
}

func TestParseGarbageReturnsNil(t *testing.T) {
	for _, line := range []string{
		"just some text with no brackets",
		"",
		"   ",
		"[not-a-time - also-not] text",
	} {
		if got := Parse(line, 0); got != nil {
			t.Fatalf("Parse(%q) should return nil, got %+v", line, got)
		}
	}
}

func TestParseKeepsTextBeforeBracket(t *testing.T) {
	got := Parse("trailing words [1.0-2.0]", 0)
	if got == nil {
		t.Fatal("expected a parsed line")
	}
	if got.Text != "trailing words" {
		t.Fatalf("text: got %q", got.Text)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, line := range []string{
		"[00:00:01.000 - 00:00:02.500] SPK1: hello",
		"SPK1: [00:00:01.000 - 00:00:02.500] hello",
		"[00:00:01.000 - 00:00:02.500] hello",
	} {
		parsed := Parse(line, 0)
		if parsed == nil {
			t.Fatalf("Parse(%q) failed", line)
		}
		if got := parsed.Format(); got != line {
			t.Fatalf("round trip: got %q, want %q", got, line)
		}
	}
}

func TestFormatDefaultBracket(t *testing.T) {
	l := &Line{Start: 1, End: 2.5, Speaker: "SPK1", Text: "hi"}
	got := l.Format()
	want := "[00:00:01.000 - 00:00:02.500] SPK1: hi"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenameSpeakersOnlyTouchesLabels(t *testing.T) {
	in := strings.Join([]string{
		"[1.0-2.0] SPK1: SPK1 said hello",
		"SPK1: [3.0-4.0] more words",
		"body text mentioning SPK1: stays untouched",
	}, "\n")
	out := RenameSpeakers(in, map[string]string{"SPK1": "Anna"})
	lines := strings.Split(out, "\n")
	if lines[0] != "[1.0-2.0] Anna: SPK1 said hello" {
		t.Fatalf("line 0: %q", lines[0])
	}
	if lines[1] != "Anna: [3.0-4.0] more words" {
		t.Fatalf("line 1: %q", lines[1])
	}
	if lines[2] != "body text mentioning SPK1: stays untouched" {
		t.Fatalf("line 2 must be untouched: %q", lines[2])
	}
}

func TestCollectSpeakers(t *testing.T) {
	text := strings.Join([]string{
		"[1.0-2.0] SPK2: b",
		"[2.0-3.0] SPK1: a",
		"SPK2: untimed line",
		"no speakers here",
	}, "\n")
	got := CollectSpeakers(text)
	if len(got) != 2 || got[0] != "SPK2" || got[1] != "SPK1" {
		t.Fatalf("expected [SPK2 SPK1] in first-appearance order, got %v", got)
	}
}
