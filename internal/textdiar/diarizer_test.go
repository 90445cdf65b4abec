package textdiar

import (
	"context"
	"errors"
	"strings"
	"testing"

	"crosstalk/internal/services"
)

// fakeEmbedder returns a fixed vector per distinct text so clustering is
// fully predictable: identical texts land in the same cluster.
type fakeEmbedder struct {
	vectors map[string][]float64
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.calls++
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, ok := f.vectors[t]
		if !ok {
			v = []float64{0, 0}
		}
		out[i] = v
	}
	return out, nil
}

func TestAlternatingCycle(t *testing.T) {
	d := New(nil, nil, nil)
	got, err := d.Diarize(context.Background(), "a\nb\nc\nd", Options{Method: MethodAlternating, Speakers: 2})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	want := "SPK1: a\nSPK2: b\nSPK1: c\nSPK2: d"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAlternatingPreservesBlankLines(t *testing.T) {
	d := New(nil, nil, nil)
	got, err := d.Diarize(context.Background(), "a\n\nb", Options{Method: MethodAlternating, Speakers: 2})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), got)
	}
	if lines[1] != "" {
		t.Fatalf("blank line must pass through, got %q", lines[1])
	}
	// The blank does not consume a cycle slot.
	if lines[0] != "SPK1: a" || lines[2] != "SPK2: b" {
		t.Fatalf("unexpected labels: %q", got)
	}
}

func TestBlockAssignsContiguousRuns(t *testing.T) {
	d := New(nil, nil, nil)
	got, err := d.Diarize(context.Background(), "a\nb\nc\nd\ne", Options{Method: MethodBlock, Speakers: 2})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	// block = 5/2 = 2: first two lines SPK1, rest SPK2 (last speaker absorbs
	// the remainder).
	want := "SPK1: a\nSPK1: b\nSPK2: c\nSPK2: d\nSPK2: e"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParagraphAssignsPairsCycling(t *testing.T) {
	d := New(nil, nil, nil)
	got, err := d.Diarize(context.Background(), "a\nb\nc\nd\ne", Options{Method: MethodParagraph, Speakers: 2})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	// Two units per speaker; the cycle wraps back to SPK1 and the odd unit
	// out stands alone.
	want := "SPK1: a\nSPK1: b\nSPK2: c\nSPK2: d\nSPK1: e"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParagraphSingleSpeaker(t *testing.T) {
	d := New(nil, nil, nil)
	got, err := d.Diarize(context.Background(), "a\nb\nc", Options{Method: MethodParagraph, Speakers: 1})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	want := "SPK1: a\nSPK1: b\nSPK1: c"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFixedClampsSpeakerCount(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{"x": {1, 1}}}
	d := New(emb, nil, nil)
	got, err := d.Diarize(context.Background(), "x", Options{Method: MethodFixed, Speakers: 5})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	if got != "SPK1: x" {
		t.Fatalf("got %q", got)
	}
}

func TestFixedGroupsBySimilarity(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"alpha one":  {0, 0},
		"alpha two":  {0.1, 0},
		"omega one":  {10, 10},
		"alpha tres": {0, 0.1},
	}}
	d := New(emb, nil, nil)
	got, err := d.Diarize(context.Background(), "alpha one\nalpha two\nomega one\nalpha tres",
		Options{Method: MethodFixed, Speakers: 2})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	want := "SPK1: alpha one\nSPK1: alpha two\nSPK2: omega one\nSPK1: alpha tres"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAutoPicksSilhouetteBestK(t *testing.T) {
	vectors := map[string][]float64{
		"a1": {0, 0}, "a2": {0.1, 0.1}, "a3": {0, 0.1},
		"b1": {10, 10}, "b2": {10.1, 10}, "b3": {10, 10.1},
	}
	emb := &fakeEmbedder{vectors: vectors}
	d := New(emb, nil, nil)
	got, err := d.Diarize(context.Background(), "a1\na2\na3\nb1\nb2\nb3",
		Options{Method: MethodAuto, MaxSpeakers: 5})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	want := "SPK1: a1\nSPK1: a2\nSPK1: a3\nSPK2: b1\nSPK2: b2\nSPK2: b3"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if emb.calls != 1 {
		t.Fatalf("embeddings must be computed once, got %d calls", emb.calls)
	}
}

func TestAutoSinglePointDegeneratesToOneSpeaker(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{"only": {1, 1}}}
	d := New(emb, nil, nil)
	got, err := d.Diarize(context.Background(), "only", Options{Method: MethodAuto, MaxSpeakers: 5})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	if got != "SPK1: only" {
		t.Fatalf("got %q", got)
	}
}

type failingClusterer struct {
	failK int
	inner Clusterer
}

func (f failingClusterer) Cluster(vectors [][]float64, k int) ([]int, error) {
	if k == f.failK {
		return nil, errors.New("degenerate convergence")
	}
	return f.inner.Cluster(vectors, k)
}

func TestAutoSkipsFailingCandidates(t *testing.T) {
	vectors := map[string][]float64{
		"a1": {0, 0}, "a2": {0.1, 0.1},
		"b1": {10, 10}, "b2": {10.1, 10},
	}
	emb := &fakeEmbedder{vectors: vectors}
	base := New(nil, nil, nil)
	d := New(emb, failingClusterer{failK: 2, inner: base.clusterer}, nil)
	got, err := d.Diarize(context.Background(), "a1\na2\nb1\nb2",
		Options{Method: MethodAuto, MaxSpeakers: 4})
	if err != nil {
		t.Fatalf("a failing candidate k must not be fatal: %v", err)
	}
	if !strings.Contains(got, "SPK1: a1") {
		t.Fatalf("got %q", got)
	}
}

func TestEmbeddingMethodsWithoutModel(t *testing.T) {
	d := New(nil, nil, nil)
	for _, method := range []Method{MethodFixed, MethodAuto} {
		_, err := d.Diarize(context.Background(), "a\nb", Options{Method: method, Speakers: 2, MaxSpeakers: 3})
		if !errors.Is(err, services.ErrMissingCapability) {
			t.Fatalf("method %s: expected ErrMissingCapability, got %v", method, err)
		}
	}
}

func TestKeepPreservesTaggedLines(t *testing.T) {
	d := New(nil, nil, nil)
	in := "SPK1: already tagged\nSpeaker 2: also tagged\nuntagged line\n\nanother"
	got, err := d.Diarize(context.Background(), in, Options{Method: MethodKeep, Speakers: 2})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	lines := strings.Split(got, "\n")
	if lines[0] != "SPK1: already tagged" {
		t.Fatalf("line 0: %q", lines[0])
	}
	if lines[1] != "Speaker 2: also tagged" {
		t.Fatalf("line 1: %q", lines[1])
	}
	if lines[2] != "SPK1: untagged line" {
		t.Fatalf("line 2: %q", lines[2])
	}
	if lines[3] != "" {
		t.Fatalf("line 3 must stay blank: %q", lines[3])
	}
	if lines[4] != "SPK2: another" {
		t.Fatalf("line 4: %q", lines[4])
	}
}

func TestSentenceUnits(t *testing.T) {
	d := New(nil, nil, nil)
	got, err := d.Diarize(context.Background(), "First one. Second one? Third one!",
		Options{Method: MethodAlternating, Speakers: 2, SentenceUnits: true})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	want := "SPK1: First one.\nSPK2: Second one?\nSPK1: Third one!"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMergeShortUnits(t *testing.T) {
	d := New(nil, nil, nil)
	got, err := d.Diarize(context.Background(), "yes\nno\nmaybe\nthis line is clearly long enough to stand on its own",
		Options{Method: MethodAlternating, Speakers: 2, MergeShort: true, MergeThreshold: 10})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	lines := strings.Split(got, "\n")
	if len(lines) >= 4 {
		t.Fatalf("short units should have merged, got %d lines: %q", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], "SPK1: yes no") {
		t.Fatalf("line 0: %q", lines[0])
	}
}

func TestEmptyInput(t *testing.T) {
	d := New(nil, nil, nil)
	got, err := d.Diarize(context.Background(), "   \n  ", Options{Method: MethodAlternating, Speakers: 2})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	if got != "" && strings.TrimSpace(got) != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestParseMethod(t *testing.T) {
	if m, err := ParseMethod(" Auto "); err != nil || m != MethodAuto {
		t.Fatalf("got %v, %v", m, err)
	}
	if m, err := ParseMethod("paragraph"); err != nil || m != MethodParagraph {
		t.Fatalf("got %v, %v", m, err)
	}
	if _, err := ParseMethod("bogus"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
