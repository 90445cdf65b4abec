package textdiar

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"crosstalk/internal/services"
	"crosstalk/internal/textdiar/kmeans"
)

// Method selects the labeling policy.
type Method string

const (
	// MethodAlternating cycles SPK1..SPKN across units.
	MethodAlternating Method = "alternating"
	// MethodBlock assigns N contiguous, roughly equal runs of units.
	MethodBlock Method = "block"
	// MethodParagraph assigns pairs of units per speaker, cycling back to
	// SPK1 after the last speaker.
	MethodParagraph Method = "paragraph"
	// MethodFixed clusters unit embeddings into exactly N groups.
	MethodFixed Method = "fixed"
	// MethodAuto clusters unit embeddings, picking the speaker count by
	// silhouette score.
	MethodAuto Method = "auto"
	// MethodKeep preserves lines that already carry a speaker tag and
	// alternates over the rest.
	MethodKeep Method = "keep"
)

// ParseMethod maps a user-supplied method name to a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodAlternating:
		return MethodAlternating, nil
	case MethodBlock:
		return MethodBlock, nil
	case MethodParagraph:
		return MethodParagraph, nil
	case MethodFixed:
		return MethodFixed, nil
	case MethodAuto:
		return MethodAuto, nil
	case MethodKeep:
		return MethodKeep, nil
	default:
		return "", services.Wrap(services.ErrValidation, "textdiar", "method", fmt.Sprintf("unknown method %q", s), nil)
	}
}

// Embedder turns text units into fixed-length vectors. It is an externally
// supplied capability: the diarizer never owns its lifecycle and may call it
// repeatedly across runs.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Clusterer partitions vectors into k groups.
type Clusterer interface {
	Cluster(vectors [][]float64, k int) ([]int, error)
}

// Scorer rates a partition; higher is better.
type Scorer interface {
	Silhouette(vectors [][]float64, labels []int) (float64, error)
}

// Options control one diarization call.
type Options struct {
	Method      Method
	Speakers    int // alternating, block, paragraph, fixed
	MaxSpeakers int // auto
	// SentenceUnits splits lines into sentences before labeling.
	SentenceUnits bool
	// MergeShort coalesces consecutive units shorter than MergeThreshold.
	MergeShort     bool
	MergeThreshold int
}

// Diarizer assigns pseudo-speaker labels to transcript text with no acoustic
// signal. The embedder is optional: nil restricts usage to the methods that
// need no model.
type Diarizer struct {
	embedder  Embedder
	clusterer Clusterer
	scorer    Scorer
}

type silhouetteScorer struct{}

func (silhouetteScorer) Silhouette(vectors [][]float64, labels []int) (float64, error) {
	return kmeans.Silhouette(vectors, labels)
}

// New builds a Diarizer. A nil clusterer or scorer falls back to the
// built-in deterministic k-means and silhouette implementations.
func New(embedder Embedder, clusterer Clusterer, scorer Scorer) *Diarizer {
	if clusterer == nil {
		clusterer = kmeans.KMeans{}
	}
	if scorer == nil {
		scorer = silhouetteScorer{}
	}
	return &Diarizer{embedder: embedder, clusterer: clusterer, scorer: scorer}
}

var keepTagRe = regexp.MustCompile(`(?i)^(spk|speaker)\s*\d+[:\-]\s*`)

// Diarize labels the text according to opts and returns the relabeled text.
// Line order is preserved; when no unit transformation is requested, blank
// lines pass through verbatim without consuming a label slot.
func (d *Diarizer) Diarize(ctx context.Context, text string, opts Options) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	if opts.Method == MethodKeep {
		return strings.Join(d.keepLines(lines, opts), "\n"), nil
	}

	rebuilt := opts.SentenceUnits || opts.MergeShort
	units, slots := collectUnits(lines, opts)
	if len(units) == 0 {
		return strings.Join(lines, "\n"), nil
	}

	labels, err := d.labelUnits(ctx, units, opts)
	if err != nil {
		return "", err
	}

	if rebuilt {
		out := make([]string, len(units))
		for i, u := range units {
			out[i] = labels[i] + ": " + u
		}
		return strings.Join(out, "\n"), nil
	}

	// In-place: each non-empty line gets its label, blanks stay blank.
	out := make([]string, len(lines))
	copy(out, lines)
	for i, lineIdx := range slots {
		out[lineIdx] = labels[i] + ": " + strings.TrimSpace(lines[lineIdx])
	}
	return strings.Join(out, "\n"), nil
}

// collectUnits returns the labelable units and, when lines are used as-is,
// the index of the source line for each unit.
func collectUnits(lines []string, opts Options) (units []string, slots []int) {
	if opts.SentenceUnits || opts.MergeShort {
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if opts.SentenceUnits {
				units = append(units, SplitSentences(line)...)
			} else {
				units = append(units, strings.TrimSpace(line))
			}
		}
		if opts.MergeShort {
			units = MergeShort(units, opts.MergeThreshold)
		}
		return units, nil
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		units = append(units, strings.TrimSpace(line))
		slots = append(slots, i)
	}
	return units, slots
}

func (d *Diarizer) labelUnits(ctx context.Context, units []string, opts Options) ([]string, error) {
	switch opts.Method {
	case MethodAlternating, "":
		return alternatingLabels(len(units), opts.Speakers), nil
	case MethodBlock:
		return blockLabels(len(units), opts.Speakers), nil
	case MethodParagraph:
		return paragraphLabels(len(units), opts.Speakers), nil
	case MethodFixed:
		return d.clusterLabelsFixed(ctx, units, opts.Speakers)
	case MethodAuto:
		return d.clusterLabelsAuto(ctx, units, opts.MaxSpeakers)
	default:
		return nil, services.Wrap(services.ErrValidation, "textdiar", "label", fmt.Sprintf("unknown method %q", opts.Method), nil)
	}
}

func speakerTag(n int) string { return fmt.Sprintf("SPK%d", n) }

func alternatingLabels(count, speakers int) []string {
	if speakers < 1 {
		speakers = 1
	}
	out := make([]string, count)
	for i := range out {
		out[i] = speakerTag(i%speakers + 1)
	}
	return out
}

// blockLabels divides units into contiguous runs of roughly equal size. The
// fill is greedy: the last speaker absorbs any remainder.
func blockLabels(count, speakers int) []string {
	if speakers < 1 {
		speakers = 1
	}
	block := count / speakers
	if block < 1 {
		block = 1
	}
	out := make([]string, count)
	spk, filled := 1, 0
	for i := range out {
		out[i] = speakerTag(spk)
		filled++
		if filled >= block && spk < speakers {
			spk++
			filled = 0
		}
	}
	return out
}

// paragraphLabels hands each speaker two consecutive units, cycling back to
// the first speaker after the last. An odd unit count leaves the final
// speaker with a single unit.
func paragraphLabels(count, speakers int) []string {
	if speakers < 1 {
		speakers = 1
	}
	out := make([]string, count)
	spk := 1
	for i := 0; i < count; i += 2 {
		out[i] = speakerTag(spk)
		if i+1 < count {
			out[i+1] = speakerTag(spk)
		}
		spk = spk%speakers + 1
	}
	return out
}

func (d *Diarizer) clusterLabelsFixed(ctx context.Context, units []string, speakers int) ([]string, error) {
	if speakers < 1 {
		speakers = 1
	}
	// Never more clusters than points.
	if speakers > len(units) {
		speakers = len(units)
	}
	vectors, err := d.embed(ctx, units, MethodFixed)
	if err != nil {
		return nil, err
	}
	clusters, err := d.clusterer.Cluster(vectors, speakers)
	if err != nil {
		return nil, services.Wrap(services.ErrProcessing, "textdiar", "cluster", fmt.Sprintf("k=%d", speakers), err)
	}
	return sequentialSpeakerLabels(clusters), nil
}

func (d *Diarizer) clusterLabelsAuto(ctx context.Context, units []string, maxSpeakers int) ([]string, error) {
	if maxSpeakers < 2 {
		maxSpeakers = 2
	}
	if len(units) < 2 {
		return alternatingLabels(len(units), 1), nil
	}
	vectors, err := d.embed(ctx, units, MethodAuto)
	if err != nil {
		return nil, err
	}

	maxK := maxSpeakers
	if maxK > len(units) {
		maxK = len(units)
	}

	bestScore := -1.0
	var bestClusters []int
	// Ascending scan with strict improvement: on exact score ties the
	// earlier k wins, which keeps results stable run to run.
	for k := 2; k <= maxK; k++ {
		clusters, err := d.clusterer.Cluster(vectors, k)
		if err != nil {
			continue // this k is unusable, not fatal
		}
		score, err := d.scorer.Silhouette(vectors, clusters)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestClusters = clusters
		}
	}

	if bestClusters == nil {
		k := 2
		if len(units) < 2 {
			k = 1
		}
		clusters, err := d.clusterer.Cluster(vectors, k)
		if err != nil {
			return nil, services.Wrap(services.ErrProcessing, "textdiar", "cluster", fmt.Sprintf("fallback k=%d", k), err)
		}
		bestClusters = clusters
	}
	return sequentialSpeakerLabels(bestClusters), nil
}

func (d *Diarizer) embed(ctx context.Context, units []string, method Method) ([][]float64, error) {
	if d.embedder == nil {
		return nil, services.Wrap(services.ErrMissingCapability, "textdiar", string(method), "embedding model required", nil)
	}
	vectors, err := d.embedder.Embed(ctx, units)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(units) {
		return nil, services.Wrap(services.ErrProcessing, "textdiar", "embed",
			fmt.Sprintf("got %d vectors for %d units", len(vectors), len(units)), nil)
	}
	return vectors, nil
}

// sequentialSpeakerLabels renumbers cluster indices to SPK1.. in order of
// first appearance, so the first voice heard is always SPK1.
func sequentialSpeakerLabels(clusters []int) []string {
	mapping := make(map[int]int)
	next := 1
	out := make([]string, len(clusters))
	for i, c := range clusters {
		id, ok := mapping[c]
		if !ok {
			id = next
			mapping[c] = id
			next++
		}
		out[i] = speakerTag(id)
	}
	return out
}

// keepLines preserves already-tagged lines and alternates labels over the
// rest. Blank lines pass through and do not advance the cycle.
func (d *Diarizer) keepLines(lines []string, opts Options) []string {
	speakers := opts.Speakers
	if speakers < 1 {
		speakers = 1
	}
	out := make([]string, 0, len(lines))
	labeled := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			out = append(out, line)
			continue
		}
		if keepTagRe.MatchString(trimmed) {
			out = append(out, trimmed)
			labeled++
			continue
		}
		out = append(out, speakerTag(labeled%speakers+1)+": "+trimmed)
		labeled++
	}
	return out
}
