package textdiar

import (
	"context"

	"crosstalk/internal/textutil"
)

// LocalEmbedder produces TF-IDF vectors without any external model. The
// vectors are much weaker than sentence embeddings but need no downloads, no
// network and no Python runtime.
type LocalEmbedder struct{}

// Embed implements Embedder over the shared vocabulary of the given texts.
func (LocalEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return textutil.Vectorize(texts), nil
}
