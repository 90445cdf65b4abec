// Package embedder computes sentence embeddings for transcript units by
// running a sentence-transformers model as a uvx subprocess.
package embedder
