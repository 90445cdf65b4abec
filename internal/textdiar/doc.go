// Package textdiar partitions a plain transcript into pseudo-speaker-labeled
// lines without any acoustic signal. The simplest method needs no model at
// all; the embedding methods cluster sentence embeddings supplied through an
// injected capability. Accuracy is traded for availability: this is the path
// used when no audio (or no diarization engine) is at hand.
package textdiar
