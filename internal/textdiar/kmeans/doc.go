// Package kmeans provides the deterministic clustering and silhouette
// scoring used by embedding-based text diarization. Determinism comes from a
// pinned seed and a fixed number of restarts, so the same transcript always
// yields the same speaker grouping.
package kmeans
