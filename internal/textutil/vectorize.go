package textutil

import (
	"math"
	"sort"
)

// Vectorize turns each text into a dense TF-IDF vector over the shared
// vocabulary of all texts, L2-normalized. Every returned vector has the same
// length, so the result feeds straight into distance-based clustering. A
// text with no tokens maps to the zero vector.
func Vectorize(texts []string) [][]float64 {
	counts := make([]map[string]float64, len(texts))
	docFreq := make(map[string]int)
	for i, text := range texts {
		tokens := Tokenize(text)
		tf := make(map[string]float64, len(tokens))
		for _, token := range tokens {
			tf[token]++
		}
		counts[i] = tf
		for token := range tf {
			docFreq[token]++
		}
	}

	vocab := make([]string, 0, len(docFreq))
	for token := range docFreq {
		vocab = append(vocab, token)
	}
	sort.Strings(vocab)
	index := make(map[string]int, len(vocab))
	for i, token := range vocab {
		index[token] = i
	}

	n := float64(len(texts))
	idf := make([]float64, len(vocab))
	for i, token := range vocab {
		idf[i] = math.Log((n + 1) / (1 + float64(docFreq[token])))
	}

	vectors := make([][]float64, len(texts))
	for i, tf := range counts {
		vec := make([]float64, len(vocab))
		var norm float64
		for token, count := range tf {
			j := index[token]
			w := count * (idf[j] + 1) // +1 keeps corpus-wide terms from vanishing
			vec[j] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// CosineSimilarity compares two equal-length vectors. Zero vectors compare
// as 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / math.Sqrt(normA*normB)
}
