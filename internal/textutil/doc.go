// Package textutil provides lexical text helpers: TF-IDF vectorization for
// model-free similarity and file name sanitization.
package textutil
