package textutil

import (
	"regexp"
	"strings"
)

var tokenSplitPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Tokenize splits text into lowercase word tokens. Single-character tokens
// are dropped; transcript fillers like "no" and "ok" stay in.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len([]rune(token)) < 2 {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}
