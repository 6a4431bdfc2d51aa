package kb

import (
	"math"
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// Minimal stop-word list so generic campus terms don't dominate scoring.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {},
	"for": {}, "in": {}, "on": {}, "at": {}, "by": {}, "with": {}, "from": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "being": {}, "been": {},
	"it": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"you": {}, "your": {}, "we": {}, "our": {}, "us": {}, "they": {}, "their": {}, "i": {},
	"call": {}, "page": {}, "hours": {}, "location": {}, "campus": {}, "service": {}, "services": {},
}

func tokenize(s string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(s), -1)
	tokens := raw[:0:0]
	for _, token := range raw {
		if _, stop := stopWords[token]; stop {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// buildIDF computes a smoothed inverse-document-frequency weight per token
// over the text, title and category fields of every chunk:
// idf = ln((N - df + 0.5)/(df + 0.5) + 1).
func buildIDF(chunks []Chunk) map[string]float64 {
	idf := make(map[string]float64)
	if len(chunks) == 0 {
		return idf
	}

	df := make(map[string]int)
	for _, chunk := range chunks {
		seen := make(map[string]struct{})
		for _, token := range tokenize(chunk.Text) {
			seen[token] = struct{}{}
		}
		for _, token := range tokenize(chunk.Title) {
			seen[token] = struct{}{}
		}
		for _, token := range tokenize(chunk.Category) {
			seen[token] = struct{}{}
		}
		for token := range seen {
			df[token]++
		}
	}

	n := float64(len(chunks))
	for token, count := range df {
		idf[token] = math.Log((n-float64(count)+0.5)/(float64(count)+0.5) + 1.0)
	}
	return idf
}
