package kb

import (
	"sort"
	"strings"
)

const (
	titleBoost    = 2.0
	textBoost     = 1.0
	categoryBoost = 1.0
	phraseBonus   = 0.5
)

// Retrieve ranks corpus chunks against the query and returns at most topK of
// them, best first. Only strictly positive scores qualify; ties keep corpus
// order. An empty or missing corpus yields an empty result, never an error.
func (l *Library) Retrieve(query string, topK int) []Chunk {
	if topK < 1 {
		topK = 1
	}
	l.ensure()

	l.mu.RLock()
	chunks, idf := l.chunks, l.idf
	l.mu.RUnlock()
	if len(chunks) == 0 {
		return nil
	}

	type scored struct {
		chunk Chunk
		score float64
	}
	var hits []scored
	for _, chunk := range chunks {
		if s := score(query, chunk, idf); s > 0 {
			hits = append(hits, scored{chunk: chunk, score: s})
		}
	}
	if len(hits) == 0 {
		return nil
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}

	results := make([]Chunk, len(hits))
	for i, hit := range hits {
		results[i] = hit.chunk
	}
	return results
}

// score sums idf(token) × weighted per-field term frequency over the query
// tokens, with a small bonus when a short query appears verbatim in the text.
// Tokens of two characters or fewer carry too little signal and are skipped.
func score(query string, chunk Chunk, idf map[string]float64) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	var tokens []string
	for _, token := range tokenize(q) {
		if len(token) > 2 {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		return 0
	}

	text := strings.ToLower(chunk.Text)
	title := strings.ToLower(chunk.Title)
	category := strings.ToLower(chunk.Category)

	total := 0.0
	for _, token := range tokens {
		weight := idf[token]
		if weight == 0 {
			continue
		}
		tf := float64(strings.Count(text, token))*textBoost +
			float64(strings.Count(title, token))*titleBoost +
			float64(strings.Count(category, token))*categoryBoost
		total += weight * tf
	}

	// Exact-phrase bonus for short queries ("after hours", "health records").
	var words []string
	for _, word := range strings.Fields(q) {
		if _, stop := stopWords[word]; !stop {
			words = append(words, word)
		}
	}
	if len(words) >= 2 && len(words) <= 4 && strings.Contains(text, strings.Join(words, " ")) {
		total += phraseBonus
	}
	return total
}
