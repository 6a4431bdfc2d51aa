package answer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rihcare/assistant-runtime/internal/kb"
)

const (
	maxCitedChunks = 3
	snippetLimit   = 220
)

const noResultsText = "I couldn't find a specific page in the knowledge base yet. " +
	"Try rephrasing or ask about hours, appointments, billing, or counseling."

// Compose renders ranked knowledge chunks as a numbered answer with a
// trailing Sources section. Zero chunks produce a gentle no-results message.
func Compose(query string, chunks []kb.Chunk) string {
	if len(chunks) == 0 {
		return noResultsText
	}
	if len(chunks) > maxCitedChunks {
		chunks = chunks[:maxCitedChunks]
	}

	lines := []string{"Here's what I found:"}
	var sources []string
	for i, chunk := range chunks {
		title := chunk.Title
		if title == "" {
			title = "RIH"
		}
		snippet := truncateSnippet(strings.TrimSpace(chunk.Text))
		lines = append(lines, fmt.Sprintf("[%d] %s: %s", i+1, title, snippet))
		if chunk.URL != "" {
			sources = append(sources, fmt.Sprintf("[%d] %s (%s)", i+1, title, chunk.URL))
		} else {
			sources = append(sources, fmt.Sprintf("[%d] %s", i+1, title))
		}
	}

	lines = append(lines, "", "Sources:")
	lines = append(lines, sources...)
	return strings.Join(lines, "\n")
}

// truncateSnippet caps a snippet at snippetLimit bytes without ever cutting
// through a multibyte rune.
func truncateSnippet(snippet string) string {
	if len(snippet) <= snippetLimit {
		return snippet
	}
	end := snippetLimit
	for end > 0 && !utf8.RuneStart(snippet[end]) {
		end--
	}
	return strings.TrimRight(snippet[:end], " ")
}
