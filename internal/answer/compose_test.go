package answer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rihcare/assistant-runtime/internal/kb"
)

func TestTemplateKnownAndUnknownKeys(t *testing.T) {
	if got := Template("crisis"); !strings.Contains(got, "988") {
		t.Errorf("crisis template missing crisis line: %q", got)
	}
	if got := Template("title_ix"); !strings.Contains(got, "Title IX") {
		t.Errorf("title_ix template missing office name: %q", got)
	}
	if got := Template("bogus"); got != fallbackTemplate {
		t.Errorf("unknown key should fall back, got %q", got)
	}
	if Crisis() != Template("crisis") {
		t.Error("Crisis() must return the crisis template")
	}
}

func TestComposeNoChunks(t *testing.T) {
	got := Compose("anything", nil)
	if !strings.Contains(got, "couldn't find") {
		t.Errorf("expected no-results text, got %q", got)
	}
}

func TestComposeCitesChunks(t *testing.T) {
	chunks := []kb.Chunk{
		{Title: "Appointments", Text: "Schedule through the portal.", URL: "https://health.example.edu/appointments"},
		{Title: "Billing", Text: "Front office handles claims."},
	}
	got := Compose("appointments", chunks)

	if !strings.HasPrefix(got, "Here's what I found:") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "[1] Appointments: Schedule through the portal.") {
		t.Errorf("missing first citation: %q", got)
	}
	if !strings.Contains(got, "Sources:") {
		t.Errorf("missing sources section: %q", got)
	}
	if !strings.Contains(got, "(https://health.example.edu/appointments)") {
		t.Errorf("missing source URL: %q", got)
	}
	if !strings.Contains(got, "[2] Billing\n") && !strings.HasSuffix(got, "[2] Billing") {
		t.Errorf("URL-less source should cite title only: %q", got)
	}
}

func TestComposeCapsAtThreeChunksAndSnippetLength(t *testing.T) {
	long := strings.Repeat("counseling services and supports ", 20)
	chunks := []kb.Chunk{
		{Title: "One", Text: long},
		{Title: "Two", Text: "b"},
		{Title: "Three", Text: "c"},
		{Title: "Four", Text: "d"},
	}
	got := Compose("q", chunks)
	if strings.Contains(got, "[4]") {
		t.Errorf("more than three citations rendered: %q", got)
	}
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "[1] One: ") && len(line) > len("[1] One: ")+snippetLimit {
			t.Errorf("snippet not truncated: %d chars", len(line))
		}
	}
}

func TestComposeTruncatesOnRuneBoundary(t *testing.T) {
	// Place a multibyte rune straddling the byte limit.
	text := strings.Repeat("a", snippetLimit-1) + "’s walk-in hours are posted online"
	got := Compose("hours", []kb.Chunk{{Title: "Hours", Text: text}})

	if !utf8.ValidString(got) {
		t.Fatalf("composed answer contains invalid UTF-8: %q", got)
	}
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "[1] Hours: ") && strings.ContainsRune(line, '’') {
			t.Fatalf("rune past the limit should have been dropped whole: %q", line)
		}
	}
}

func TestTruncateSnippetShortInputUntouched(t *testing.T) {
	if got := truncateSnippet("café hours"); got != "café hours" {
		t.Fatalf("short snippet must pass through, got %q", got)
	}
}
