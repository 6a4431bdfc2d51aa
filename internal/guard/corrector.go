package guard

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rihcare/assistant-runtime/internal/llm"
)

// Correction describes what a spelling pass did to a message. Changes hold
// "old→new" word pairs; the raw original text is never recorded.
type Correction struct {
	Corrected bool
	Changes   []string
}

// safetyTerms must survive any correction verbatim. Losing one rejects the
// whole correction.
var safetyTerms = []string{
	"suicide", "kill myself", "self-harm", "hurt myself", "hurt others",
	"take my life", "kys", "kms", "unalive", "end it all", "crisis",
}

var wordRe = regexp.MustCompile(`\b[a-z0-9]+\b`)

// Corrector fixes obvious typos in short queries ("apointment",
// "counceling") through a guarded model call. It is conservative by
// construction: any suspicious output reverts to the original text.
type Corrector struct {
	agent *Agent
}

func NewCorrector(agent *Agent) *Corrector {
	return &Corrector{agent: agent}
}

// Correct returns the (possibly) corrected text and a change summary. On any
// guard rejection it returns the input unchanged.
func (c *Corrector) Correct(ctx context.Context, text string) (string, Correction) {
	if len(strings.TrimSpace(text)) < 3 {
		return text, Correction{}
	}
	if !c.agent.Enabled() {
		return text, Correction{}
	}

	outcome := c.agent.Run(ctx, llm.Prompt{User: c.buildPrompt(text)})
	if outcome.Kind != OutcomeOK {
		return text, Correction{}
	}

	corrected := validateSafetyPreservation(text, outcome.Text)
	corrected = preventOverCorrection(text, corrected)

	changes := detectChanges(text, corrected)
	if len(changes) == 0 {
		return text, Correction{}
	}
	return corrected, Correction{Corrected: true, Changes: changes}
}

func (c *Corrector) buildPrompt(text string) string {
	return fmt.Sprintf(`Correct only obvious and common misspellings in this campus health query: %q

Focus on clear typos for these specific terms:
appointment, counseling, medical, therapy, vaccine, workshop, schedule

Be CONSERVATIVE - only correct when you're very confident.
PRESERVE all other words exactly as written.

Return ONLY the corrected text, no explanations.`, text)
}

// validateSafetyPreservation rejects a correction that loses any safety term
// present in the original.
func validateSafetyPreservation(original, corrected string) string {
	origLower := strings.ToLower(original)
	corrLower := strings.ToLower(corrected)
	for _, term := range safetyTerms {
		if strings.Contains(origLower, term) && !strings.Contains(corrLower, term) {
			return original
		}
	}
	return corrected
}

// preventOverCorrection reverts corrections that drift more than 30% in
// length or more than two words in count.
func preventOverCorrection(original, corrected string) string {
	if original == corrected || len(original) == 0 {
		return corrected
	}

	lengthDiff := float64(abs(len(corrected)-len(original))) / float64(len(original))
	if lengthDiff > 0.3 {
		return original
	}

	origWords := len(wordRe.FindAllString(strings.ToLower(original), -1))
	corrWords := len(wordRe.FindAllString(strings.ToLower(corrected), -1))
	if abs(corrWords-origWords) > 2 {
		return original
	}
	return corrected
}

// detectChanges pairs removed words with plausible replacements, producing
// "old→new" entries.
func detectChanges(original, corrected string) []string {
	if original == corrected {
		return nil
	}

	origSet := wordSet(original)
	corrSet := wordSet(corrected)

	var changes []string
	for added := range corrSet {
		if _, ok := origSet[added]; ok {
			continue
		}
		for removed := range origSet {
			if _, ok := corrSet[removed]; ok {
				continue
			}
			if plausibleCorrection(removed, added) {
				changes = append(changes, removed+"→"+added)
				break
			}
		}
	}
	sort.Strings(changes)
	return changes
}

func wordSet(text string) map[string]struct{} {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// plausibleCorrection is deliberately strict: same first letter, length
// within two characters.
func plausibleCorrection(original, corrected string) bool {
	if original == corrected || original == "" || corrected == "" {
		return false
	}
	return original[0] == corrected[0] && abs(len(original)-len(corrected)) <= 2
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
