package dispatch

import (
	"regexp"
	"strings"
)

// DeclineDetector recognizes a student declining services or asking for
// alternatives. It is pure regex: declines must be explainable, and only
// clear refusals count.
type DeclineDetector struct {
	patterns []*regexp.Regexp
}

var declineExprs = []string{
	// Polite refusals.
	`\bno thanks?\b`,
	`\bno thank you\b`,
	`\bnah\b`,
	`\bnope\b`,

	// "I'm good / fine".
	`\bi\s*(?:am|m|'m|’m)?\s*(?:good|fine)\b`,

	// Not interested.
	`\bnot interested\b`,

	// Generic "don't need/want".
	`\bi\s*(?:do\s*not|don't|dont)\s*(?:need|want)\b`,

	// Alternatives / something else.
	`\bany other options?\b`,
	`\bany alternatives?\b`,
	`\banother option\b`,
	`\bsomething else\b`,
	`\bother (?:support|resource|resources|campus resources?)\b`,
}

var (
	bareNo          = map[string]struct{}{"no": {}, "nah": {}, "nope": {}}
	noWordRe        = regexp.MustCompile(`(?i)\bno\b`)
	serviceDomainRe = regexp.MustCompile(`(?i)\b(?:counseling|counselling|therapy|doctor|medical|appointment|session|rih|help|support)\b`)
)

func NewDeclineDetector() *DeclineDetector {
	patterns := make([]*regexp.Regexp, 0, len(declineExprs))
	for _, expr := range declineExprs {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+expr))
	}
	return &DeclineDetector{patterns: patterns}
}

// IsDecline reports whether the message clearly declines services or asks
// for other options. The call is stateless, so a bare "no" never counts: it
// could answer anything.
func (d *DeclineDetector) IsDecline(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if _, bare := bareNo[strings.ToLower(t)]; bare {
		return false
	}

	for _, pattern := range d.patterns {
		if pattern.MatchString(t) {
			return true
		}
	}

	// "no" plus a service word in the same message.
	return noWordRe.MatchString(t) && serviceDomainRe.MatchString(t)
}
