package routing

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule binds a category to its trigger patterns, response template key and
// evaluation priority. Rules are immutable once constructed.
type Rule struct {
	Category    Category
	ResponseKey string
	Patterns    []*regexp.Regexp
	Priority    int
}

func (r Rule) matches(normalized string) bool {
	for _, pattern := range r.Patterns {
		if pattern.MatchString(normalized) {
			return true
		}
	}
	return false
}

// CompileTriggers turns literal trigger phrases into boundary-aware,
// case-insensitive patterns. Internal whitespace is flexible and hyphens are
// optional, so "walk-in", "walk in" and "walkin" all hit the same trigger.
func CompileTriggers(triggers []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(triggers))
	for _, trigger := range triggers {
		trigger = strings.TrimSpace(trigger)
		if trigger == "" {
			continue
		}
		expr := regexp.QuoteMeta(trigger)
		expr = strings.ReplaceAll(expr, "-", `[-\s]?`)
		expr = strings.ReplaceAll(expr, " ", `\s+`)
		pattern, err := regexp.Compile(`(?i)\b(?:` + expr + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("compile trigger %q: %w", trigger, err)
		}
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

func mustCompile(exprs ...string) []*regexp.Regexp {
	pattern := regexp.MustCompile(`(?i)` + strings.Join(exprs, "|"))
	return []*regexp.Regexp{pattern}
}
