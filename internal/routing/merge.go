package routing

import (
	"fmt"
	"regexp"
	"sort"
)

// Merge combines the built-in defaults with matrix overrides. For each
// overridden category the file's triggers are unioned with the default
// patterns (safety defaults are never replaced), while a non-empty response
// key or positive priority from the file wins over the default. Categories
// without an override pass through untouched. The result is sorted by
// ascending priority and is safe to hand to a Ruleset.
func Merge(defaults []Rule, overrides []Override) ([]Rule, error) {
	byCategory := make(map[Category]Override, len(overrides))
	for _, override := range overrides {
		existing, ok := byCategory[override.Category]
		if !ok {
			byCategory[override.Category] = override
			continue
		}
		// Repeated rows for a category accumulate triggers; the last
		// non-empty key/priority wins.
		existing.Triggers = append(existing.Triggers, override.Triggers...)
		if override.ResponseKey != "" {
			existing.ResponseKey = override.ResponseKey
		}
		if override.Priority > 0 {
			existing.Priority = override.Priority
		}
		byCategory[override.Category] = existing
	}

	merged := make([]Rule, 0, len(defaults))
	for _, rule := range defaults {
		override, ok := byCategory[rule.Category]
		if !ok {
			merged = append(merged, rule)
			continue
		}
		patterns, err := CompileTriggers(override.Triggers)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", rule.Category, err)
		}
		combined := rule
		combined.Patterns = append(append([]*regexp.Regexp(nil), rule.Patterns...), patterns...)
		if override.ResponseKey != "" {
			combined.ResponseKey = override.ResponseKey
		}
		if override.Priority > 0 {
			combined.Priority = override.Priority
		}
		merged = append(merged, combined)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Priority < merged[j].Priority
	})
	return merged, nil
}
