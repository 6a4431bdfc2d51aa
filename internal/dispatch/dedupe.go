package dispatch

import "strings"

// dedupeLines drops lines whose case- and whitespace-insensitive form has
// appeared before, keeping first-occurrence order. Blank lines are structure,
// not content: they survive dedupe, but runs of them left behind by dropped
// lines collapse to a single separator.
func dedupeLines(text string) string {
	lines := strings.Split(text, "\n")
	seen := make(map[string]struct{}, len(lines))
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		key := strings.Join(strings.Fields(strings.ToLower(line)), " ")
		if key == "" {
			if len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
				continue
			}
			kept = append(kept, line)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
