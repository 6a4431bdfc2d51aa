package routing

import "strings"

// canonical rewrites applied before matching. Longer phrases first so a long
// variant is never clobbered by a shorter one it contains.
var canonicalForms = []struct {
	variant   string
	canonical string
}{
	// Safety slang and typos
	{"commited suicide", "committed suicide"},
	{"drop from college", "drop out"},
	{"leave uni", "leave university"},
	{"unalive", "kill myself"},
	{"sucide", "suicide"},
	{"kms", "kill myself"},
	{"kys", "kill myself"},
	// Title IX / harassment typos
	{"harrasment", "harassment"},
	{"harrassment", "harassment"},
	{"harrased", "harassed"},
}

var dashFolder = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
)

// Normalize lower-cases text, substitutes known slang/typo variants with their
// canonical forms, folds unicode dash variants to a plain hyphen, and collapses
// whitespace. Matching always runs against the normalized form.
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = dashFolder.Replace(t)
	for _, form := range canonicalForms {
		t = strings.ReplaceAll(t, form.variant, form.canonical)
	}
	return strings.Join(strings.Fields(t), " ")
}
