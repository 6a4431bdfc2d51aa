package routing

// DefaultRules returns the built-in rule set. These hand-authored triggers are
// the safety floor: a rules file can widen or reprioritize a lane but never
// silently drop these patterns.
func DefaultRules() []Rule {
	urgent := mustCompile(
		`\bkms\b`, `\bunalive\b`,
		`\bkill myself\b`, `\bsuicide\b`, `\bend it\b`,
		`\bhurt (myself|others)\b`, `\btake my life\b`, `\bno reason to live\b`,
	)
	titleIX := mustCompile(
		`\bsex(ual)?\s*(assault|harass(ed|ment|ing)?|misconduct|coercion)\b`,
		`\bharass(ed|ment|ing)?\b`,
		`\b(non\s*-?\s*consensual|nonconsensual)\b`,
		`\brape\b`, `\bstalk(ing)?\b`,
	)
	conduct := mustCompile(
		`\bslur\b`, `\bhate\b`, `\bracist\b`, `\bhomophobic\b`, `\bableist\b`,
		`\bthreat(s|en|ening)?\b`, `\bbully(ing)?\b`, `\bintimidat(e|ion|ing)?\b`,
		`\bdoxx(ing)?\b`, `\btargeted harassment\b`,
	)
	retention := mustCompile(
		`\b(withdraw|transfer|drop\s?out|leave school|quit college|leave of absence)\b`,
	)
	counseling := mustCompile(
		`\b(counsel(ing)?|therapy|therapist|mental health|talk to (someone|a counselor)|support group|workshop)\b`,
	)

	return []Rule{
		{Category: CategoryUrgentSafety, ResponseKey: "crisis", Patterns: urgent, Priority: DefaultPriority(CategoryUrgentSafety)},
		{Category: CategoryTitleIX, ResponseKey: "title_ix", Patterns: titleIX, Priority: DefaultPriority(CategoryTitleIX)},
		{Category: CategoryHarassmentHate, ResponseKey: "conduct", Patterns: conduct, Priority: DefaultPriority(CategoryHarassmentHate)},
		{Category: CategoryRetentionWithdraw, ResponseKey: "retention", Patterns: retention, Priority: DefaultPriority(CategoryRetentionWithdraw)},
		{Category: CategoryCounseling, ResponseKey: "counseling", Patterns: counseling, Priority: DefaultPriority(CategoryCounseling)},
	}
}
