package routing

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"I want to KMS", "i want to kill myself"},
		{"i was harrased", "i was harassed"},
		{"non–consensual", "non-consensual"},
		{"drop   from\tcollege", "drop out"},
		{"thinking about sucide", "thinking about suicide"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMatchDefaultLanes(t *testing.T) {
	rs := NewDefaultRuleset()
	cases := []struct {
		text     string
		category Category
		key      string
	}{
		{"i want to kms", CategoryUrgentSafety, "crisis"},
		{"I feel like there is no reason to live", CategoryUrgentSafety, "crisis"},
		{"I was harassed by someone", CategoryTitleIX, "title_ix"},
		{"i was harrassed", CategoryTitleIX, "title_ix"},
		{"non-consensual contact", CategoryTitleIX, "title_ix"},
		{"someone keeps posting racist stuff about me", CategoryHarassmentHate, "conduct"},
		{"I want to drop from college", CategoryRetentionWithdraw, "retention"},
		{"leave of absence", CategoryRetentionWithdraw, "retention"},
		{"join a support group", CategoryCounseling, "counseling"},
		{"can I talk to someone about stress", CategoryCounseling, "counseling"},
	}
	for _, tc := range cases {
		category, key, ok := rs.Match(tc.text)
		if !ok {
			t.Errorf("Match(%q): no lane matched, want %s", tc.text, tc.category)
			continue
		}
		if category != tc.category || key != tc.key {
			t.Errorf("Match(%q) = (%s, %s), want (%s, %s)", tc.text, category, key, tc.category, tc.key)
		}
	}
}

func TestMatchNoLane(t *testing.T) {
	rs := NewDefaultRuleset()
	for _, text := range []string{"what are your hours", "how much does a flu shot cost", ""} {
		if category, key, ok := rs.Match(text); ok {
			t.Errorf("Match(%q) = (%s, %s), want no match", text, category, key)
		}
	}
}

func TestUrgentSafetyWinsOverOtherLanes(t *testing.T) {
	rs := NewDefaultRuleset()
	// Matches both urgent_safety (kill myself) and counseling (counseling).
	category, _, ok := rs.Match("I want to kill myself, should I try counseling?")
	if !ok || category != CategoryUrgentSafety {
		t.Fatalf("expected urgent_safety to win, got %q (ok=%v)", category, ok)
	}
}

func TestRouterFacade(t *testing.T) {
	router := NewRouter(NewDefaultRuleset())

	result := router.Route("i want to kms")
	if !result.Matched() || result.Category != CategoryUrgentSafety || result.ResponseKey != "crisis" {
		t.Fatalf("unexpected route result: %+v", result)
	}

	if result := router.Route("where can I park"); result.Matched() {
		t.Fatalf("expected no match, got %+v", result)
	}
}

func TestRouterSwap(t *testing.T) {
	router := NewRouter(&Ruleset{})

	if result := router.Route("i want to kms"); result.Matched() {
		t.Fatalf("empty ruleset should match nothing, got %+v", result)
	}

	router.Swap(NewDefaultRuleset())
	if result := router.Route("i want to kms"); result.Category != CategoryUrgentSafety {
		t.Fatalf("swapped ruleset not in effect: %+v", result)
	}

	// A nil swap is ignored rather than clearing the rules.
	router.Swap(nil)
	if result := router.Route("i want to kms"); result.Category != CategoryUrgentSafety {
		t.Fatalf("nil swap must keep the previous ruleset: %+v", result)
	}
}

func TestCompileTriggersBoundaries(t *testing.T) {
	patterns, err := CompileTriggers([]string{"walk-in", "support group"})
	if err != nil {
		t.Fatalf("CompileTriggers: %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(patterns))
	}

	walkIn := patterns[0]
	for _, text := range []string{"do you take walk-in visits", "do you take walk in visits", "WALK-IN only"} {
		if !walkIn.MatchString(text) {
			t.Errorf("expected %q to match walk-in trigger", text)
		}
	}
	if walkIn.MatchString("jaywalking") {
		t.Error("walk-in trigger must not match inside other words")
	}

	group := patterns[1]
	if !group.MatchString("is there a support   group today") {
		t.Error("expected flexible whitespace inside phrase triggers")
	}
	if group.MatchString("supportgroups are nice") {
		t.Error("phrase trigger must respect word boundaries")
	}
}
