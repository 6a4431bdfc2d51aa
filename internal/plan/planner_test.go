package plan

import (
	"testing"

	"github.com/rihcare/assistant-runtime/internal/routing"
)

func TestRulePlannerSafetyLanes(t *testing.T) {
	planner := NewRulePlanner()

	cases := []struct {
		category routing.Category
		text     string
		want     Tool
	}{
		{routing.CategoryUrgentSafety, "i want to end it all", ToolCrisis},
		{routing.CategoryTitleIX, "i was harassed by my TA", ToolTitleIX},
		{routing.CategoryHarassmentHate, "someone wrote a slur on my door", ToolConduct},
		{routing.CategoryRetentionWithdraw, "i want to withdraw this semester", ToolRetention},
	}
	for _, tc := range cases {
		steps := planner.Plan(tc.category, tc.text)
		if len(steps) != 1 {
			t.Fatalf("category %s: got %d steps, want 1", tc.category, len(steps))
		}
		if steps[0].Tool != tc.want {
			t.Fatalf("category %s: got tool %s, want %s", tc.category, steps[0].Tool, tc.want)
		}
	}
}

func TestRulePlannerCounseling(t *testing.T) {
	planner := NewRulePlanner()

	t.Run("group goes to retrieval", func(t *testing.T) {
		steps := planner.Plan(routing.CategoryCounseling, "are there any support groups for anxiety")
		if len(steps) != 1 || steps[0].Tool != ToolRetrieve {
			t.Fatalf("got %+v, want single retrieve step", steps)
		}
		if steps[0].Input.Query == "" {
			t.Fatalf("retrieve step should carry the user text as query")
		}
	})

	t.Run("ambiguous appointment clarifies then retrieves", func(t *testing.T) {
		steps := planner.Plan(routing.CategoryCounseling, "i need to book an appointment")
		if len(steps) != 2 {
			t.Fatalf("got %d steps, want 2", len(steps))
		}
		if steps[0].Tool != ToolClarify || steps[1].Tool != ToolRetrieve {
			t.Fatalf("got tools %s,%s, want clarify,retrieve", steps[0].Tool, steps[1].Tool)
		}
		if steps[0].Input.Kind != "counseling_vs_medical_appt" {
			t.Fatalf("clarify kind = %q", steps[0].Input.Kind)
		}
		if len(steps[0].Input.Options) != 2 {
			t.Fatalf("clarify options = %v", steps[0].Input.Options)
		}
	})

	t.Run("medical marker skips clarify", func(t *testing.T) {
		steps := planner.Plan(routing.CategoryCounseling, "book a doctor appointment for my flu shot")
		if len(steps) != 1 || steps[0].Tool != ToolCounseling {
			t.Fatalf("got %+v, want single counseling step", steps)
		}
	})

	t.Run("plain counseling text stays on counseling tool", func(t *testing.T) {
		steps := planner.Plan(routing.CategoryCounseling, "i have been feeling really stressed lately")
		if len(steps) != 1 || steps[0].Tool != ToolCounseling {
			t.Fatalf("got %+v, want single counseling step", steps)
		}
	})
}

func TestRulePlannerNoLane(t *testing.T) {
	planner := NewRulePlanner()

	t.Run("ambiguous appointment clarifies", func(t *testing.T) {
		steps := planner.Plan("", "can i reschedule my session")
		if len(steps) != 2 || steps[0].Tool != ToolClarify || steps[1].Tool != ToolRetrieve {
			t.Fatalf("got %+v, want clarify,retrieve", steps)
		}
	})

	t.Run("everything else retrieves", func(t *testing.T) {
		steps := planner.Plan("", "what are the health center hours")
		if len(steps) != 1 || steps[0].Tool != ToolRetrieve {
			t.Fatalf("got %+v, want single retrieve step", steps)
		}
		if steps[0].Input.Query != "what are the health center hours" {
			t.Fatalf("query = %q", steps[0].Input.Query)
		}
	})
}

func TestToolKnown(t *testing.T) {
	for _, tool := range AllTools() {
		if !tool.Known() {
			t.Fatalf("tool %s should be known", tool)
		}
	}
	if Tool("send_email").Known() {
		t.Fatalf("undefined tool should not be known")
	}
}
