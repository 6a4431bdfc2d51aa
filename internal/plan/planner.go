package plan

import (
	"github.com/rihcare/assistant-runtime/internal/routing"
)

// RulePlanner maps a routed category plus lexical cues to an ordered plan of
// one or two steps. It is pure and deterministic.
type RulePlanner struct{}

func NewRulePlanner() *RulePlanner {
	return &RulePlanner{}
}

// Plan builds the step sequence for a message. The dispatcher short-circuits
// crisis routes before planning, but the planner reproduces the terminal
// crisis behavior anyway so it is safe to call directly.
func (p *RulePlanner) Plan(category routing.Category, text string) []Step {
	switch category {
	case routing.CategoryUrgentSafety:
		return []Step{{Tool: ToolCrisis}}

	case routing.CategoryTitleIX:
		return []Step{{Tool: ToolTitleIX}}

	case routing.CategoryHarassmentHate:
		return []Step{{Tool: ToolConduct}}

	case routing.CategoryRetentionWithdraw:
		return []Step{{Tool: ToolRetention}}

	case routing.CategoryCounseling:
		if HasGroupMarker(text) {
			return []Step{RetrieveStep(text)}
		}
		if LooksLikeAppointment(text) && !HasMedicalMarker(text) {
			return []Step{ClarifyStep(), RetrieveStep(text)}
		}
		return []Step{{Tool: ToolCounseling}}
	}

	// No safety/service lane matched.
	if LooksLikeAppointment(text) && !HasMedicalMarker(text) {
		return []Step{ClarifyStep(), RetrieveStep(text)}
	}
	return []Step{RetrieveStep(text)}
}
