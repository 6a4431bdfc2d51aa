package plan

// Tool is the closed set of executable capabilities a plan step can name.
type Tool string

const (
	ToolRetrieve   Tool = "retrieve"
	ToolClarify    Tool = "clarify"
	ToolCounseling Tool = "counseling"
	ToolTitleIX    Tool = "title_ix"
	ToolConduct    Tool = "conduct"
	ToolRetention  Tool = "retention"
	ToolCrisis     Tool = "crisis"
)

func (t Tool) String() string {
	return string(t)
}

// Known reports whether t is one of the defined tools. Unknown tools are not
// an error at this layer; the executor degrades them to retrieve.
func (t Tool) Known() bool {
	switch t {
	case ToolRetrieve, ToolClarify, ToolCounseling, ToolTitleIX, ToolConduct, ToolRetention, ToolCrisis:
		return true
	}
	return false
}

// AllTools lists every defined tool, used as the external planner whitelist.
func AllTools() []Tool {
	return []Tool{ToolRetrieve, ToolClarify, ToolCounseling, ToolTitleIX, ToolConduct, ToolRetention, ToolCrisis}
}

// Input is the small payload a step carries to its tool.
type Input struct {
	// Query is the retrieval query for retrieve steps.
	Query string `json:"query,omitempty"`
	// Kind tags clarify steps (e.g. "counseling_vs_medical_appt").
	Kind string `json:"kind,omitempty"`
	// Question is the clarifying question to surface.
	Question string `json:"question,omitempty"`
	// Options are the short answers a clarify step offers.
	Options []string `json:"options,omitempty"`
}

// Step is one planned tool invocation. Steps are produced fresh per call and
// never persisted.
type Step struct {
	Tool  Tool  `json:"tool"`
	Input Input `json:"input"`
}

// RetrieveStep builds a retrieval step for a query.
func RetrieveStep(query string) Step {
	return Step{Tool: ToolRetrieve, Input: Input{Query: query}}
}

// ClarifyStep builds the counseling-vs-medical clarify step.
func ClarifyStep() Step {
	return Step{Tool: ToolClarify, Input: Input{
		Kind:     "counseling_vs_medical_appt",
		Question: "Do you want to schedule a **counseling** appointment or a **medical** appointment?",
		Options:  []string{"counseling", "medical"},
	}}
}
