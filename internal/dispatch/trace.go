package dispatch

import "time"

// EventKind names a trace entry.
type EventKind string

const (
	EventRoute        EventKind = "route"
	EventDecline      EventKind = "decline"
	EventIntentBoost  EventKind = "intent_boost"
	EventPlan         EventKind = "plan"
	EventTool         EventKind = "tool"
	EventSpellCorrect EventKind = "spell_correct"
	EventEnhance      EventKind = "enhance"
)

// Event is one append-only trace entry. The trace is observational: nothing
// in the pipeline reads it back, it exists for audit and diagnostics.
type Event struct {
	Time        time.Time `json:"time"`
	Kind        EventKind `json:"event"`
	Category    string    `json:"category,omitempty"`
	ResponseKey string    `json:"response_key,omitempty"`
	Planner     string    `json:"planner,omitempty"`
	Fallback    string    `json:"fallback,omitempty"`
	Steps       int       `json:"steps,omitempty"`
	Tool        string    `json:"tool,omitempty"`
	Hits        int       `json:"hits,omitempty"`
	Changes     []string  `json:"changes,omitempty"`
}

func newEvent(kind EventKind) Event {
	return Event{Time: time.Now().UTC(), Kind: kind}
}
