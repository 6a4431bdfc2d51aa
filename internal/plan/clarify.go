package plan

import "strings"

// ClarifyDetector decides whether a message is ambiguously appointment-like,
// i.e. worth a counseling-vs-medical clarifying question. It gates the
// dispatcher's one-shot clarify-then-retry recovery.
type ClarifyDetector interface {
	Ambiguous(text string) bool
}

// NewClarifyDetector returns the detector for a config-selected version.
// Version 2 is the default; anything unrecognized falls back to it.
func NewClarifyDetector(version int) ClarifyDetector {
	if version == 1 {
		return heuristicDetector{}
	}
	return markerDetector{}
}

// heuristicDetector (v1) mirrors the planner's own cue check: scheduling
// language with no explicit medical marker.
type heuristicDetector struct{}

func (heuristicDetector) Ambiguous(text string) bool {
	return LooksLikeAppointment(text) && !HasMedicalMarker(text)
}

// markerDetector (v2) is stricter: it requires explicit scheduling intent,
// never fires on safety/Title-IX language, and treats a message as ambiguous
// only when it names neither or both of the medical and counseling sides.
type markerDetector struct{}

var intentMarkers = []string{
	"appointment", "appointments", "schedule", "scheduling",
	"reschedule", "cancel", "session", "sessions", "book",
	"availability", "available", "today", "same-day", "same day",
}

var clarifyMedicalMarkers = []string{
	"medical", "doctor", "nurse", "immunization", "vaccine", "shot",
	"flu", "tetanus", "hpv", "mmr", "tb", "lab", "testing",
}

var counselingMarkers = []string{
	"counseling", "counselling", "therapy", "therapist", "counselor",
	"group", "support group", "workshop",
}

var exclusionTerms = []string{
	"suicide", "self-harm", "kill myself", "kms", "kys", "unalive",
	"assault", "harass", "harassed", "harassment", "non-consensual",
	"title ix", "bias incident", "report bias", "withdraw", "leave of absence",
}

func (markerDetector) Ambiguous(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}
	// Safety and policy lanes always win over clarification.
	if containsAny(t, exclusionTerms) {
		return false
	}
	if !containsAny(t, intentMarkers) {
		return false
	}

	medical := containsAny(t, clarifyMedicalMarkers)
	counseling := containsAny(t, counselingMarkers)
	// Neither side named, or both: ambiguous. Exactly one: specific enough.
	return medical == counseling
}
