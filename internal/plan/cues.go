package plan

import "strings"

// Lexical cue sets. These exact word lists are part of the planner contract:
// they decide when scheduling language is ambiguous enough to clarify.

// Direct scheduling terms.
var appointmentWords = []string{
	"appointment", "appointments", "schedule", "scheduling", "book", "booking",
}

// Colloquial or ambiguous scheduling phrasing.
var appointmentAmbiguousWords = []string{
	"session", "sessions", "visit", "intake", "reschedule", "cancel",
	"availability", "walk-in", "same-day",
}

// Explicit medical markers; their presence means the request is not ambiguous
// between counseling and medical care.
var medicalMarkers = []string{
	"medical", "doctor", "nurse", "immunization", "vaccine", "shot",
}

// Group/workshop markers route counseling questions to retrieval so the
// student sees cited sources instead of a static paragraph.
var groupMarkers = []string{
	"group", "workshop",
}

func containsAny(text string, words []string) bool {
	t := strings.ToLower(text)
	for _, word := range words {
		if strings.Contains(t, word) {
			return true
		}
	}
	return false
}

// LooksLikeAppointment reports whether the text mentions any scheduling
// phrasing, direct or colloquial.
func LooksLikeAppointment(text string) bool {
	return containsAny(text, appointmentWords) || containsAny(text, appointmentAmbiguousWords)
}

// HasMedicalMarker reports whether the text names an explicitly medical
// service.
func HasMedicalMarker(text string) bool {
	return containsAny(text, medicalMarkers)
}

// HasGroupMarker reports whether the text mentions groups or workshops.
func HasGroupMarker(text string) bool {
	return containsAny(text, groupMarkers)
}
