package guard

import (
	"context"
	"regexp"
	"strings"

	"github.com/rihcare/assistant-runtime/internal/llm"
	"github.com/rihcare/assistant-runtime/internal/routing"
)

// criticalTokens must survive enhancement whenever they appear in the
// original reply: emergency numbers, campus contacts, and the service names
// students are told to search for.
var criticalTokens = []string{
	"911",
	"988",
	"410-455-5555", // campus police
	"410-455-2542", // RIH main line
	"410-455-1717", // Title IX office
	"UMBC Police",
	"Title IX",
	"Retriever Integrated Health",
	"RIH",
	"health.umbc.edu",
}

var linkRe = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\s)]+)\)`)

// crisisResponseMarkers flag replies that carry safety content and must not
// be rewritten, regardless of how the message was routed.
var crisisResponseMarkers = []string{
	"if this is an emergency",
	"call 911",
	"call 988",
	"suicide",
	"self-harm",
	"crisis line",
	"emergency services",
	"title ix office",
}

// EnhanceContext carries the routing facts the enhancer needs to decide
// whether a reply may be touched at all.
type EnhanceContext struct {
	UserText string
	Category routing.Category
	IsCrisis bool
}

// Enhancer optionally polishes a final reply for clarity and warmth. Every
// failure mode returns the original text: disabled integration, off-topic
// message, lost critical token, lost link, or output that itself reads like
// a crisis message.
type Enhancer struct {
	agent *Agent
}

func NewEnhancer(agent *Agent) *Enhancer {
	return &Enhancer{agent: agent}
}

func (e *Enhancer) Enhance(ctx context.Context, text string, ec EnhanceContext) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 10 {
		return text
	}
	if isSafetyResponse(text, ec) {
		return text
	}
	if !e.agent.Enabled() {
		return text
	}
	if !e.agent.AllowedTopic(ec.UserText) {
		return text
	}

	outcome := e.agent.Run(ctx, llm.Prompt{
		System: "You refine replies for a university health services assistant. " +
			"Improve clarity, empathy, and structure WITHOUT changing factual " +
			"content, URLs, or phone numbers. Return ONLY the improved reply text.",
		User: "User message:\n" + ec.UserText + "\n\nCurrent reply:\n" + text,
	})
	if outcome.Kind != OutcomeOK {
		return text
	}

	enhanced := outcome.Text
	if !preservesCriticalContent(text, enhanced) {
		return text
	}
	if LooksLikeCrisis(enhanced) {
		return text
	}
	return enhanced
}

func isSafetyResponse(text string, ec EnhanceContext) bool {
	if ec.IsCrisis || ec.Category == routing.CategoryUrgentSafety {
		return true
	}
	lower := strings.ToLower(text)
	for _, marker := range crisisResponseMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// preservesCriticalContent requires every critical token and every markdown
// link URL of the original to appear in the enhanced text.
func preservesCriticalContent(original, enhanced string) bool {
	origLower := strings.ToLower(original)
	enhLower := strings.ToLower(enhanced)
	for _, token := range criticalTokens {
		lowered := strings.ToLower(token)
		if strings.Contains(origLower, lowered) && !strings.Contains(enhLower, lowered) {
			return false
		}
	}

	origLinks := linkURLs(original)
	if len(origLinks) == 0 {
		return true
	}
	enhLinks := linkURLs(enhanced)
	for url := range origLinks {
		if _, ok := enhLinks[url]; !ok {
			return false
		}
	}
	return true
}

func linkURLs(text string) map[string]struct{} {
	matches := linkRe.FindAllStringSubmatch(text, -1)
	urls := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		urls[m[2]] = struct{}{}
	}
	return urls
}
