package guard

import (
	"context"
	"fmt"
	"strings"

	"github.com/rihcare/assistant-runtime/internal/llm"
	"github.com/rihcare/assistant-runtime/internal/routing"
)

// IntentBooster is an optional understanding pass for messages no rule lane
// claimed. It only ever upgrades an empty route to the counseling lane;
// explicit lanes, crisis included, are never overridden, and any guard
// rejection leaves the route empty.
type IntentBooster struct {
	agent *Agent
}

func NewIntentBooster(agent *Agent) *IntentBooster {
	return &IntentBooster{agent: agent}
}

// Boost classifies unrouted text. ok is true only when the model confidently
// labels the message as counseling territory. Crisis-sounding input never
// reaches the model; the agent refuses it before the call.
func (b *IntentBooster) Boost(ctx context.Context, userText string) (routing.Category, bool) {
	if strings.TrimSpace(userText) == "" || !b.agent.Enabled() {
		return "", false
	}

	outcome := b.agent.Run(ctx, llm.Prompt{User: b.buildPrompt(userText)})
	if outcome.Kind != OutcomeOK {
		return "", false
	}

	label := strings.ToUpper(outcome.Text)
	if strings.Contains(label, "COUNSELING") {
		return routing.CategoryCounseling, true
	}
	// MEDICAL stays unboosted until the planner grows a medical lane.
	return "", false
}

func (b *IntentBooster) buildPrompt(userText string) string {
	return fmt.Sprintf(`You are helping categorize UMBC student messages for a campus health assistant.
Read the user message and choose ONE best label:
- COUNSELING  (emotional stress, anxiety, feeling overwhelmed, mood, relationships, academic stress, etc.)
- MEDICAL     (physical symptoms, illness, injury, vaccines, immunizations, prescriptions, etc.)
- NEITHER     (everything else).

If the message sounds like the student may harm themselves or anyone else, answer NEITHER;
a separate safety system handles those messages.

User message: %q

Answer with exactly one word: COUNSELING, MEDICAL, or NEITHER.`, userText)
}
