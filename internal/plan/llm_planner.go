package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rihcare/assistant-runtime/internal/llm"
	"github.com/rihcare/assistant-runtime/internal/routing"
)

// ErrInvalidPlan covers every way an external planner's output can be
// unusable: non-JSON, empty, a disallowed tool, or a missing input object.
// Callers fall back to the rule planner.
var ErrInvalidPlan = errors.New("invalid external plan")

// LLMPlanner asks an external model for a single-step plan drawn from a
// strict tool whitelist. Safety is already decided by the time it runs; it
// only chooses between retrieval and the policy tools.
type LLMPlanner struct {
	responder llm.Responder
	allowed   map[Tool]struct{}
}

func NewLLMPlanner(responder llm.Responder, allowed []Tool) *LLMPlanner {
	if len(allowed) == 0 {
		allowed = AllTools()
	}
	set := make(map[Tool]struct{}, len(allowed))
	for _, tool := range allowed {
		set[tool] = struct{}{}
	}
	return &LLMPlanner{responder: responder, allowed: set}
}

func (p *LLMPlanner) Plan(ctx context.Context, category routing.Category, text string) ([]Step, error) {
	if p.responder == nil {
		return nil, fmt.Errorf("%w: no responder configured", ErrInvalidPlan)
	}

	raw, err := p.responder.Reply(ctx, llm.Prompt{User: p.buildPrompt(category, text)})
	if err != nil {
		return nil, fmt.Errorf("external planner call: %w", err)
	}

	var steps []Step
	if err := json.Unmarshal([]byte(raw), &steps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: empty plan", ErrInvalidPlan)
	}

	step := steps[0]
	if _, ok := p.allowed[step.Tool]; !ok {
		return nil, fmt.Errorf("%w: tool %q not allowed", ErrInvalidPlan, step.Tool)
	}
	if step.Tool == ToolRetrieve && step.Input.Query == "" {
		step.Input.Query = text
	}
	// Single-step contract: anything past the first step is discarded.
	return []Step{step}, nil
}

func (p *LLMPlanner) buildPrompt(category routing.Category, text string) string {
	names := make([]string, 0, len(p.allowed))
	for tool := range p.allowed {
		names = append(names, tool.String())
	}
	sort.Strings(names)

	lane := "none"
	if category != "" {
		lane = category.String()
	}
	return "You are a planning component for a campus health assistant. " +
		"SAFETY IS ALREADY CHECKED. Choose exactly ONE tool from this whitelist: " +
		strings.Join(names, ", ") + ". Return ONLY valid JSON (no prose), of the form: " +
		`[{"tool":"<one_of_whitelist>","input":{"query":"..."}}]. ` +
		"Use 'retrieve' for general RIH FAQs. Use policy tools when the user clearly asks for them. " +
		"If unclear, prefer 'retrieve'.\n\n" +
		"route_level=" + lane + "\n" +
		"user_text=" + text + "\n"
}
