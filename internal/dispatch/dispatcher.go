package dispatch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rihcare/assistant-runtime/internal/answer"
	"github.com/rihcare/assistant-runtime/internal/guard"
	"github.com/rihcare/assistant-runtime/internal/kb"
	"github.com/rihcare/assistant-runtime/internal/plan"
	"github.com/rihcare/assistant-runtime/internal/routing"
)

const maxPlanSteps = 2

// ExternalPlanner is an optional model-backed planner. Any error makes the
// dispatcher fall back to the rule planner.
type ExternalPlanner interface {
	Plan(ctx context.Context, category routing.Category, text string) ([]plan.Step, error)
}

// Result is the full outcome of one message: the final text plus the routing
// facts and the trace that explains how the text was produced.
type Result struct {
	Text        string    `json:"text"`
	Category    string    `json:"category,omitempty"`
	ResponseKey string    `json:"response_key,omitempty"`
	IsCrisis    bool      `json:"is_crisis,omitempty"`
	Trace       []Event   `json:"trace"`
}

// Options carries the optional collaborators. Every field may be zero; the
// dispatcher degrades to route-plan-retrieve with built-in defaults.
type Options struct {
	External        ExternalPlanner
	Corrector       *guard.Corrector
	Enhancer        *guard.Enhancer
	Booster         *guard.IntentBooster
	ClarifyDetector plan.ClarifyDetector
	RetrieveTopK    int
	Logger          *slog.Logger
}

// Dispatcher drives one message through decline check, routing, planning,
// bounded tool execution, and the optional polish passes. It is safe for
// concurrent use once constructed.
type Dispatcher struct {
	router    *routing.Router
	library   *kb.Library
	planner   *plan.RulePlanner
	external  ExternalPlanner
	clarify   plan.ClarifyDetector
	decline   *DeclineDetector
	corrector *guard.Corrector
	enhancer  *guard.Enhancer
	booster   *guard.IntentBooster
	topK      int
	logger    *slog.Logger
}

func New(router *routing.Router, library *kb.Library, opts Options) *Dispatcher {
	if opts.RetrieveTopK < 1 {
		opts.RetrieveTopK = 3
	}
	if opts.ClarifyDetector == nil {
		opts.ClarifyDetector = plan.NewClarifyDetector(2)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Dispatcher{
		router:    router,
		library:   library,
		planner:   plan.NewRulePlanner(),
		external:  opts.External,
		clarify:   opts.ClarifyDetector,
		decline:   NewDeclineDetector(),
		corrector: opts.Corrector,
		enhancer:  opts.Enhancer,
		booster:   opts.Booster,
		topK:      opts.RetrieveTopK,
		logger:    opts.Logger,
	}
}

// Respond handles one message end to end. It never returns an error: every
// internal failure degrades to safe fixed text.
func (d *Dispatcher) Respond(ctx context.Context, userText string) (result Result) {
	var trace []Event
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("respond panicked, returning fallback text", "panic", r)
			result = Result{Text: answer.Template(""), Trace: trace}
		}
	}()

	route := d.router.Route(userText)

	// Declines beat everything except safety.
	if route.Category != routing.CategoryUrgentSafety && d.decline.IsDecline(userText) {
		trace = append(trace, newEvent(EventDecline))
		return Result{Text: answer.Alternatives, Trace: trace}
	}

	routeEv := newEvent(EventRoute)
	routeEv.Category = string(route.Category)
	routeEv.ResponseKey = route.ResponseKey
	trace = append(trace, routeEv)

	// Crisis is terminal. No spelling, no planning, no post-processing.
	if route.Category == routing.CategoryUrgentSafety || route.ResponseKey == "crisis" {
		return Result{
			Text:        answer.Crisis(),
			Category:    string(route.Category),
			ResponseKey: route.ResponseKey,
			IsCrisis:    true,
			Trace:       trace,
		}
	}

	// An optional model hint may claim unrouted messages for the counseling
	// lane. It runs only after safety routing and never overrides a lane.
	if !route.Matched() && d.booster != nil {
		if category, ok := d.booster.Boost(ctx, userText); ok {
			route = routing.Result{Category: category, ResponseKey: string(category)}
			boostEv := newEvent(EventIntentBoost)
			boostEv.Category = string(category)
			boostEv.ResponseKey = route.ResponseKey
			trace = append(trace, boostEv)
		}
	}

	// Other matched lanes answer with their fixed template, except counseling
	// messages that carry scheduling or group cues and deserve a real plan.
	if route.Matched() {
		if route.Category != routing.CategoryCounseling ||
			(!plan.LooksLikeAppointment(userText) && !plan.HasGroupMarker(userText)) {
			return Result{
				Text:        answer.Template(route.ResponseKey),
				Category:    string(route.Category),
				ResponseKey: route.ResponseKey,
				Trace:       trace,
			}
		}
	}

	// Spelling pass rewrites only the planning/retrieval query. The routed
	// decision above is already made on the raw text and stays made.
	queryText := userText
	if d.corrector != nil {
		corrected, meta := d.corrector.Correct(ctx, userText)
		if meta.Corrected {
			queryText = corrected
			spellEv := newEvent(EventSpellCorrect)
			spellEv.Changes = meta.Changes
			trace = append(trace, spellEv)
		}
	}

	steps, planEv := d.selectPlan(ctx, route.Category, queryText)
	trace = append(trace, planEv)

	var parts []string
	for i, step := range steps {
		if i >= maxPlanSteps {
			break
		}
		text, hits, executed := d.execute(step, queryText, &trace)
		if text != "" {
			parts = append(parts, text)
		}

		// One-shot recovery: an empty first retrieval on an ambiguously
		// appointment-like message gets a clarify plus one retry. The
		// ambiguity check runs on the original text, not the corrected one.
		if i == 0 && executed == plan.ToolRetrieve && hits == 0 && d.clarify.Ambiguous(userText) {
			if text, _, _ := d.execute(plan.ClarifyStep(), queryText, &trace); text != "" {
				parts = append(parts, text)
			}
			if text, _, _ := d.execute(plan.RetrieveStep(queryText), queryText, &trace); text != "" {
				parts = append(parts, text)
			}
			break
		}
	}

	text := strings.Join(parts, "\n\n")
	if strings.TrimSpace(text) == "" {
		text = answer.Template("")
	}

	if d.enhancer != nil {
		enhanced := d.enhancer.Enhance(ctx, text, guard.EnhanceContext{
			UserText: userText,
			Category: route.Category,
		})
		if enhanced != text {
			trace = append(trace, newEvent(EventEnhance))
			text = enhanced
		}
	}

	return Result{
		Text:        dedupeLines(text),
		Category:    string(route.Category),
		ResponseKey: route.ResponseKey,
		Trace:       trace,
	}
}

// selectPlan prefers the external planner when one is configured and falls
// back to the rule planner on any failure, noting the fallback in the event.
func (d *Dispatcher) selectPlan(ctx context.Context, category routing.Category, text string) ([]plan.Step, Event) {
	ev := newEvent(EventPlan)
	if d.external != nil {
		steps, err := d.external.Plan(ctx, category, text)
		if err == nil && len(steps) > 0 {
			ev.Planner = "external"
			ev.Steps = len(steps)
			return steps, ev
		}
		d.logger.Warn("external planner rejected, using rule planner", "error", err)
		ev.Fallback = "external_planner_failed"
	}
	steps := d.planner.Plan(category, text)
	ev.Planner = "rule"
	ev.Steps = len(steps)
	return steps, ev
}

// execute runs one step and appends its tool event. Unknown tools degrade to
// retrieval rather than failing the message.
func (d *Dispatcher) execute(step plan.Step, queryText string, trace *[]Event) (string, int, plan.Tool) {
	tool := step.Tool
	if !tool.Known() {
		d.logger.Warn("unknown tool in plan, degrading to retrieve", "tool", string(step.Tool))
		tool = plan.ToolRetrieve
	}

	ev := newEvent(EventTool)
	ev.Tool = tool.String()

	switch tool {
	case plan.ToolRetrieve:
		query := step.Input.Query
		if query == "" {
			query = queryText
		}
		chunks := d.library.Retrieve(query, d.topK)
		ev.Hits = len(chunks)
		*trace = append(*trace, ev)
		return answer.Compose(query, chunks), len(chunks), tool

	case plan.ToolClarify:
		question := step.Input.Question
		if question == "" {
			question = answer.ClarifyQuestion
		}
		*trace = append(*trace, ev)
		return question, 0, tool

	case plan.ToolCrisis:
		*trace = append(*trace, ev)
		return answer.Crisis(), 0, tool

	default:
		// Policy tools share their template key with the tool name.
		*trace = append(*trace, ev)
		return answer.Template(tool.String()), 0, tool
	}
}
