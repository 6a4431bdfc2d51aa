package guard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/rihcare/assistant-runtime/internal/llm"
)

// OutcomeKind classifies what happened to a guarded call.
type OutcomeKind int

const (
	// OutcomeDisabled means the integration is off; nothing was attempted.
	OutcomeDisabled OutcomeKind = iota
	// OutcomeFailed means the call was attempted and rejected: transport
	// error, timeout, panic, empty reply, or unsafe output.
	OutcomeFailed
	// OutcomeOK carries usable text.
	OutcomeOK
)

// Outcome is the tri-state result of a guarded model call. Callers keep
// their prior text on anything but OK.
type Outcome struct {
	Kind OutcomeKind
	Text string
}

// crisisTerms is the keyword net for text that must never pass through an
// optional model call, in either direction.
var crisisTerms = []string{
	"suicide", "kill myself", "hurt myself", "hurt others", "self-harm",
	"take my life", "end my life", "end it all", "kys", "kms", "unalive",
	"overdose", "jump off", "shoot myself", "stab myself", "988", "911",
}

// LooksLikeCrisis reports whether text trips the crisis keyword net.
func LooksLikeCrisis(text string) bool {
	if text == "" {
		return false
	}
	t := strings.ToLower(text)
	for _, term := range crisisTerms {
		if strings.Contains(t, term) {
			return true
		}
	}
	return false
}

// Agent is a guarded wrapper around an optional model integration. It is
// never used for routing or safety decisions; it only polishes text, and it
// fails closed on every error path.
type Agent struct {
	name          string
	responder     llm.Responder
	enabled       bool
	timeout       time.Duration
	allowedTopics []string
	logger        *slog.Logger
}

type AgentConfig struct {
	Name          string
	Enabled       bool
	Timeout       time.Duration
	AllowedTopics []string
}

func NewAgent(cfg AgentConfig, responder llm.Responder, logger *slog.Logger) *Agent {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		name:          cfg.Name,
		responder:     responder,
		enabled:       cfg.Enabled && responder != nil,
		timeout:       cfg.Timeout,
		allowedTopics: cfg.AllowedTopics,
		logger:        logger,
	}
}

// Enabled reports whether the integration is actually usable.
func (a *Agent) Enabled() bool {
	return a != nil && a.enabled
}

// AllowedTopic reports whether text touches at least one whitelisted topic.
// An empty whitelist allows nothing.
func (a *Agent) AllowedTopic(text string) bool {
	if a == nil || len(a.allowedTopics) == 0 {
		return false
	}
	t := strings.ToLower(text)
	for _, topic := range a.allowedTopics {
		if strings.Contains(t, strings.ToLower(topic)) {
			return true
		}
	}
	return false
}

// Run executes one guarded completion under a hard deadline. The reply is
// rejected if it is empty or trips the crisis net; the prompt is rejected
// before any call if it trips the net itself.
func (a *Agent) Run(ctx context.Context, prompt llm.Prompt) Outcome {
	if !a.Enabled() {
		return Outcome{Kind: OutcomeDisabled}
	}
	if LooksLikeCrisis(prompt.User) || LooksLikeCrisis(prompt.System) {
		return Outcome{Kind: OutcomeFailed}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Warn("guarded agent panicked", "agent", a.name, "panic", r)
				done <- result{err: context.Canceled}
			}
		}()
		text, err := a.responder.Reply(callCtx, prompt)
		done <- result{text: text, err: err}
	}()

	select {
	case <-callCtx.Done():
		a.logger.Warn("guarded agent timed out", "agent", a.name, "timeout", a.timeout)
		return Outcome{Kind: OutcomeFailed}
	case res := <-done:
		if res.err != nil {
			a.logger.Warn("guarded agent call failed", "agent", a.name, "error", res.err)
			return Outcome{Kind: OutcomeFailed}
		}
		text := strings.TrimSpace(res.text)
		if text == "" {
			return Outcome{Kind: OutcomeFailed}
		}
		if LooksLikeCrisis(text) {
			a.logger.Warn("guarded agent produced unsafe text, discarded", "agent", a.name)
			return Outcome{Kind: OutcomeFailed}
		}
		return Outcome{Kind: OutcomeOK, Text: text}
	}
}
