package llm

import (
	"context"
	"errors"
)

// ErrUnavailable marks a responder that cannot serve requests (missing key,
// disabled integration). Callers treat it like any other failure and keep
// their prior text.
var ErrUnavailable = errors.New("llm unavailable")

// Prompt is a single system+user exchange. The assistant pipeline only ever
// needs one-shot completions; there is no conversation state.
type Prompt struct {
	System string
	User   string
}

// Responder produces a completion for a prompt. Implementations must respect
// context cancellation; the guard layer relies on it for hard timeouts.
type Responder interface {
	Reply(ctx context.Context, prompt Prompt) (string, error)
}
