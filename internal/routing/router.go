package routing

import (
	"fmt"
	"log/slog"
	"sync"
)

// Ruleset is a compiled, priority-ordered rule list. It is built once at
// startup and treated as immutable afterwards; Match is a pure function of
// the input text.
type Ruleset struct {
	rules []Rule
}

// Config selects how the ruleset is assembled.
type Config struct {
	// MatrixPath points at the optional CSV routing matrix. Empty disables
	// the overlay entirely.
	MatrixPath string
	// RequireMatrix makes a missing or empty matrix a fatal configuration
	// error instead of a silent fallback to defaults.
	RequireMatrix bool
	// RouteAppointmentsToCounseling is passed through to the matrix loader.
	RouteAppointmentsToCounseling bool
}

// NewRuleset loads defaults, overlays the routing matrix when present, and
// returns the merged, priority-sorted rule list.
func NewRuleset(cfg Config, logger *slog.Logger) (*Ruleset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var overrides []Override
	if cfg.MatrixPath != "" {
		loaded, err := LoadMatrix(cfg.MatrixPath, MatrixOptions{RouteAppointmentsToCounseling: cfg.RouteAppointmentsToCounseling}, logger)
		if err != nil {
			if cfg.RequireMatrix {
				return nil, fmt.Errorf("%w: %v", ErrRulesFileRequired, err)
			}
			logger.Warn("routing matrix unreadable, using built-in defaults", "path", cfg.MatrixPath, "error", err)
		}
		overrides = loaded
	}
	if cfg.RequireMatrix && len(overrides) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRulesFileRequired, cfg.MatrixPath)
	}
	if len(overrides) == 0 && cfg.MatrixPath != "" {
		logger.Warn("no routing matrix overrides loaded, using built-in defaults", "path", cfg.MatrixPath)
	}

	rules, err := Merge(DefaultRules(), overrides)
	if err != nil {
		return nil, err
	}
	return &Ruleset{rules: rules}, nil
}

// NewDefaultRuleset builds a ruleset from the built-in defaults only.
func NewDefaultRuleset() *Ruleset {
	rules, _ := Merge(DefaultRules(), nil)
	return &Ruleset{rules: rules}
}

// Match classifies normalized text against the rules in ascending priority
// order. The first rule with any matching pattern wins. ok is false when no
// rule matched.
func (rs *Ruleset) Match(text string) (category Category, responseKey string, ok bool) {
	normalized := Normalize(text)
	for _, rule := range rs.rules {
		if rule.matches(normalized) {
			return rule.Category, rule.ResponseKey, true
		}
	}
	return "", "", false
}

// Rules exposes the compiled rule list for diagnostics.
func (rs *Ruleset) Rules() []Rule {
	return rs.rules
}

// Result is one routing decision. Category and ResponseKey are empty when the
// text matched no lane. Results are produced fresh per call and never reused.
type Result struct {
	Category    Category
	ResponseKey string
}

// Matched reports whether the text hit any lane.
func (r Result) Matched() bool {
	return r.Category != ""
}

// Router is a thin façade over a Ruleset. The ruleset itself stays
// immutable; reloads swap in a freshly built one atomically.
type Router struct {
	mu    sync.RWMutex
	rules *Ruleset
}

func NewRouter(rules *Ruleset) *Router {
	return &Router{rules: rules}
}

// Swap replaces the active ruleset. In-flight Route calls finish against
// the ruleset they started with.
func (r *Router) Swap(rules *Ruleset) {
	if rules == nil {
		return
	}
	r.mu.Lock()
	r.rules = rules
	r.mu.Unlock()
}

// Route classifies a single message.
func (r *Router) Route(text string) Result {
	r.mu.RLock()
	rules := r.rules
	r.mu.RUnlock()

	category, key, ok := rules.Match(text)
	if !ok {
		return Result{}
	}
	return Result{Category: category, ResponseKey: key}
}
