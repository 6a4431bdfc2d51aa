package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rihcare/assistant-runtime/internal/config"
	"github.com/rihcare/assistant-runtime/internal/dispatch"
	"github.com/rihcare/assistant-runtime/internal/guard"
	"github.com/rihcare/assistant-runtime/internal/httpapi"
	"github.com/rihcare/assistant-runtime/internal/kb"
	"github.com/rihcare/assistant-runtime/internal/llm"
	"github.com/rihcare/assistant-runtime/internal/llm/openai"
	"github.com/rihcare/assistant-runtime/internal/plan"
	"github.com/rihcare/assistant-runtime/internal/routing"
	"github.com/rihcare/assistant-runtime/internal/scheduler"
	"github.com/rihcare/assistant-runtime/internal/store"
	"github.com/rihcare/assistant-runtime/internal/watcher"
)

// enhancerTopics are the only subjects the optional polish pass may touch.
var enhancerTopics = []string{
	"counseling", "appointments", "booking", "billing", "immunization",
	"vaccine", "health services", "workshops", "groups", "referrals",
	"hours", "location",
}

// Runtime owns the long-running server composition: assistant pipeline,
// audit store, HTTP API, reload watcher, and refresh scheduler.
type Runtime struct {
	cfg        config.Config
	logger     *slog.Logger
	store      *store.Store
	library    *kb.Library
	router     *routing.Router
	dispatcher *dispatch.Dispatcher
	watcher    *watcher.Service
	scheduler  *scheduler.Service
	httpServer *http.Server
}

func New(ctx context.Context, cfg config.Config, version string, logger *slog.Logger) (*Runtime, error) {
	r := &Runtime{cfg: cfg, logger: logger}

	router, library, dispatcher, err := buildAssistant(cfg, logger)
	if err != nil {
		return nil, err
	}
	r.router = router
	r.library = library
	r.dispatcher = dispatcher

	// Warm the corpus so the first request does not pay for the build.
	logger.Info("knowledge base ready", "chunks", len(library.Chunks()))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	auditStore, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := auditStore.AutoMigrate(ctx); err != nil {
		auditStore.Close()
		return nil, err
	}
	r.store = auditStore

	handler := httpapi.NewRouter(httpapi.Dependencies{
		Config:    cfg,
		Store:     auditStore,
		Assistant: dispatcher,
		Library:   library,
		Logger:    logger.With("component", "httpapi"),
		Version:   version,
	})
	r.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.WatchEnabled {
		watchService, err := watcher.New(cfg.KBDir, cfg.RulesPath, logger.With("component", "watcher"), r.handleChange)
		if err != nil {
			auditStore.Close()
			return nil, err
		}
		r.watcher = watchService
	}

	if cfg.RefreshEnabled {
		refreshService, err := scheduler.New(cfg.RefreshCron, r.refreshKnowledge, logger.With("component", "scheduler"))
		if err != nil {
			auditStore.Close()
			return nil, err
		}
		r.scheduler = refreshService
	}

	return r, nil
}

// NewAssistant builds just the answering pipeline, for one-shot CLI use
// where no server, store, or reload machinery is wanted.
func NewAssistant(cfg config.Config, logger *slog.Logger) (*dispatch.Dispatcher, error) {
	_, _, dispatcher, err := buildAssistant(cfg, logger)
	return dispatcher, err
}

func buildAssistant(cfg config.Config, logger *slog.Logger) (*routing.Router, *kb.Library, *dispatch.Dispatcher, error) {
	ruleset, err := routing.NewRuleset(routing.Config{
		MatrixPath:                    cfg.RulesPath,
		RequireMatrix:                 cfg.RequireRules,
		RouteAppointmentsToCounseling: cfg.RouteAppointmentsToCounseling,
	}, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	router := routing.NewRouter(ruleset)
	library := kb.NewLibrary(cfg.KBDir, logger.With("component", "kb"))

	var responder llm.Responder
	if cfg.PlannerMode == "llm" || cfg.SpellingEnabled || cfg.EnhancerEnabled || cfg.BoosterEnabled {
		responder = openai.New(openai.Config{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
			Timeout: time.Duration(cfg.LLMTimeoutSec) * time.Second,
		}, logger.With("component", "llm"))
	}

	opts := dispatch.Options{
		ClarifyDetector: plan.NewClarifyDetector(cfg.ClarifyDetectorVersion),
		RetrieveTopK:    cfg.RetrieveTopK,
		Logger:          logger.With("component", "dispatch"),
	}
	if cfg.PlannerMode == "llm" {
		opts.External = plan.NewLLMPlanner(responder, plan.AllTools())
	}
	guardTimeout := time.Duration(cfg.GuardTimeoutSec) * time.Second
	if cfg.SpellingEnabled {
		opts.Corrector = guard.NewCorrector(guard.NewAgent(guard.AgentConfig{
			Name:    "misspelling-corrector",
			Enabled: true,
			Timeout: guardTimeout,
		}, responder, logger))
	}
	if cfg.EnhancerEnabled {
		opts.Enhancer = guard.NewEnhancer(guard.NewAgent(guard.AgentConfig{
			Name:          "response-enhancer",
			Enabled:       true,
			Timeout:       guardTimeout,
			AllowedTopics: enhancerTopics,
		}, responder, logger))
	}
	if cfg.BoosterEnabled {
		opts.Booster = guard.NewIntentBooster(guard.NewAgent(guard.AgentConfig{
			Name:    "intent-booster",
			Enabled: true,
			Timeout: guardTimeout,
		}, responder, logger))
	}

	return router, library, dispatch.New(router, library, opts), nil
}

// handleChange reacts to watcher events: rebuild whichever cache went stale.
func (r *Runtime) handleChange(ctx context.Context, kind string) {
	switch kind {
	case watcher.ChangeKnowledge:
		if err := r.refreshKnowledge(ctx); err != nil {
			r.logger.Error("knowledge reload failed", "error", err)
		}
	case watcher.ChangeRules:
		ruleset, err := routing.NewRuleset(routing.Config{
			MatrixPath:                    r.cfg.RulesPath,
			RequireMatrix:                 r.cfg.RequireRules,
			RouteAppointmentsToCounseling: r.cfg.RouteAppointmentsToCounseling,
		}, r.logger)
		if err != nil {
			// Keep routing on the last good ruleset.
			r.logger.Error("rules reload failed, keeping previous ruleset", "error", err)
			return
		}
		r.router.Swap(ruleset)
		r.logger.Info("routing rules reloaded", "path", r.cfg.RulesPath)
	}
}

func (r *Runtime) refreshKnowledge(context.Context) error {
	r.library.Reset()
	r.logger.Info("knowledge base reloaded", "chunks", len(r.library.Chunks()))
	return nil
}
