package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rihcare/assistant-runtime/internal/config"
	"github.com/rihcare/assistant-runtime/internal/dispatch"
	"github.com/rihcare/assistant-runtime/internal/kb"
	"github.com/rihcare/assistant-runtime/internal/store"
)

// Assistant answers one message. The dispatcher satisfies this; tests may
// substitute a canned implementation.
type Assistant interface {
	Respond(ctx context.Context, text string) dispatch.Result
}

type Dependencies struct {
	Config    config.Config
	Store     *store.Store
	Assistant Assistant
	Library   *kb.Library
	Logger    *slog.Logger
	Version   string
}

type router struct {
	deps Dependencies
}

func NewRouter(deps Dependencies) http.Handler {
	rt := &router{deps: deps}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.handleHealth)
	mux.HandleFunc("/readyz", rt.handleReady)
	mux.HandleFunc("/api/v1/info", rt.handleInfo)
	mux.HandleFunc("/api/v1/respond", rt.handleRespond)
	mux.HandleFunc("/api/v1/audit", rt.handleAudit)
	mux.HandleFunc("/api/v1/chat/ws", rt.handleChatWS)
	return mux
}

func (r *router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *router) handleReady(w http.ResponseWriter, req *http.Request) {
	if r.deps.Store != nil {
		if err := r.deps.Store.Ping(req.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not-ready", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (r *router) handleInfo(w http.ResponseWriter, req *http.Request) {
	chunks := 0
	if r.deps.Library != nil {
		chunks = len(r.deps.Library.Chunks())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "assistant-runtime",
		"version":     r.deps.Version,
		"environment": r.deps.Config.Environment,
		"kb_chunks":   chunks,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
