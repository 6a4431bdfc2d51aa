package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rihcare/assistant-runtime/internal/dispatch"
	"github.com/rihcare/assistant-runtime/internal/store"
)

type respondRequest struct {
	Text    string `json:"text"`
	Channel string `json:"channel"`
}

func (r *router) handleRespond(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var payload respondRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	text := strings.TrimSpace(payload.Text)
	if text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}
	channel := strings.ToLower(strings.TrimSpace(payload.Channel))
	if channel == "" {
		channel = "http"
	}

	result := r.deps.Assistant.Respond(req.Context(), text)
	r.persistInteraction(req.Context(), channel, result)

	writeJSON(w, http.StatusOK, result)
}

// persistInteraction records the outcome for audit, best effort. The raw
// message text is never stored.
func (r *router) persistInteraction(ctx context.Context, channel string, result dispatch.Result) {
	if r.deps.Store == nil {
		return
	}
	traceJSON := ""
	if raw, err := json.Marshal(result.Trace); err == nil {
		traceJSON = string(raw)
	}

	storeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := r.deps.Store.CreateInteraction(storeCtx, store.CreateInteractionInput{
		Channel:     channel,
		Category:    result.Category,
		ResponseKey: result.ResponseKey,
		IsCrisis:    result.IsCrisis,
		ReplyChars:  len(result.Text),
		TraceJSON:   traceJSON,
	}); err != nil && r.deps.Logger != nil {
		r.deps.Logger.Error("failed to persist interaction", "error", err, "channel", channel)
	}
}

func (r *router) handleAudit(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if r.deps.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "audit store is unavailable"})
		return
	}

	query := req.URL.Query()
	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	records, err := r.deps.Store.ListInteractions(req.Context(), store.ListInteractionsInput{
		Channel:    strings.TrimSpace(query.Get("channel")),
		Category:   strings.TrimSpace(query.Get("category")),
		CrisisOnly: query.Get("crisis") == "true" || query.Get("crisis") == "1",
		Limit:      limit,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"interactions": records})
}
