package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rihcare/assistant-runtime/internal/config"
	"github.com/rihcare/assistant-runtime/internal/dispatch"
	"github.com/rihcare/assistant-runtime/internal/store"
)

// openAudit opens the audit store for CLI sessions, best effort. A nil store
// means auditing is off for this run; the assistant still answers.
func openAudit(cfg config.Config, logger *slog.Logger) *store.Store {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Warn("audit store unavailable", "error", err)
		return nil
	}
	auditStore, err := store.New(cfg.DBPath)
	if err != nil {
		logger.Warn("audit store unavailable", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := auditStore.AutoMigrate(ctx); err != nil {
		auditStore.Close()
		logger.Warn("audit store unavailable", "error", err)
		return nil
	}
	return auditStore
}

// recordInteraction audits one answered message. The raw message text is
// never stored.
func recordInteraction(auditStore *store.Store, logger *slog.Logger, result dispatch.Result) {
	if auditStore == nil {
		return
	}
	traceJSON := ""
	if raw, err := json.Marshal(result.Trace); err == nil {
		traceJSON = string(raw)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := auditStore.CreateInteraction(ctx, store.CreateInteractionInput{
		Channel:     "cli",
		Category:    result.Category,
		ResponseKey: result.ResponseKey,
		IsCrisis:    result.IsCrisis,
		ReplyChars:  len(result.Text),
		TraceJSON:   traceJSON,
	}); err != nil {
		logger.Warn("failed to persist interaction", "error", err)
	}
}
