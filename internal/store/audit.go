package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Interaction is one answered message. The student's raw text is never
// persisted; the record keeps only the routing outcome, the trace, and the
// reply length.
type Interaction struct {
	ID          string    `json:"id"`
	Channel     string    `json:"channel"`
	Category    string    `json:"category,omitempty"`
	ResponseKey string    `json:"response_key,omitempty"`
	IsCrisis    bool      `json:"is_crisis"`
	ReplyChars  int       `json:"reply_chars"`
	TraceJSON   string    `json:"trace,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateInteractionInput struct {
	Channel     string
	Category    string
	ResponseKey string
	IsCrisis    bool
	ReplyChars  int
	TraceJSON   string
}

type ListInteractionsInput struct {
	Channel    string
	Category   string
	CrisisOnly bool
	Limit      int
}

func (s *Store) CreateInteraction(ctx context.Context, input CreateInteractionInput) (Interaction, error) {
	record := Interaction{
		ID:          "ixn_" + uuid.NewString(),
		Channel:     strings.ToLower(strings.TrimSpace(input.Channel)),
		Category:    strings.TrimSpace(input.Category),
		ResponseKey: strings.TrimSpace(input.ResponseKey),
		IsCrisis:    input.IsCrisis,
		ReplyChars:  input.ReplyChars,
		TraceJSON:   strings.TrimSpace(input.TraceJSON),
		CreatedAt:   time.Now().UTC(),
	}
	if record.Channel == "" {
		return Interaction{}, fmt.Errorf("missing interaction channel")
	}

	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO interactions (
			id, channel, category, response_key, is_crisis, reply_chars, trace_json, created_at_unix
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Channel,
		nullIfEmpty(record.Category),
		nullIfEmpty(record.ResponseKey),
		boolToInt(record.IsCrisis),
		record.ReplyChars,
		nullIfEmpty(record.TraceJSON),
		record.CreatedAt.Unix(),
	); err != nil {
		return Interaction{}, fmt.Errorf("insert interaction: %w", err)
	}
	return record, nil
}

func (s *Store) ListInteractions(ctx context.Context, input ListInteractionsInput) ([]Interaction, error) {
	limit := input.Limit
	if limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	whereParts := []string{"1=1"}
	args := make([]any, 0, 4)

	if channel := strings.ToLower(strings.TrimSpace(input.Channel)); channel != "" {
		whereParts = append(whereParts, "channel = ?")
		args = append(args, channel)
	}
	if category := strings.TrimSpace(input.Category); category != "" {
		whereParts = append(whereParts, "category = ?")
		args = append(args, category)
	}
	if input.CrisisOnly {
		whereParts = append(whereParts, "is_crisis = 1")
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, channel, COALESCE(category, ''), COALESCE(response_key, ''), is_crisis, reply_chars, COALESCE(trace_json, ''), created_at_unix
		 FROM interactions
		 WHERE `+strings.Join(whereParts, " AND ")+`
		 ORDER BY created_at_unix DESC
		 LIMIT ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	records := make([]Interaction, 0, limit)
	for rows.Next() {
		var record Interaction
		var isCrisis int
		var createdAtUnix int64
		if err := rows.Scan(
			&record.ID,
			&record.Channel,
			&record.Category,
			&record.ResponseKey,
			&isCrisis,
			&record.ReplyChars,
			&record.TraceJSON,
			&createdAtUnix,
		); err != nil {
			return nil, err
		}
		record.IsCrisis = isCrisis == 1
		if createdAtUnix > 0 {
			record.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
