package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var refreshCronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Service periodically refreshes the knowledge base on a cron schedule so
// content edits land without a restart even when the file watcher is off
// (network mounts do not deliver fsnotify events).
type Service struct {
	schedule cron.Schedule
	spec     string
	refresh  func(context.Context) error
	logger   *slog.Logger
}

func New(spec string, refresh func(context.Context) error, logger *slog.Logger) (*Service, error) {
	spec = strings.Join(strings.Fields(strings.TrimSpace(spec)), " ")
	if spec == "" {
		return nil, fmt.Errorf("empty refresh schedule")
	}
	schedule, err := refreshCronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse refresh schedule %q: %w", spec, err)
	}
	return &Service{
		schedule: schedule,
		spec:     spec,
		refresh:  refresh,
		logger:   logger,
	}, nil
}

func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("refresh scheduler started", "schedule", s.spec)

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("refresh scheduler stopped")
			return nil
		case <-timer.C:
		}

		if err := s.refresh(ctx); err != nil {
			s.logger.Error("scheduled refresh failed", "error", err)
			continue
		}
		s.logger.Info("scheduled refresh completed", "next", s.schedule.Next(time.Now()).UTC().Format(time.RFC3339))
	}
}
