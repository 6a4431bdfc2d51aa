package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Change kinds passed to the reload callback.
const (
	ChangeKnowledge = "kb"
	ChangeRules     = "rules"
)

// Service watches the knowledge directory and the routing rules file and
// invokes onChange with the kind of thing that changed. Reload semantics
// (rebuilding the index, re-merging rules) belong to the callback.
type Service struct {
	kbDir     string
	rulesPath string
	logger    *slog.Logger
	onChange  func(context.Context, string)
	watcher   *fsnotify.Watcher
}

func New(kbDir, rulesPath string, logger *slog.Logger, onChange func(context.Context, string)) (*Service, error) {
	fileWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Service{
		kbDir:     kbDir,
		rulesPath: rulesPath,
		logger:    logger,
		onChange:  onChange,
		watcher:   fileWatcher,
	}, nil
}

func (s *Service) Start(ctx context.Context) error {
	defer s.watcher.Close()

	watched := 0
	if s.kbDir != "" {
		if err := s.watcher.Add(s.kbDir); err != nil {
			s.logger.Warn("cannot watch knowledge dir", "dir", s.kbDir, "error", err)
		} else {
			watched++
		}
	}
	if s.rulesPath != "" {
		// Watch the parent so editor save-via-rename still produces events.
		if err := s.watcher.Add(filepath.Dir(s.rulesPath)); err != nil {
			s.logger.Warn("cannot watch rules file", "path", s.rulesPath, "error", err)
		} else {
			watched++
		}
	}
	if watched == 0 {
		s.logger.Info("reload watcher has nothing to watch")
		<-ctx.Done()
		return nil
	}
	s.logger.Info("reload watcher started", "kb_dir", s.kbDir, "rules_path", s.rulesPath)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reload watcher stopped")
			return nil
		case event := <-s.watcher.Events:
			s.handleEvent(ctx, event)
		case err := <-s.watcher.Errors:
			if err != nil {
				s.logger.Error("file watcher error", "error", err)
			}
		}
	}
}

func (s *Service) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	switch {
	case s.rulesPath != "" && sameFile(event.Name, s.rulesPath):
		s.logger.Info("routing rules changed", "path", event.Name, "op", event.Op.String())
		s.onChange(ctx, ChangeRules)
	case s.kbDir != "" && filepath.Ext(event.Name) == ".jsonl" && withinDir(event.Name, s.kbDir):
		s.logger.Info("knowledge base changed", "path", event.Name, "op", event.Op.String())
		s.onChange(ctx, ChangeKnowledge)
	}
}

func sameFile(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func withinDir(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
