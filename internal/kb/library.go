package kb

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Chunk is one retrievable unit of reference text. Chunks are read-only for
// the lifetime of the process once loaded.
type Chunk struct {
	Text     string `json:"text"`
	Title    string `json:"title"`
	Category string `json:"category"`
	URL      string `json:"url,omitempty"`
}

// Library owns the knowledge corpus and its term-weight index. Both are built
// lazily on first use and then treated as immutable; Reset rearms the lazy
// build (used by tests that swap corpora and by the reload watcher).
type Library struct {
	dir    string
	logger *slog.Logger

	mu     sync.RWMutex
	built  bool
	chunks []Chunk
	idf    map[string]float64
}

func NewLibrary(dir string, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{dir: dir, logger: logger}
}

// Chunks returns the loaded corpus, building it if needed.
func (l *Library) Chunks() []Chunk {
	l.ensure()
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.chunks
}

// Reset discards the corpus and index so the next call rebuilds from disk.
func (l *Library) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.built = false
	l.chunks = nil
	l.idf = nil
}

// ensure builds the chunk list and IDF index exactly once. Concurrent callers
// either see the completed build or block until it finishes; a partially
// built index is never observable.
func (l *Library) ensure() {
	l.mu.RLock()
	built := l.built
	l.mu.RUnlock()
	if built {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.built {
		return
	}
	l.chunks = l.load()
	l.idf = buildIDF(l.chunks)
	l.built = true
}

// load reads every *.jsonl file in the KB directory. Blank lines and lines
// starting with '#' are ignored; malformed records and unreadable files are
// skipped rather than fatal. A missing directory yields an empty corpus.
func (l *Library) load() []Chunk {
	var chunks []Chunk

	paths, err := filepath.Glob(filepath.Join(l.dir, "*.jsonl"))
	if err != nil || len(paths) == 0 {
		if l.dir != "" {
			l.logger.Warn("knowledge base empty", "dir", l.dir)
		}
		return chunks
	}
	sort.Strings(paths)

	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			l.logger.Warn("skipping unreadable knowledge file", "path", path, "error", err)
			continue
		}
		scanner := bufio.NewScanner(file)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			var chunk Chunk
			if err := json.Unmarshal([]byte(line), &chunk); err != nil {
				continue
			}
			chunks = append(chunks, chunk)
		}
		if err := scanner.Err(); err != nil {
			l.logger.Warn("error scanning knowledge file", "path", path, "error", err)
		}
		file.Close()
	}
	l.logger.Info("knowledge base loaded", "dir", l.dir, "chunks", len(chunks))
	return chunks
}
