package routing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ErrRulesFileRequired is returned when strict mode demands a rules file and
// none could be loaded.
var ErrRulesFileRequired = errors.New("routing rules file required but not loaded")

// Override is one row of the routing matrix: a category with extra triggers
// and optional response key / priority replacements.
type Override struct {
	Category    Category
	ResponseKey string
	Priority    int // 0 means "keep default"
	Triggers    []string
}

var triggerSplitter = regexp.MustCompile(`[;|,]`)

// MatrixOptions control how the routing matrix file is interpreted.
type MatrixOptions struct {
	// RouteAppointmentsToCounseling keeps "appointment(s)" triggers on the
	// counseling lane. By default they are filtered out so scheduling language
	// flows through the planner instead of short-circuiting to a template.
	RouteAppointmentsToCounseling bool
}

// LoadMatrix reads category overrides from a CSV routing matrix. Both the
// legacy schema (level, example_triggers, auto_reply_key, destination, sla,
// after_hours) and the current one (category, example_triggers, response_key,
// priority) are accepted. A missing file yields no overrides and no error;
// strict handling is the caller's decision.
func LoadMatrix(path string, opts MatrixOptions, logger *slog.Logger) ([]Override, error) {
	if logger == nil {
		logger = slog.Default()
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open routing matrix: %w", err)
	}
	defer file.Close()
	return parseMatrix(file, opts, logger)
}

func parseMatrix(r io.Reader, opts MatrixOptions, logger *slog.Logger) ([]Override, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read routing matrix header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var overrides []Override
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed row: skip it, keep the rest of the file usable.
			logger.Warn("skipping malformed routing matrix row", "error", err)
			continue
		}

		field := func(names ...string) string {
			for _, name := range names {
				if i, ok := columns[name]; ok && i < len(row) {
					if value := strings.TrimSpace(row[i]); value != "" {
						return value
					}
				}
			}
			return ""
		}

		category := Category(strings.ToLower(field("category", "level")))
		if category == "" {
			continue
		}
		if !category.Valid() {
			logger.Warn("ignoring unknown routing category", "category", category)
			continue
		}

		triggers := splitTriggers(field("example_triggers"))
		if category == CategoryCounseling && !opts.RouteAppointmentsToCounseling {
			filtered := filterAppointmentTriggers(triggers)
			if len(filtered) != len(triggers) {
				logger.Info("filtered appointment triggers from counseling lane; set RIH_ROUTE_APPOINTMENT_TO_COUNSELING=1 to keep them")
			}
			triggers = filtered
		}
		if len(triggers) == 0 {
			continue
		}

		override := Override{
			Category:    category,
			ResponseKey: field("response_key", "auto_reply_key"),
			Triggers:    triggers,
		}
		if raw := field("priority"); raw != "" {
			if priority, err := strconv.Atoi(raw); err == nil {
				override.Priority = priority
			}
		}
		overrides = append(overrides, override)
	}
	return overrides, nil
}

func splitTriggers(raw string) []string {
	var triggers []string
	for _, part := range triggerSplitter.Split(raw, -1) {
		if part = strings.TrimSpace(part); part != "" {
			triggers = append(triggers, part)
		}
	}
	return triggers
}

func filterAppointmentTriggers(triggers []string) []string {
	kept := triggers[:0:0]
	for _, trigger := range triggers {
		switch strings.ToLower(trigger) {
		case "appointment", "appointments":
			continue
		}
		kept = append(kept, trigger)
	}
	return kept
}
