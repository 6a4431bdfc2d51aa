package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	Environment string
	HTTPAddr    string
	DataDir     string
	DBPath      string

	// Routing.
	RulesPath                     string
	RequireRules                  bool
	RouteAppointmentsToCounseling bool

	// Knowledge base.
	KBDir          string
	RetrieveTopK   int
	WatchEnabled   bool
	RefreshCron    string
	RefreshEnabled bool

	// Planning.
	PlannerMode            string // rule | llm
	ClarifyDetectorVersion int

	// Optional model passes.
	SpellingEnabled bool
	EnhancerEnabled bool
	BoosterEnabled  bool
	GuardTimeoutSec int

	// External model endpoint (planner + polish passes).
	LLMBaseURL    string
	LLMAPIKey     string
	LLMModel      string
	LLMTimeoutSec int
}

func FromEnv() Config {
	dataDir := stringOrDefault("RIH_DATA_DIR", "/data")

	return Config{
		Environment: stringOrDefault("RIH_ENV", "development"),
		HTTPAddr:    stringOrDefault("RIH_HTTP_ADDR", ":8080"),
		DataDir:     dataDir,
		DBPath:      stringOrDefault("RIH_DB_PATH", filepath.Join(dataDir, "assistant-runtime", "audit.sqlite")),

		RulesPath:                     strings.TrimSpace(os.Getenv("RIH_RULES_PATH")),
		RequireRules:                  boolOrDefault("RIH_REQUIRE_RULES", false),
		RouteAppointmentsToCounseling: boolOrDefault("RIH_ROUTE_APPOINTMENT_TO_COUNSELING", false),

		KBDir:          stringOrDefault("RIH_KB_DIR", filepath.Join(dataDir, "kb")),
		RetrieveTopK:   intOrDefault("RIH_RETRIEVE_TOP_K", 3),
		WatchEnabled:   boolOrDefault("RIH_WATCH_ENABLED", true),
		RefreshCron:    stringOrDefault("RIH_KB_REFRESH_CRON", "@every 6h"),
		RefreshEnabled: boolOrDefault("RIH_KB_REFRESH_ENABLED", true),

		PlannerMode:            plannerModeOrDefault("RIH_PLANNER_MODE", "rule"),
		ClarifyDetectorVersion: intOrDefault("RIH_CLARIFY_DETECTOR_VERSION", 2),

		SpellingEnabled: boolOrDefault("RIH_SPELLING_ENABLED", false),
		EnhancerEnabled: boolOrDefault("RIH_ENHANCER_ENABLED", false),
		BoosterEnabled:  boolOrDefault("RIH_INTENT_BOOSTER_ENABLED", false),
		GuardTimeoutSec: intOrDefault("RIH_GUARD_TIMEOUT_SECONDS", 10),

		LLMBaseURL:    stringOrDefault("RIH_LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:     strings.TrimSpace(os.Getenv("RIH_LLM_API_KEY")),
		LLMModel:      stringOrDefault("RIH_LLM_MODEL", "gpt-4o-mini"),
		LLMTimeoutSec: intOrDefault("RIH_LLM_TIMEOUT_SECONDS", 30),
	}
}

func stringOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func intOrDefault(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

func boolOrDefault(name string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func plannerModeOrDefault(name, fallback string) string {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	switch value {
	case "rule", "llm":
		return value
	default:
		return fallback
	}
}
