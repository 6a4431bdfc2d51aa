package config

import (
	"path/filepath"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, name := range []string{
		"RIH_DATA_DIR", "RIH_ENV", "RIH_HTTP_ADDR", "RIH_DB_PATH",
		"RIH_RULES_PATH", "RIH_REQUIRE_RULES", "RIH_ROUTE_APPOINTMENT_TO_COUNSELING",
		"RIH_KB_DIR", "RIH_RETRIEVE_TOP_K", "RIH_WATCH_ENABLED",
		"RIH_PLANNER_MODE", "RIH_CLARIFY_DETECTOR_VERSION",
		"RIH_SPELLING_ENABLED", "RIH_ENHANCER_ENABLED",
		"RIH_LLM_BASE_URL", "RIH_LLM_API_KEY", "RIH_LLM_MODEL",
	} {
		t.Setenv(name, "")
	}

	cfg := FromEnv()

	if cfg.Environment != "development" {
		t.Fatalf("Environment = %q", cfg.Environment)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.DBPath != filepath.Join("/data", "assistant-runtime", "audit.sqlite") {
		t.Fatalf("DBPath = %q", cfg.DBPath)
	}
	if cfg.KBDir != filepath.Join("/data", "kb") {
		t.Fatalf("KBDir = %q", cfg.KBDir)
	}
	if cfg.RulesPath != "" || cfg.RequireRules || cfg.RouteAppointmentsToCounseling {
		t.Fatalf("rules defaults = %q %v %v", cfg.RulesPath, cfg.RequireRules, cfg.RouteAppointmentsToCounseling)
	}
	if cfg.RetrieveTopK != 3 {
		t.Fatalf("RetrieveTopK = %d", cfg.RetrieveTopK)
	}
	if cfg.PlannerMode != "rule" {
		t.Fatalf("PlannerMode = %q", cfg.PlannerMode)
	}
	if cfg.ClarifyDetectorVersion != 2 {
		t.Fatalf("ClarifyDetectorVersion = %d", cfg.ClarifyDetectorVersion)
	}
	if cfg.SpellingEnabled || cfg.EnhancerEnabled {
		t.Fatalf("polish passes must default off")
	}
	if cfg.GuardTimeoutSec != 10 || cfg.LLMTimeoutSec != 30 {
		t.Fatalf("timeouts = %d %d", cfg.GuardTimeoutSec, cfg.LLMTimeoutSec)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("RIH_DATA_DIR", "/var/lib/rih")
	t.Setenv("RIH_HTTP_ADDR", ":9090")
	t.Setenv("RIH_RULES_PATH", "/etc/rih/routing.csv")
	t.Setenv("RIH_REQUIRE_RULES", "true")
	t.Setenv("RIH_ROUTE_APPOINTMENT_TO_COUNSELING", "yes")
	t.Setenv("RIH_RETRIEVE_TOP_K", "5")
	t.Setenv("RIH_PLANNER_MODE", "LLM")
	t.Setenv("RIH_CLARIFY_DETECTOR_VERSION", "1")
	t.Setenv("RIH_SPELLING_ENABLED", "on")
	t.Setenv("RIH_ENHANCER_ENABLED", "1")
	t.Setenv("RIH_LLM_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("RIH_LLM_MODEL", "llama3")

	cfg := FromEnv()

	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.DBPath != filepath.Join("/var/lib/rih", "assistant-runtime", "audit.sqlite") {
		t.Fatalf("DBPath should follow the data dir, got %q", cfg.DBPath)
	}
	if cfg.KBDir != filepath.Join("/var/lib/rih", "kb") {
		t.Fatalf("KBDir = %q", cfg.KBDir)
	}
	if cfg.RulesPath != "/etc/rih/routing.csv" || !cfg.RequireRules || !cfg.RouteAppointmentsToCounseling {
		t.Fatalf("rules = %q %v %v", cfg.RulesPath, cfg.RequireRules, cfg.RouteAppointmentsToCounseling)
	}
	if cfg.RetrieveTopK != 5 {
		t.Fatalf("RetrieveTopK = %d", cfg.RetrieveTopK)
	}
	if cfg.PlannerMode != "llm" {
		t.Fatalf("PlannerMode should lower-case, got %q", cfg.PlannerMode)
	}
	if cfg.ClarifyDetectorVersion != 1 {
		t.Fatalf("ClarifyDetectorVersion = %d", cfg.ClarifyDetectorVersion)
	}
	if !cfg.SpellingEnabled || !cfg.EnhancerEnabled {
		t.Fatalf("polish passes should be on")
	}
	if cfg.LLMBaseURL != "http://localhost:11434/v1" || cfg.LLMModel != "llama3" {
		t.Fatalf("llm = %q %q", cfg.LLMBaseURL, cfg.LLMModel)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("RIH_RETRIEVE_TOP_K", "0")
	t.Setenv("RIH_PLANNER_MODE", "oracle")
	t.Setenv("RIH_SPELLING_ENABLED", "maybe")

	cfg := FromEnv()

	if cfg.RetrieveTopK != 3 {
		t.Fatalf("non-positive top-k must fall back, got %d", cfg.RetrieveTopK)
	}
	if cfg.PlannerMode != "rule" {
		t.Fatalf("unknown planner mode must fall back, got %q", cfg.PlannerMode)
	}
	if cfg.SpellingEnabled {
		t.Fatalf("unparseable bool must keep its default")
	}
}
