package cli

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("RIH_DATA_DIR", t.TempDir())

	kbDir := t.TempDir()
	chunk := `{"id":"faq-1","title":"Scheduling counseling","text":"Book a counseling appointment through the myUMBC health portal.","category":"counseling"}`
	if err := os.WriteFile(filepath.Join(kbDir, "faq.jsonl"), []byte(chunk+"\n"), 0o644); err != nil {
		t.Fatalf("seed kb: %v", err)
	}
	t.Setenv("RIH_KB_DIR", kbDir)

	root := NewRoot(discard())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := runCommand(t, "version")
	if !strings.Contains(out, version) {
		t.Fatalf("version output %q missing %q", out, version)
	}
}

func TestRespondCommandCrisis(t *testing.T) {
	out := runCommand(t, "respond", "i want to hurt myself")
	if !strings.Contains(out, "988") {
		t.Fatalf("crisis reply should carry the 988 line, got %q", out)
	}
}

func TestRespondCommandWithTrace(t *testing.T) {
	out := runCommand(t, "respond", "--trace", "how do i book a counseling appointment")
	if !strings.Contains(out, `"kind"`) {
		t.Fatalf("trace JSON missing from output: %q", out)
	}
	if !strings.Contains(out, "route") {
		t.Fatalf("trace should include the route event: %q", out)
	}
}

func TestChatCommandRepliesAndExits(t *testing.T) {
	t.Setenv("RIH_DATA_DIR", t.TempDir())
	t.Setenv("RIH_KB_DIR", t.TempDir())

	root := NewRoot(discard())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader("i feel hopeless and want to end it\n/exit\n"))
	root.SetArgs([]string{"chat"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute chat: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "informational assistant") {
		t.Fatalf("disclaimer missing from session start: %q", text)
	}
	if !strings.Contains(text, "988") {
		t.Fatalf("crisis reply missing: %q", text)
	}
}
