package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/rihcare/assistant-runtime/internal/answer"
	"github.com/rihcare/assistant-runtime/internal/config"
	"github.com/rihcare/assistant-runtime/internal/dispatch"
	"github.com/rihcare/assistant-runtime/internal/kb"
	"github.com/rihcare/assistant-runtime/internal/routing"
	"github.com/rihcare/assistant-runtime/internal/store"
)

const testChunk = `{"text":"Schedule a counseling appointment through the patient portal or by phone.","title":"Appointments","category":"counseling","url":"https://health.example.edu/appointments"}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "kb.jsonl"), []byte(testChunk), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	auditStore, err := store.New(filepath.Join(dir, "audit.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { auditStore.Close() })
	if err := auditStore.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	library := kb.NewLibrary(dir, discardLogger())
	dispatcher := dispatch.New(
		routing.NewRouter(routing.NewDefaultRuleset()),
		library,
		dispatch.Options{Logger: discardLogger()},
	)

	handler := NewRouter(Dependencies{
		Config:    config.Config{Environment: "test"},
		Store:     auditStore,
		Assistant: dispatcher,
		Library:   library,
		Logger:    discardLogger(),
		Version:   "test",
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, auditStore
}

func TestHealthAndReady(t *testing.T) {
	server, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		res, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, res.StatusCode)
		}
	}
}

func TestInfo(t *testing.T) {
	server, _ := newTestServer(t)

	res, err := http.Get(server.URL + "/api/v1/info")
	if err != nil {
		t.Fatalf("GET info: %v", err)
	}
	defer res.Body.Close()

	var payload struct {
		Name     string `json:"name"`
		KBChunks int    `json:"kb_chunks"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Name != "assistant-runtime" || payload.KBChunks != 1 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestRespondEndpoint(t *testing.T) {
	server, auditStore := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"text": "i want to kms", "channel": "portal"})
	res, err := http.Post(server.URL+"/api/v1/respond", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST respond: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}

	var result dispatch.Result
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.IsCrisis || result.Text != answer.Crisis() {
		t.Fatalf("result = %+v", result)
	}

	records, err := auditStore.ListInteractions(context.Background(), store.ListInteractionsInput{Channel: "portal"})
	if err != nil {
		t.Fatalf("list interactions: %v", err)
	}
	if len(records) != 1 || !records[0].IsCrisis {
		t.Fatalf("audit rows = %+v", records)
	}
	if strings.Contains(records[0].TraceJSON, "kms") {
		t.Fatalf("audit must not store raw message text: %q", records[0].TraceJSON)
	}
}

func TestRespondValidation(t *testing.T) {
	server, _ := newTestServer(t)

	res, err := http.Post(server.URL+"/api/v1/respond", "application/json", strings.NewReader(`{"text":"  "}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank text: status %d", res.StatusCode)
	}

	res, err = http.Get(server.URL + "/api/v1/respond")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET respond: status %d", res.StatusCode)
	}
}

func TestAuditEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	for _, text := range []string{"i want to kms", "how do i book an appointment"} {
		body, _ := json.Marshal(map[string]string{"text": text})
		res, err := http.Post(server.URL+"/api/v1/respond", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("POST respond: %v", err)
		}
		res.Body.Close()
	}

	res, err := http.Get(server.URL + "/api/v1/audit?crisis=true")
	if err != nil {
		t.Fatalf("GET audit: %v", err)
	}
	defer res.Body.Close()

	var payload struct {
		Interactions []store.Interaction `json:"interactions"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Interactions) != 1 || payload.Interactions[0].Category != "urgent_safety" {
		t.Fatalf("interactions = %+v", payload.Interactions)
	}
}

func TestAuditBadLimit(t *testing.T) {
	server, _ := newTestServer(t)

	res, err := http.Get(server.URL + "/api/v1/audit?limit=zero")
	if err != nil {
		t.Fatalf("GET audit: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", res.StatusCode)
	}
}

func TestChatWebsocket(t *testing.T) {
	server, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/chat/ws"
	conn, res, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if res != nil {
		res.Body.Close()
	}
	defer conn.Close()

	var hello wsReply
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read disclaimer: %v", err)
	}
	if hello.Type != "disclaimer" || hello.Text != answer.Disclaimer {
		t.Fatalf("hello = %+v", hello)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("i think i need therapy")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply wsReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Type != "reply" || reply.Category != "counseling" {
		t.Fatalf("reply = %+v", reply)
	}
	if reply.Text != answer.Template("counseling") {
		t.Fatalf("text = %q", reply.Text)
	}
	if len(reply.Trace) == 0 {
		t.Fatalf("reply frame must carry the decision trace: %+v", reply)
	}
	if reply.Trace[0].Kind != dispatch.EventRoute {
		t.Fatalf("trace should start with the route event, got %+v", reply.Trace)
	}
}
