package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rihcare/assistant-runtime/internal/answer"
	"github.com/rihcare/assistant-runtime/internal/dispatch"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The assistant serves campus tools from other origins (LMS widgets,
	// the health portal); session identity is not carried on this socket.
	CheckOrigin: func(*http.Request) bool { return true },
}

const (
	wsWriteTimeout = 10 * time.Second
	wsMaxMessage   = 8 * 1024
)

type wsReply struct {
	Type     string           `json:"type"`
	Text     string           `json:"text"`
	Category string           `json:"category,omitempty"`
	IsCrisis bool             `json:"is_crisis,omitempty"`
	Trace    []dispatch.Event `json:"trace,omitempty"`
}

// handleChatWS runs a chat session over a websocket: one text message in,
// one JSON reply out. The disclaimer is pushed once at session start, the
// same way the CLI prints it.
func (r *router) handleChatWS(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		if r.deps.Logger != nil {
			r.deps.Logger.Warn("websocket upgrade failed", "error", err)
		}
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessage)

	if err := r.writeWS(conn, wsReply{Type: "disclaimer", Text: answer.Disclaimer}); err != nil {
		return
	}

	for {
		kind, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		text := strings.TrimSpace(string(raw))
		if text == "" {
			continue
		}

		result := r.deps.Assistant.Respond(req.Context(), text)
		r.persistInteraction(req.Context(), "ws", result)

		if err := r.writeWS(conn, wsReply{
			Type:     "reply",
			Text:     result.Text,
			Category: result.Category,
			IsCrisis: result.IsCrisis,
			Trace:    result.Trace,
		}); err != nil {
			return
		}
	}
}

func (r *router) writeWS(conn *websocket.Conn, reply wsReply) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(reply)
}
