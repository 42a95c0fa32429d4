package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/msto63/minilang/internal/report"
	"github.com/msto63/minilang/internal/runner"
	"github.com/msto63/minilang/pkg/core/logging"
)

const wsReadTimeout = 120 * time.Second

// WebSocket upgrader with permissive settings for local use
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler serves live checking: each message carries a source text
// and is answered with its report document
type WebSocketHandler struct {
	runner *runner.Runner
	logger *logging.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(r *runner.Runner, logger *logging.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		runner: r,
		logger: logger,
	}
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`              // "check", "tokenize", "ping"
	ID      string          `json:"id,omitempty"`      // Echoed in the response
	Payload json.RawMessage `json:"payload,omitempty"` // SourceRequest for check/tokenize
}

// WSResponse represents a WebSocket response
type WSResponse struct {
	Type    string      `json:"type"` // "result", "error", "pong"
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection handles a single WebSocket connection. Messages are
// answered in order.
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	h.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	send := func(resp WSResponse) {
		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Error("WebSocket send error", "error", err)
		}
	}

	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Error("WebSocket read error", "error", err)
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		switch msg.Type {
		case "ping":
			send(WSResponse{Type: "pong", ID: msg.ID})

		case "check", "tokenize":
			var payload SourceRequest
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				send(errorResponse(msg.ID, "invalid_payload", "Invalid source payload"))
				continue
			}
			if payload.Name == "" {
				payload.Name = "websocket"
			}

			var doc *report.Document
			if msg.Type == "tokenize" {
				doc, _ = h.runner.Tokenize(ctx, payload.Name, payload.Source)
			} else {
				doc, _ = h.runner.Check(ctx, payload.Name, payload.Source)
			}
			send(WSResponse{Type: "result", ID: msg.ID, Payload: doc})

		default:
			send(errorResponse(msg.ID, "unknown_type", "Unknown message type: "+msg.Type))
		}
	}
}

func errorResponse(id, code, message string) WSResponse {
	return WSResponse{
		Type: "error",
		ID:   id,
		Payload: WSErrorPayload{
			Code:    code,
			Message: message,
		},
	}
}
