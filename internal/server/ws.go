package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/nivaas-labs/assistant/internal/assistant"
	"github.com/nivaas-labs/assistant/internal/observe"
)

const wsWriteTimeout = 10 * time.Second

// wsInbound is a client frame on the chat stream. Type "message" carries a
// user turn; type "feedback" records a thumbs rating for an earlier reply.
type wsInbound struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	TopicID string `json:"topic_id,omitempty"`
	Value   string `json:"value,omitempty"`
}

// wsOutbound is a server frame. Replies embed the full turn result so
// websocket clients see the same shape as POST /v1/chat callers.
type wsOutbound struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
	assistant.Result
}

// handleWS upgrades the request and runs a chat loop until the client
// disconnects. The session ID comes from the "session" query parameter,
// falling back to the request's correlation ID so anonymous clients still
// get turn-to-turn context.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		observe.Logger(r.Context()).Warn("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = observe.CorrelationID(ctx)
	}

	for {
		var in wsInbound
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				observe.Logger(ctx).Debug("websocket read failed", "err", err)
			}
			return
		}

		switch in.Type {
		case "message":
			res := s.asst.HandleTurn(ctx, sessionID, in.Text)
			if err := s.wsWrite(ctx, conn, wsOutbound{Type: "reply", Result: res}); err != nil {
				return
			}
		case "feedback":
			if in.TopicID == "" || (in.Value != "up" && in.Value != "down") {
				if err := s.wsWrite(ctx, conn, wsOutbound{Type: "error", Error: "feedback needs topic_id and value up|down"}); err != nil {
					return
				}
				continue
			}
			s.asst.RecordFeedback(ctx, sessionID, in.TopicID, in.Value == "up")
			if err := s.wsWrite(ctx, conn, wsOutbound{Type: "ack"}); err != nil {
				return
			}
		default:
			if err := s.wsWrite(ctx, conn, wsOutbound{Type: "error", Error: "unknown frame type"}); err != nil {
				return
			}
		}
	}
}

func (s *Server) wsWrite(ctx context.Context, conn *websocket.Conn, out wsOutbound) error {
	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, out)
}
