package server_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

type wsFrame struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	TopicID string `json:"topic_id,omitempty"`
	Value   string `json:"value,omitempty"`
}

type wsReply struct {
	Type       string  `json:"type"`
	Error      string  `json:"error"`
	Reply      string  `json:"reply"`
	TopicID    string  `json:"topic_id"`
	Confidence float64 `json:"confidence"`
	Matched    bool    `json:"matched"`
}

func dialWS(t *testing.T, ctx context.Context) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(newTestServer(t).Handler())
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/chat/ws?session=ws1"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func TestWS_ChatAndFeedback(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn := dialWS(t, ctx)

	if err := wsjson.Write(ctx, conn, wsFrame{Type: "message", Text: "what is plot size"}); err != nil {
		t.Fatalf("write message: %v", err)
	}
	var reply wsReply
	if err := wsjson.Read(ctx, conn, &reply); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Type != "reply" || reply.TopicID != "plot_size_basic" || !reply.Matched {
		t.Errorf("reply = %+v, want matched plot_size_basic", reply)
	}
	if reply.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", reply.Confidence)
	}

	if err := wsjson.Write(ctx, conn, wsFrame{Type: "feedback", TopicID: "plot_size_basic", Value: "up"}); err != nil {
		t.Fatalf("write feedback: %v", err)
	}
	var ack wsReply
	if err := wsjson.Read(ctx, conn, &ack); err != nil {
		t.Fatalf("read ack: %v", err)
	}
	if ack.Type != "ack" {
		t.Errorf("ack.Type = %q, want ack", ack.Type)
	}
}

func TestWS_InvalidFrames(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn := dialWS(t, ctx)

	tests := []struct {
		name  string
		frame wsFrame
	}{
		{name: "unknown type", frame: wsFrame{Type: "ping"}},
		{name: "feedback missing topic", frame: wsFrame{Type: "feedback", Value: "up"}},
		{name: "feedback bad value", frame: wsFrame{Type: "feedback", TopicID: "plot_size_basic", Value: "meh"}},
	}
	for _, tc := range tests {
		if err := wsjson.Write(ctx, conn, tc.frame); err != nil {
			t.Fatalf("%s: write: %v", tc.name, err)
		}
		var reply wsReply
		if err := wsjson.Read(ctx, conn, &reply); err != nil {
			t.Fatalf("%s: read: %v", tc.name, err)
		}
		if reply.Type != "error" || reply.Error == "" {
			t.Errorf("%s: reply = %+v, want error frame", tc.name, reply)
		}
	}
}
