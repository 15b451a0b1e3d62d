package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/petal/internal/form"
	"github.com/Veraticus/petal/internal/model"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	maxMessageBytes = 1 << 10
	predictTimeout  = 10 * time.Second
	writeWait       = 10 * time.Second
	idleTimeout     = 30 * time.Minute
)

// Client message types.
const (
	MessageSet     = "set"
	MessagePredict = "predict"
	MessageReset   = "reset"
)

// ProblemInvalidMessage is reported for frames that do not decode as a ClientMessage.
const ProblemInvalidMessage = "invalid message"

// ClientMessage is one user action sent over the socket.
type ClientMessage struct {
	Value *float64 `json:"value,omitempty"`
	Type  string   `json:"type"`
	Field string   `json:"field,omitempty"`
}

// ServerMessage is the session snapshot sent after every client message.
type ServerMessage struct {
	form.Snapshot
	SessionID string `json:"session_id"`
	Problem   string `json:"problem,omitempty"`
}

// Session upgrades the request and runs one form session for the connection.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Debug("Failed to close websocket", "error", err)
		}
	}()
	conn.SetReadLimit(maxMessageBytes)

	id := uuid.NewString()
	session := form.NewSession(h.predictor)
	slog.Info("Session opened", "session_id", id)
	defer slog.Info("Session closed", "session_id", id)

	if err := send(conn, ServerMessage{Snapshot: session.Snapshot(), SessionID: id}); err != nil {
		return
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(idleTimeout))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("Session read failed", "session_id", id, "error", err)
			}
			return
		}

		reply := ServerMessage{SessionID: id}
		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			slog.Debug("Ignoring undecodable message", "session_id", id, "error", err)
			reply.Problem = ProblemInvalidMessage
		} else if err := apply(r.Context(), session, msg); err != nil {
			reply.Problem = err.Error()
		}
		reply.Snapshot = session.Snapshot()

		if err := send(conn, reply); err != nil {
			slog.Debug("Session write failed", "session_id", id, "error", err)
			return
		}
	}
}

func send(conn *websocket.Conn, msg ServerMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

// apply performs one client action. Prediction failures are recorded on the
// session; only malformed messages are returned as errors.
func apply(ctx context.Context, session *form.Session, msg ClientMessage) error {
	switch msg.Type {
	case MessageSet:
		spec, ok := model.FieldByKey(msg.Field)
		if !ok {
			return fmt.Errorf("unknown field %q", msg.Field)
		}
		if msg.Value == nil {
			return fmt.Errorf("missing value for %q", msg.Field)
		}
		session.Set(spec.Field, *msg.Value)

	case MessagePredict:
		ctx, cancel := context.WithTimeout(ctx, predictTimeout)
		defer cancel()
		if _, err := session.Trigger(ctx); err != nil {
			slog.Error("Prediction failed", "error", err)
		}

	case MessageReset:
		session.Reset()

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}
