package keypad

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
)

const (
	wsReadTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is a client frame: "key", "input", "state" or "ping".
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type WSKeyPayload struct {
	Key string `json:"key"`
}

type WSInputPayload struct {
	Input string `json:"input"`
}

// WSResponse is a server frame: "display", "pong" or "error".
type WSResponse struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type WSDisplayPayload struct {
	SessionID      string `json:"session_id"`
	Display        string `json:"display"`
	DivisionByZero bool   `json:"division_by_zero"`
}

type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeWS handles GET /calculator/ws. The connection drives the session
// named by ?session_id=, or a new one that is deleted when it closes. The
// current display is sent as soon as the connection is up.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "calculator.ws")
	defer span.End()

	var (
		s     *session.Session
		err   error
		owned bool
	)
	if id := r.URL.Query().Get("session_id"); id != "" {
		if s, err = h.store.Get(id); err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "ws_connect", "session not found", err, http.StatusNotFound, w)
			return
		}
	} else {
		if s, err = h.store.Create(); err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "ws_connect", "session limit reached", err, http.StatusServiceUnavailable, w)
			return
		}
		owned = true
	}

	span.SetAttributes(
		attribute.String("calculator.session.id", s.ID),
		attribute.Bool("calculator.session.owned", owned),
	)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "websocket upgrade failed")
		logger.Error("websocket upgrade failed", zap.Error(err))
		if owned {
			h.store.Delete(s.ID)
		}
		return
	}

	ctx = observability.ContextWithSessionID(ctx, s.ID)
	logger = logger.With(zap.String("session_id", s.ID))

	c := &wsConn{conn: conn, logger: logger}
	defer func() {
		conn.Close()
		if owned {
			h.store.Delete(s.ID)
		}
		logger.Info("websocket connection closed")
	}()

	logger.Info("websocket connection established", zap.String("remote", conn.RemoteAddr().String()))

	c.sendDisplay(s.ID, s.Snapshot().Display, false)
	h.handleConnection(ctx, c, s)
}

func (h *Handler) handleConnection(ctx context.Context, c *wsConn, s *session.Session) {
	c.conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(ctx, "invalid_message", "frame is not a JSON message")
			continue
		}

		switch msg.Type {
		case "ping":
			c.send(WSResponse{Type: "pong"})

		case "state":
			c.sendDisplay(s.ID, s.Snapshot().Display, false)

		case "key":
			var p WSKeyPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Key == "" {
				c.sendError(ctx, "invalid_payload", "key payload needs a key")
				continue
			}
			h.pressFrame(ctx, c, s, msg.Type, func() (session.Result, error) { return s.Press(p.Key) })

		case "input":
			var p WSInputPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Input == "" {
				c.sendError(ctx, "invalid_payload", "input payload needs input")
				continue
			}
			h.pressFrame(ctx, c, s, msg.Type, func() (session.Result, error) { return s.PressInput(p.Input) })

		default:
			c.sendError(ctx, "unknown_type", "unknown message type: "+msg.Type)
		}
	}
}

func (h *Handler) pressFrame(ctx context.Context, c *wsConn, s *session.Session, frame string, run func() (session.Result, error)) {
	ctx, span := tracer.Start(ctx, "calculator.ws."+frame,
		trace.WithAttributes(attribute.String("calculator.session.id", s.ID)),
	)
	defer span.End()

	res, err := press(ctx, span, run)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		code := "invalid_input"
		if errors.Is(err, calculator.ErrUnknownKey) {
			code = "unknown_key"
		}
		c.sendError(ctx, code, err.Error())
		return
	}

	c.sendDisplay(s.ID, res.Display, res.DivisionByZero())
}

type wsConn struct {
	conn   *websocket.Conn
	logger *zap.Logger
}

func (c *wsConn) send(resp WSResponse) {
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := c.conn.WriteJSON(resp); err != nil {
		c.logger.Warn("websocket send error", zap.Error(err))
	}
}

func (c *wsConn) sendDisplay(id, display string, divByZero bool) {
	c.send(WSResponse{
		Type: "display",
		Payload: WSDisplayPayload{
			SessionID:      id,
			Display:        fit(display),
			DivisionByZero: divByZero,
		},
	})
}

func (c *wsConn) sendError(ctx context.Context, code, message string) {
	errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "ws_"+code)))
	c.logger.Warn("websocket frame rejected", zap.String("code", code), zap.String("message", message))

	c.send(WSResponse{
		Type: "error",
		Payload: WSErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}
