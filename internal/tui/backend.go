package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/keypad"
)

// Backend applies key presses for the keypad. Press returns the display to
// show. calculator.ErrDivisionByZero and calculator.ErrNonFiniteResult come
// with a valid display and are not shown to the user.
type Backend interface {
	Press(ctx context.Context, k calculator.Key) (string, error)
	Display() string
	Close() error
}

// LocalBackend runs the calculator in process.
type LocalBackend struct {
	mu   sync.Mutex
	calc *calculator.Calculator
}

func NewLocalBackend() *LocalBackend {
	return &LocalBackend{calc: calculator.New()}
}

func (b *LocalBackend) Press(_ context.Context, k calculator.Key) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.calc.Apply(k)
	return b.calc.Display(), err
}

func (b *LocalBackend) Display() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calc.Display()
}

func (b *LocalBackend) Close() error { return nil }

const remoteTimeout = 10 * time.Second

// RemoteBackend drives a server session over /calculator/ws.
type RemoteBackend struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	sessionID string
	display   string
}

// DialRemote connects to url and waits for the session's first display.
func DialRemote(ctx context.Context, url string) (*RemoteBackend, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	b := &RemoteBackend{conn: conn}
	p, err := b.readDisplay(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}
	b.sessionID = p.SessionID
	b.display = p.Display
	return b, nil
}

// SessionID names the server session this backend drives.
func (b *RemoteBackend) SessionID() string { return b.sessionID }

func (b *RemoteBackend) Press(ctx context.Context, k calculator.Key) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	payload, err := json.Marshal(keypad.WSKeyPayload{Key: string(k)})
	if err != nil {
		return b.display, err
	}

	b.conn.SetWriteDeadline(deadline(ctx))
	if err := b.conn.WriteJSON(keypad.WSMessage{Type: "key", Payload: payload}); err != nil {
		return b.display, fmt.Errorf("send key: %w", err)
	}

	p, err := b.readDisplay(ctx)
	if err != nil {
		return b.display, err
	}
	b.display = p.Display
	if p.DivisionByZero {
		return b.display, calculator.ErrDivisionByZero
	}
	return b.display, nil
}

func (b *RemoteBackend) Display() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.display
}

func (b *RemoteBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return b.conn.Close()
}

// readDisplay reads the next display frame. An error frame becomes an error.
func (b *RemoteBackend) readDisplay(ctx context.Context) (keypad.WSDisplayPayload, error) {
	var p keypad.WSDisplayPayload

	b.conn.SetReadDeadline(deadline(ctx))
	for {
		var frame struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := b.conn.ReadJSON(&frame); err != nil {
			return p, fmt.Errorf("read frame: %w", err)
		}

		switch frame.Type {
		case "display":
			if err := json.Unmarshal(frame.Payload, &p); err != nil {
				return p, fmt.Errorf("decode display: %w", err)
			}
			return p, nil
		case "error":
			var e keypad.WSErrorPayload
			json.Unmarshal(frame.Payload, &e)
			return p, fmt.Errorf("server rejected key: %s: %s", e.Code, e.Message)
		}
		// pong and unknown frames are skipped
	}
}

func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(remoteTimeout)
}
