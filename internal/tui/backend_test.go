package tui

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/session"
	"go-chi-calculator/internal/testutil"
)

func newRemote(t *testing.T) (*RemoteBackend, *session.Store) {
	t.Helper()
	store := session.NewStore(session.Config{})
	r := chi.NewRouter()
	keypad.RegisterRoutes(r, keypad.NewHandler(store))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	b, err := DialRemote(context.Background(), testutil.WebSocketURL(srv, "/calculator/ws"))
	if err != nil {
		t.Fatalf("DialRemote: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b, store
}

func TestRemoteBackend(t *testing.T) {
	b, store := newRemote(t)

	if b.Display() != "0" || b.SessionID() == "" {
		t.Fatalf("unexpected handshake: display %q session %q", b.Display(), b.SessionID())
	}
	if _, err := store.Get(b.SessionID()); err != nil {
		t.Fatalf("expected server session: %v", err)
	}

	ctx := context.Background()
	var display string
	for _, k := range []calculator.Key{calculator.Key7, calculator.KeyMultiply, calculator.Key6, calculator.KeyEquals} {
		var err error
		if display, err = b.Press(ctx, k); err != nil {
			t.Fatalf("Press %q: %v", k, err)
		}
	}
	if display != "42" {
		t.Fatalf("expected %q, got %q", "42", display)
	}

	b.Press(ctx, calculator.KeyDivide)
	b.Press(ctx, calculator.Key0)
	display, err := b.Press(ctx, calculator.KeyEquals)
	if !errors.Is(err, calculator.ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
	if display != "0" {
		t.Fatalf("expected display %q, got %q", "0", display)
	}
}

func TestRemoteBackendRejectedKey(t *testing.T) {
	b, _ := newRemote(t)

	if _, err := b.Press(context.Background(), calculator.Key("?")); err == nil || !strings.Contains(err.Error(), "unknown_key") {
		t.Fatalf("expected unknown_key error, got %v", err)
	}
	if b.Display() != "0" {
		t.Fatalf("expected display unchanged, got %q", b.Display())
	}
}

func TestModelOverRemoteBackend(t *testing.T) {
	b, _ := newRemote(t)
	m := New(b, Config{})

	m = typeKeys(t, m, "5+3+=")
	if m.Display() != "16" {
		t.Fatalf("expected %q, got %q", "16", m.Display())
	}
}

func TestDialRemoteFailure(t *testing.T) {
	if _, err := DialRemote(context.Background(), "ws://127.0.0.1:1/calculator/ws"); err == nil {
		t.Fatal("expected dial error")
	}
}
