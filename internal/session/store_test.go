package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"go-chi-calculator/internal/calculator"
)

func TestStoreCreateGetDelete(t *testing.T) {
	st := NewStore(Config{})

	s, err := st.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Fatalf("expected UUID session id, got %q: %v", s.ID, err)
	}
	if got := s.Snapshot(); got != calculator.Default() {
		t.Fatalf("expected default state, got %+v", got)
	}

	got, err := st.Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != s {
		t.Fatal("expected Get to return the created session")
	}

	if !st.Delete(s.ID) {
		t.Fatal("expected Delete to report an existing session")
	}
	if st.Delete(s.ID) {
		t.Fatal("expected second Delete to report a missing session")
	}
	if _, err := st.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreLimit(t *testing.T) {
	st := NewStore(Config{MaxSessions: 2})

	for i := 0; i < 2; i++ {
		if _, err := st.Create(); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	if _, err := st.Create(); !errors.Is(err, ErrStoreFull) {
		t.Fatalf("expected ErrStoreFull, got %v", err)
	}
	if st.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", st.Len())
	}
}

func TestStoreSweepExpiresIdleSessions(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore(Config{TTL: time.Minute})
	st.now = func() time.Time { return now }

	idle, _ := st.Create()
	active, _ := st.Create()

	now = now.Add(45 * time.Second)
	if _, err := st.Get(active.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}

	now = now.Add(30 * time.Second)
	if removed := st.Sweep(); removed != 1 {
		t.Fatalf("expected 1 session removed, got %d", removed)
	}
	if _, err := st.Get(idle.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected idle session to be gone, got %v", err)
	}
	if _, err := st.Get(active.ID); err != nil {
		t.Fatalf("expected active session to survive: %v", err)
	}
}

func TestStoreSweepKeepsSessionsInUse(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore(Config{TTL: time.Minute})
	st.now = func() time.Time { return now }

	pressed, _ := st.Create()
	cleared, _ := st.Create()

	for i := 0; i < 5; i++ {
		now = now.Add(30 * time.Second)
		if _, err := pressed.Press("1"); err != nil {
			t.Fatalf("Press: %v", err)
		}
		cleared.Reset()
		if removed := st.Sweep(); removed != 0 {
			t.Fatalf("sweep %d removed %d sessions that are in use", i, removed)
		}
	}

	if st.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", st.Len())
	}
	if got := pressed.LastSeen(); !got.Equal(now) {
		t.Fatalf("LastSeen = %v, want %v", got, now)
	}

	now = now.Add(2 * time.Minute)
	if removed := st.Sweep(); removed != 2 {
		t.Fatalf("expected both sessions to expire once idle, got %d", removed)
	}
}

func TestStoreSweepWithoutTTL(t *testing.T) {
	st := NewStore(Config{})
	st.Create()
	if removed := st.Sweep(); removed != 0 {
		t.Fatalf("expected no sweep without TTL, got %d", removed)
	}
}

func TestStoreRunStopsOnCancel(t *testing.T) {
	st := NewStore(Config{TTL: time.Nanosecond})
	st.Create()

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 1)
	done := make(chan struct{})

	go func() {
		st.Run(ctx, time.Millisecond, func(n int) {
			select {
			case swept <- n:
			default:
			}
		})
		close(done)
	}()

	select {
	case n := <-swept:
		if n != 1 {
			t.Fatalf("expected 1 session swept, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sweep")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStoreCollector(t *testing.T) {
	st := NewStore(Config{})
	st.Create()
	st.Create()

	reg := prometheus.NewRegistry()
	c := st.Collector()
	if err := reg.Register(c); err != nil {
		t.Fatalf("registering collector: %v", err)
	}

	if got := testutil.ToFloat64(c); got != 2 {
		t.Fatalf("expected gauge value 2, got %v", got)
	}
}

func TestSessionPress(t *testing.T) {
	st := NewStore(Config{})
	s, _ := st.Create()

	res, err := s.Press("7", "/", "0", "=")
	if err != nil {
		t.Fatalf("Press: %v", err)
	}
	if res.Display != "0" {
		t.Fatalf("expected display %q, got %q", "0", res.Display)
	}
	if len(res.Steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(res.Steps))
	}
	if !res.Steps[3].DivisionByZero || !res.DivisionByZero() {
		t.Fatal("expected the equals step to report division by zero")
	}
	if res.Steps[1].Key != calculator.KeyDivide {
		t.Fatalf("expected alias to resolve to %q, got %q", calculator.KeyDivide, res.Steps[1].Key)
	}
}

func TestSessionPressRejectsUnknownKeyAtomically(t *testing.T) {
	st := NewStore(Config{})
	s, _ := st.Create()

	if _, err := s.Press("5", "?"); !errors.Is(err, calculator.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if got := s.Snapshot().Display; got != "0" {
		t.Fatalf("expected nothing applied, got display %q", got)
	}

	if _, err := s.PressInput("5+z"); !errors.Is(err, calculator.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey from PressInput, got %v", err)
	}
}

func TestSessionPressInputAndReset(t *testing.T) {
	st := NewStore(Config{})
	s, _ := st.Create()

	res, err := s.PressInput("5+3+=")
	if err != nil {
		t.Fatalf("PressInput: %v", err)
	}
	if res.Display != "16" {
		t.Fatalf("expected %q, got %q", "16", res.Display)
	}

	if got := s.Reset(); got != "0" {
		t.Fatalf("expected reset display %q, got %q", "0", got)
	}
	if s.Snapshot() != calculator.Default() {
		t.Fatal("expected default state after reset")
	}
}

func TestSessionConcurrentPresses(t *testing.T) {
	st := NewStore(Config{})
	s, _ := st.Create()
	s.PressInput("0+")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.PressInput("1+")
		}()
	}
	wg.Wait()

	res, _ := s.PressInput("0=")
	if res.Display != "50" {
		t.Fatalf("expected 50 after concurrent chained adds, got %q", res.Display)
	}
}
