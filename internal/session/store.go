// Package session keeps one calculator per remote client. Each Session
// serialises its own key presses; the Store only guards the index.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"go-chi-calculator/internal/calculator"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrStoreFull = errors.New("session limit reached")
)

// Config bounds the store.
type Config struct {
	TTL         time.Duration
	MaxSessions int
}

// Store indexes live sessions by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// NewStore creates an empty store. A zero TTL disables expiry and a zero
// MaxSessions disables the limit.
func NewStore(cfg Config) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      cfg.TTL,
		max:      cfg.MaxSessions,
		now:      time.Now,
	}
}

// Create starts a session in the default calculator state.
func (st *Store) Create() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.max > 0 && len(st.sessions) >= st.max {
		return nil, fmt.Errorf("%w (%d)", ErrStoreFull, st.max)
	}

	now := st.now()
	s := &Session{
		ID:       uuid.New().String(),
		Created:  now,
		calc:     calculator.New(),
		lastSeen: now,
		now:      st.now,
	}
	st.sessions[s.ID] = s
	return s, nil
}

// Get returns the session and marks it as used.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.touch(st.now())
	return s, nil
}

// Delete removes the session and reports whether it existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (st *Store) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}

	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done. onSweep, if set, receives the
// number of sessions removed by each sweep that removed any.
func (st *Store) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

// Collector exposes the live session count as a Prometheus gauge.
func (st *Store) Collector() prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "calculator_sessions_active",
		Help: "Number of live calculator sessions.",
	}, func() float64 {
		return float64(st.Len())
	})
}
