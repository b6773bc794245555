package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go-chi-calculator/internal/calculator"
)

// Session is one remote calculator.
type Session struct {
	ID      string
	Created time.Time

	mu       sync.Mutex
	calc     *calculator.Calculator
	lastSeen time.Time
	// now is the owning store's clock; nil for sessions outside a store.
	now func() time.Time
}

// Step is the outcome of one key in a Press call.
type Step struct {
	Key            calculator.Key
	Display        string
	DivisionByZero bool
	OutOfRange     bool
}

// Result is the outcome of a Press call.
type Result struct {
	Display string
	Steps   []Step
}

// DivisionByZero reports whether any step hit a division by zero.
func (r Result) DivisionByZero() bool {
	for _, s := range r.Steps {
		if s.DivisionByZero {
			return true
		}
	}
	return false
}

// Press applies keys in order under the session lock. An unknown key
// rejects the whole batch before any key is applied.
func (s *Session) Press(tokens ...string) (Result, error) {
	keys := make([]calculator.Key, 0, len(tokens))
	for _, tok := range tokens {
		k, err := calculator.ParseKey(tok)
		if err != nil {
			return Result{}, err
		}
		keys = append(keys, k)
	}
	return s.apply(keys), nil
}

// PressInput tokenizes a key string such as "5+3=" and applies it.
func (s *Session) PressInput(input string) (Result, error) {
	keys, err := calculator.Tokenize(input)
	if err != nil {
		return Result{}, fmt.Errorf("tokenize input: %w", err)
	}
	return s.apply(keys), nil
}

func (s *Session) apply(keys []calculator.Key) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markUsed()
	res := Result{Steps: make([]Step, 0, len(keys))}
	for _, k := range keys {
		err := s.calc.Apply(k)
		res.Steps = append(res.Steps, Step{
			Key:            k,
			Display:        s.calc.Display(),
			DivisionByZero: errors.Is(err, calculator.ErrDivisionByZero),
			OutOfRange:     errors.Is(err, calculator.ErrNonFiniteResult),
		})
	}
	res.Display = s.calc.Display()
	return res
}

// Snapshot returns the current calculator state.
func (s *Session) Snapshot() calculator.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calc.State()
}

// Reset clears the calculator.
func (s *Session) Reset() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markUsed()
	s.calc.Reset()
	return s.calc.Display()
}

// LastSeen returns when the session was last looked up or pressed.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	s.lastSeen = t
	s.mu.Unlock()
}

// markUsed refreshes lastSeen; s.mu must be held.
func (s *Session) markUsed() {
	if s.now != nil {
		s.lastSeen = s.now()
	}
}

// Evaluate runs input on a throwaway calculator that belongs to no store.
func Evaluate(input string) (Result, error) {
	s := &Session{calc: calculator.New()}
	return s.PressInput(input)
}
