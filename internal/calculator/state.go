package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Pending is the left operand and operator captured by an operator press.
// It is absent when Operator is OpNone, and then Operand is always zero.
type Pending struct {
	Operand  float64
	Operator Operator
}

// Active reports whether an operation is pending.
func (p Pending) Active() bool { return p.Operator != OpNone }

// State is the complete calculator state. The zero value is not valid; use
// Default.
type State struct {
	// Display always holds a parseable number with at most one decimal
	// point and is never empty.
	Display string
	Pending Pending
	// AwaitingFreshEntry makes the next digit start a new number.
	AwaitingFreshEntry bool
}

// Default returns the start-of-session state.
func Default() State {
	return State{Display: "0"}
}

// Value parses the display. A display beyond the float64 range reports
// ErrNonFiniteResult.
func (s State) Value() (float64, error) {
	v, err := strconv.ParseFloat(s.Display, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("parse display: %w", ErrNonFiniteResult)
	}
	if err != nil {
		return 0, fmt.Errorf("parse display %q: %w", s.Display, err)
	}
	return v, nil
}

// Transition applies one key press and returns the next state. It never
// fails to produce a valid state; the returned error only reports what
// happened along the way (ErrDivisionByZero, ErrNonFiniteResult) or that the
// key was not recognised, in which case s is returned unchanged.
func Transition(s State, k Key) (State, error) {
	switch k.Kind() {
	case KindDigit, KindDecimal:
		return enterDigit(s, k), nil
	case KindOperator:
		op, _ := k.Operator()
		return pressOperator(s, op)
	case KindEquals:
		return pressEquals(s)
	case KindClear:
		return Default(), nil
	case KindBackspace:
		return backspace(s), nil
	case KindPercent:
		return percent(s)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownKey, string(k))
	}
}

// enterDigit refuses a digit that would push the display past the float64
// range, so the display always parses to a finite value.
func enterDigit(s State, k Key) State {
	next := appendDigit(s, k)
	if _, err := next.Value(); err != nil {
		return s
	}
	return next
}

func appendDigit(s State, k Key) State {
	d := k.Label()
	switch {
	case s.AwaitingFreshEntry:
		if k == KeyDecimal {
			s.Display = "0."
		} else {
			s.Display = d
		}
		s.AwaitingFreshEntry = false
	case k == KeyDecimal && strings.Contains(s.Display, "."):
		// second decimal point is ignored
	case s.Display == "0" && k != KeyDecimal:
		s.Display = d
	default:
		s.Display += d
	}
	return s
}

func pressOperator(s State, op Operator) (State, error) {
	var failure error
	if s.Pending.Active() && !s.AwaitingFreshEntry {
		// Chaining: fold the typed right operand into the pending operation.
		result, err := compute(s)
		if err != nil {
			failure = err
		} else {
			s.Display = Format(result)
			s.Pending.Operand = result
		}
	} else {
		v, err := s.Value()
		if err != nil {
			// operand and operator are captured together or not at all
			return s, err
		}
		s.Pending.Operand = v
	}
	s.Pending.Operator = op
	s.AwaitingFreshEntry = true
	return s, failure
}

func pressEquals(s State) (State, error) {
	var failure error
	if s.Pending.Active() {
		result, err := compute(s)
		if err != nil {
			failure = err
		} else {
			s.Display = Format(result)
		}
	}
	s.Pending = Pending{}
	s.AwaitingFreshEntry = true
	return s, failure
}

func backspace(s State) State {
	if len(s.Display) <= 1 {
		s.Display = "0"
		return s
	}
	s.Display = s.Display[:len(s.Display)-1]
	if s.Display == "-" {
		s.Display = "0"
	}
	return s
}

func percent(s State) (State, error) {
	v, err := s.Value()
	if err != nil {
		return s, err
	}
	s.Display = Format(v / 100)
	return s, nil
}

// compute evaluates the pending operation with the display as right operand.
func compute(s State) (float64, error) {
	b, err := s.Value()
	if err != nil {
		return 0, err
	}
	return s.Pending.Operator.Apply(s.Pending.Operand, b)
}
