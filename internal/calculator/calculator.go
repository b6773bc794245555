// Package calculator implements the keypad calculator: a display string,
// one pending binary operation and the fresh-entry flag, driven one key
// press at a time.
//
// Transition is the pure state-transition function. Calculator wraps it
// for presentation adapters that hold a single mutable instance; it is not
// safe for concurrent use.
package calculator

import "errors"

// Calculator owns one State and applies key presses to it.
type Calculator struct {
	state State
}

// New returns a calculator in the default state.
func New() *Calculator {
	return &Calculator{state: Default()}
}

// HandleKey applies a key press. Computation failures leave the display as
// it was and are not reported.
func (c *Calculator) HandleKey(k Key) {
	c.state, _ = Transition(c.state, k)
}

// Press parses token, applies it and returns the resulting display.
//
// ErrUnknownKey means nothing changed. ErrDivisionByZero and
// ErrNonFiniteResult mean the key was applied but the computation it
// triggered failed silently; the returned display is still valid.
func (c *Calculator) Press(token string) (string, error) {
	k, err := ParseKey(token)
	if err != nil {
		return c.state.Display, err
	}
	err = c.Apply(k)
	return c.state.Display, err
}

// Apply applies k and returns whatever Transition reported for it.
func (c *Calculator) Apply(k Key) error {
	next, err := Transition(c.state, k)
	c.state = next
	return err
}

// PressAll tokenizes input and applies every key in order. An unknown key
// anywhere in input rejects the whole input without applying anything. The
// first computation failure, if any, is returned after all keys ran.
func (c *Calculator) PressAll(input string) (string, error) {
	keys, err := Tokenize(input)
	if err != nil {
		return c.state.Display, err
	}
	var first error
	for _, k := range keys {
		if err := c.Apply(k); err != nil && first == nil && !errors.Is(err, ErrUnknownKey) {
			first = err
		}
	}
	return c.state.Display, first
}

// Display returns the current display text.
func (c *Calculator) Display() string { return c.state.Display }

// State returns a copy of the current state.
func (c *Calculator) State() State { return c.state }

// Reset restores the default state.
func (c *Calculator) Reset() { c.state = Default() }
