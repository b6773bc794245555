package calculator

import "errors"

var (
	// ErrDivisionByZero is reported when a pending division has a zero
	// right operand. The display is left untouched.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNonFiniteResult is reported when a computation overflows float64.
	// It is handled exactly like ErrDivisionByZero.
	ErrNonFiniteResult = errors.New("result out of range")

	// ErrUnknownKey is returned for tokens that are not keypad keys.
	ErrUnknownKey = errors.New("unknown key")

	// ErrNoOperator is returned by Operator.Apply on OpNone.
	ErrNoOperator = errors.New("no operator")
)

// IsComputationFailure reports whether err is one of the silent computation
// failures that leave the display unchanged.
func IsComputationFailure(err error) bool {
	return errors.Is(err, ErrDivisionByZero) || errors.Is(err, ErrNonFiniteResult)
}
