package calculator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Key is a single keypad button, identified by its canonical label.
type Key string

const (
	Key0         Key = "0"
	Key1         Key = "1"
	Key2         Key = "2"
	Key3         Key = "3"
	Key4         Key = "4"
	Key5         Key = "5"
	Key6         Key = "6"
	Key7         Key = "7"
	Key8         Key = "8"
	Key9         Key = "9"
	KeyDecimal   Key = "."
	KeyAdd       Key = "+"
	KeySubtract  Key = "−"
	KeyMultiply  Key = "×"
	KeyDivide    Key = "÷"
	KeyEquals    Key = "="
	KeyClear     Key = "C"
	KeyBackspace Key = "⌫"
	KeyPercent   Key = "%"
)

// KeyKind groups keys by how the state machine treats them.
type KeyKind int

const (
	KindUnknown KeyKind = iota
	KindDigit
	KindDecimal
	KindOperator
	KindEquals
	KindClear
	KindBackspace
	KindPercent
)

func (k KeyKind) String() string {
	switch k {
	case KindDigit:
		return "digit"
	case KindDecimal:
		return "decimal"
	case KindOperator:
		return "operator"
	case KindEquals:
		return "equals"
	case KindClear:
		return "clear"
	case KindBackspace:
		return "backspace"
	case KindPercent:
		return "percent"
	default:
		return "unknown"
	}
}

// aliases maps ASCII spellings onto canonical labels.
var aliases = map[string]Key{
	"-": KeySubtract,
	"*": KeyMultiply,
	"/": KeyDivide,
	"c": KeyClear,
}

// Keys returns every canonical key in keypad order, row by row.
func Keys() []Key {
	return []Key{
		KeyClear, KeyBackspace, KeyPercent, KeyDivide,
		Key7, Key8, Key9, KeyMultiply,
		Key4, Key5, Key6, KeySubtract,
		Key1, Key2, Key3, KeyAdd,
		Key0, KeyDecimal, KeyEquals,
	}
}

// ParseKey resolves a token to its canonical key. Surrounding whitespace is
// ignored.
func ParseKey(token string) (Key, error) {
	t := strings.TrimSpace(token)
	if k, ok := aliases[t]; ok {
		return k, nil
	}
	k := Key(t)
	if k.Kind() == KindUnknown {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, token)
	}
	return k, nil
}

// Tokenize splits a key string such as "12+3=" into keys. Every key is a
// single rune, so no separators are needed; whitespace is skipped.
func Tokenize(input string) ([]Key, error) {
	keys := make([]Key, 0, utf8.RuneCountInString(input))
	for i, r := range input {
		if unicode.IsSpace(r) {
			continue
		}
		k, err := ParseKey(string(r))
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Kind classifies the key.
func (k Key) Kind() KeyKind {
	switch k {
	case Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9:
		return KindDigit
	case KeyDecimal:
		return KindDecimal
	case KeyAdd, KeySubtract, KeyMultiply, KeyDivide:
		return KindOperator
	case KeyEquals:
		return KindEquals
	case KeyClear:
		return KindClear
	case KeyBackspace:
		return KindBackspace
	case KeyPercent:
		return KindPercent
	default:
		return KindUnknown
	}
}

// Operator returns the binary operator bound to an operator key.
func (k Key) Operator() (Operator, bool) {
	switch k {
	case KeyAdd:
		return OpAdd, true
	case KeySubtract:
		return OpSubtract, true
	case KeyMultiply:
		return OpMultiply, true
	case KeyDivide:
		return OpDivide, true
	default:
		return OpNone, false
	}
}

// Label is the text printed on the button.
func (k Key) Label() string { return string(k) }

// IsFunction reports whether the key is one of the grey function keys.
func (k Key) IsFunction() bool {
	switch k.Kind() {
	case KindClear, KindBackspace, KindPercent:
		return true
	}
	return false
}
