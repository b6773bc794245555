package calculator

import (
	"math"
	"strconv"
)

// int64 bounds as float64. The upper bound is exclusive: float64(MaxInt64)
// rounds up to 2^63.
const (
	minInt64Float = -9223372036854775808.0
	maxInt64Float = 9223372036854775808.0
)

// Format renders v for the display. Integral values inside the int64 range
// print without a decimal point; everything else uses the shortest decimal
// text that round-trips to v. Exponent notation is never used so the display
// stays editable with backspace.
func Format(v float64) string {
	if v == math.Trunc(v) && v >= minInt64Float && v < maxInt64Float {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DisplayWidth is the widest display text the presentation adapters pass on.
const DisplayWidth = 32

// FitDisplay renders display in at most width characters. A display that
// is too wide switches to exponent notation, first the shortest form that
// round-trips and then with fewer significant digits. Only when even one
// digit does not fit is the text cut, keeping its rightmost characters.
func FitDisplay(display string, width int) string {
	if len(display) <= width {
		return display
	}
	v, err := strconv.ParseFloat(display, 64)
	if err == nil {
		if s := strconv.FormatFloat(v, 'e', -1, 64); len(s) <= width {
			return s
		}
		for prec := 16; prec >= 0; prec-- {
			if s := strconv.FormatFloat(v, 'e', prec, 64); len(s) <= width {
				return s
			}
		}
	}
	if width <= 1 {
		return display[len(display)-max(width, 0):]
	}
	return "…" + display[len(display)-width+1:]
}
