package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"integer", 8, "8"},
		{"negative integer", -3, "-3"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"fraction", 2.5, "2.5"},
		{"percent of 99", 99.0 / 100, "0.99"},
		{"small fraction", 1e-7, "0.0000001"},
		{"int64 min", -9223372036854775808, "-9223372036854775808"},
		{"just past int64 max", 9223372036854775808, "9223372036854775808"},
		{"large integral float", 1e20, "100000000000000000000"},
		{"large fractional", 12345.678, "12345.678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOperatorApply(t *testing.T) {
	tests := []struct {
		name    string
		op      Operator
		a, b    float64
		want    float64
		wantErr error
	}{
		{"add", OpAdd, 2, 3, 5, nil},
		{"subtract", OpSubtract, 2, 3, -1, nil},
		{"multiply", OpMultiply, 2.5, 4, 10, nil},
		{"divide", OpDivide, 10, 4, 2.5, nil},
		{"divide by zero", OpDivide, 7, 0, 0, ErrDivisionByZero},
		{"overflow", OpMultiply, math.MaxFloat64, 2, 0, ErrNonFiniteResult},
		{"none", OpNone, 1, 1, 0, ErrNoOperator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op.Apply(tt.a, tt.b)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Apply error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Apply(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestOperatorNames(t *testing.T) {
	tests := []struct {
		op     Operator
		symbol string
		name   string
	}{
		{OpAdd, "+", "add"},
		{OpSubtract, "−", "subtract"},
		{OpMultiply, "×", "multiply"},
		{OpDivide, "÷", "divide"},
		{OpNone, "", "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.Symbol(); got != tt.symbol {
				t.Errorf("Symbol() = %q, want %q", got, tt.symbol)
			}
			if got := tt.op.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
		})
	}
}

func TestFitDisplay(t *testing.T) {
	tests := []struct {
		name    string
		display string
		width   int
		want    string
	}{
		{"fits", "12345.678", 32, "12345.678"},
		{"exact width", "1234", 4, "1234"},
		{"large integer", "1" + strings.Repeat("0", 308), 32, "1e+308"},
		{"tiny fraction", "0." + strings.Repeat("0", 40) + "5", 32, "5e-41"},
		{"negative", "-" + strings.Repeat("9", 40), 32, "-1e+40"},
		{"fewer digits when narrow", "123456789012345678", 8, "1.23e+17"},
		{"rounds when shortest form is too wide", "0.30000000000000004", 12, "3.000000e-01"},
		{"too narrow for exponent", "123456789", 3, "…89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitDisplay(tt.display, tt.width)
			if got != tt.want {
				t.Errorf("FitDisplay(%q, %d) = %q, want %q", tt.display, tt.width, got, tt.want)
			}
		})
	}
}

func TestFitDisplayRoundTripsAtDisplayWidth(t *testing.T) {
	for _, v := range []float64{math.MaxFloat64, -math.MaxFloat64, math.SmallestNonzeroFloat64, 1.0 / 3 * 1e-200} {
		display := Format(v)
		got := FitDisplay(display, DisplayWidth)
		if len(got) > DisplayWidth {
			t.Fatalf("FitDisplay(Format(%v)) is %d characters wide", v, len(got))
		}
		back, err := strconv.ParseFloat(got, 64)
		if err != nil || back != v {
			t.Fatalf("FitDisplay(Format(%v)) = %q does not round-trip", v, got)
		}
	}
}
