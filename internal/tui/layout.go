package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-chi-calculator/internal/calculator"
)

const (
	buttonWidth   = 8
	buttonHeight  = 3
	gap           = 1
	displayHeight = 3
	padX          = 2
	padY          = 1

	gridWidth = 4*buttonWidth + 3*gap
)

type buttonKind int

const (
	kindDigit buttonKind = iota
	kindFunction
	kindOperator
)

// grid is the keypad, top row first. The zero key spans two columns.
var grid = [][]calculator.Key{
	{calculator.KeyClear, calculator.KeyBackspace, calculator.KeyPercent, calculator.KeyDivide},
	{calculator.Key7, calculator.Key8, calculator.Key9, calculator.KeyMultiply},
	{calculator.Key4, calculator.Key5, calculator.Key6, calculator.KeySubtract},
	{calculator.Key1, calculator.Key2, calculator.Key3, calculator.KeyAdd},
	{calculator.Key0, calculator.KeyDecimal, calculator.KeyEquals},
}

func kindOf(k calculator.Key) buttonKind {
	switch {
	case k.IsFunction():
		return kindFunction
	case k.Kind() == calculator.KindOperator, k.Kind() == calculator.KindEquals:
		return kindOperator
	default:
		return kindDigit
	}
}

func widthOf(k calculator.Key) int {
	if k == calculator.Key0 {
		return 2*buttonWidth + gap
	}
	return buttonWidth
}

// buttonRect is the screen area a button occupies, in cells.
type buttonRect struct {
	key  calculator.Key
	x, y int
	w, h int
}

func (r buttonRect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// gridTop is the first screen row of the keypad: frame padding, display,
// one blank line.
const gridTop = padY + displayHeight + 1

func buttonRects() []buttonRect {
	var rects []buttonRect
	for row, keys := range grid {
		x := padX
		y := gridTop + row*(buttonHeight+gap)
		for _, k := range keys {
			w := widthOf(k)
			rects = append(rects, buttonRect{key: k, x: x, y: y, w: w, h: buttonHeight})
			x += w + gap
		}
	}
	return rects
}

// buttonAt maps a mouse position to the button under it.
func buttonAt(x, y int) (calculator.Key, bool) {
	for _, r := range buttonRects() {
		if r.contains(x, y) {
			return r.key, true
		}
	}
	return "", false
}

func renderGrid(pressed calculator.Key) string {
	spacer := strings.Repeat(" ", gap)

	rows := make([]string, 0, 2*len(grid))
	for i, keys := range grid {
		if i > 0 {
			rows = append(rows, strings.Repeat("\n", gap-1))
		}
		cells := make([]string, 0, 2*len(keys))
		for j, k := range keys {
			if j > 0 {
				cells = append(cells, spacer)
			}
			cells = append(cells, buttonStyle(kindOf(k), widthOf(k), k == pressed).Render(k.Label()))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// fitDisplay narrows the display to the panel.
func fitDisplay(s string) string {
	return calculator.FitDisplay(s, gridWidth-2)
}
