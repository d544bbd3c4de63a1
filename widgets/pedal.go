package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderLED renders a single indicator in the given color
func RenderLED(color [3]uint8, symbol rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(symbol))
}

// RenderLabeledLED renders "● label" with the LED lit or dark
func RenderLabeledLED(lit bool, on, off [3]uint8, onSym, offSym rune, label string) string {
	if lit {
		return RenderLED(on, onSym) + " " + label
	}
	return RenderLED(off, offSym) + " " + label
}

// Gauge draws a horizontal bar for value in [0,max] with an optional
// marker cell (e.g. the pot center detent). mark < 0 disables it.
type Gauge struct {
	Width int
	Full  rune
	Empty rune
	Mark  rune
}

// Bar returns the unstyled gauge string
func (g Gauge) Bar(value, max, mark int) string {
	if g.Width <= 0 || max <= 0 {
		return ""
	}
	value = clamp(value, 0, max)
	filled := value * g.Width / max
	markCell := -1
	if mark >= 0 {
		markCell = clamp(mark*g.Width/max, 0, g.Width-1)
	}

	var out strings.Builder
	for i := 0; i < g.Width; i++ {
		switch {
		case i == markCell:
			out.WriteRune(g.Mark)
		case i < filled:
			out.WriteRune(g.Full)
		default:
			out.WriteRune(g.Empty)
		}
	}
	return out.String()
}

// Render returns the gauge colored with fg for the filled part
func (g Gauge) Render(value, max, mark int, fg [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(fg)))
	return style.Render(g.Bar(value, max, mark))
}

// PhaseBar shows how far the tempo oscillator is through its period
func PhaseBar(moment, period, width int, done, ahead rune) string {
	if width <= 0 {
		return ""
	}
	if period <= 0 {
		return strings.Repeat(string(ahead), width)
	}
	n := clamp(moment, 0, period) * width / period
	return strings.Repeat(string(done), n) + strings.Repeat(string(ahead), width-n)
}

// RenderField renders "label value" with a dim label
func RenderField(label, value string, dim [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(dim)))
	return fmt.Sprintf("%s %s", style.Render(label), value)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
