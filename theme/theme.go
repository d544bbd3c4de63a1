package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	LEDOn  rune // ● lit
	LEDOff rune // ○ dark

	GaugeFull  rune // █ pot travel
	GaugeEmpty rune // ░
	GaugeMark  rune // │ center detent

	PhaseDone  rune // ━ elapsed part of the tempo period
	PhaseAhead rune // ─
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			LEDOn:  '●',
			LEDOff: '○',

			GaugeFull:  '█',
			GaugeEmpty: '░',
			GaugeMark:  '│',

			PhaseDone:  '━',
			PhaseAhead: '─',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted   = 0.25 // silkscreen
	RoleFG      = 0.45 // labels
	RoleAccent  = 0.55 // amber
	RoleWarning = 0.65 // orange
	RoleActive  = 0.78 // red LED
	RoleSuccess = 0.9  // green LED
)

// Style helpers

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
