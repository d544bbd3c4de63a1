package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"triple-bypass/bypass"
	"triple-bypass/engine"
	"triple-bypass/midi"
	"triple-bypass/theme"
	"triple-bypass/widgets"
)

// How long a space-bar tap holds the virtual footswitch down
const tapDuration = 40 * time.Millisecond

// Knob steps in ADC counts; the fine step clears the hysteresis band
const (
	potStep       = 8
	potCoarseStep = 64
)

const gaugeWidth = 32

type Model struct {
	Engine    *engine.Engine
	DeviceMgr *midi.DeviceManager // may be nil
	Theme     *theme.Theme
	keys      keyMap
	help      help.Model
	holding   bool
	quitting  bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(eng *engine.Engine, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(th.FG())
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(th.Muted())
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	return Model{
		Engine:    eng,
		DeviceMgr: deviceMgr,
		Theme:     th,
		keys:      newKeyMap(),
		help:      h,
	}
}

func ListenForUpdates(eng *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		<-eng.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Engine)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	panel := m.Engine.Panel()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tap):
			m.holding = false
			panel.Tap(tapDuration)
		case key.Matches(msg, m.keys.Hold):
			m.holding = panel.Toggle()
		case key.Matches(msg, m.keys.PotDown):
			panel.NudgePot(-potStep)
		case key.Matches(msg, m.keys.PotUp):
			panel.NudgePot(potStep)
		case key.Matches(msg, m.keys.PotDown8):
			panel.NudgePot(-potCoarseStep)
		case key.Matches(msg, m.keys.PotUp8):
			panel.NudgePot(potCoarseStep)
		case key.Matches(msg, m.keys.Center):
			panel.SetPot(bypass.CenterValue)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Engine)

	case DeviceEventMsg:
		m.applyDeviceEvent(midi.DeviceEvent(msg))
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) applyDeviceEvent(event midi.DeviceEvent) {
	switch event.Kind {
	case midi.KindFootswitch:
		if fs, ok := event.Device.(engine.Footswitch); ok && event.Type == midi.DeviceConnected {
			m.Engine.SetFootswitch(fs)
		} else if event.Type == midi.DeviceDisconnected {
			m.Engine.SetFootswitch(nil)
		}
	case midi.KindRelay:
		if r, ok := event.Device.(engine.Relay); ok && event.Type == midi.DeviceConnected {
			m.Engine.SetRelay(r)
		} else if event.Type == midi.DeviceDisconnected {
			m.Engine.SetRelay(nil)
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Engine.Status()
	s := st.State
	th := m.Theme
	sym := th.Symbols

	headerStyle := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	dim := th.Palette.Lookup(theme.RoleMuted)
	fg := th.Palette.Lookup(theme.RoleFG)

	// Header
	header := headerStyle.Render(fmt.Sprintf("triple-bypass  %-7s", strings.ToUpper(s.Mode.String())))

	// LEDs: effect, mute pulse, button
	red := th.Palette.Lookup(theme.RoleActive)
	green := th.Palette.Lookup(theme.RoleSuccess)
	amber := th.Palette.Lookup(theme.RoleAccent)
	leds := strings.Join([]string{
		widgets.RenderLabeledLED(st.Main, red, dim, sym.LEDOn, sym.LEDOff, "effect"),
		widgets.RenderLabeledLED(st.Mute, amber, dim, sym.LEDOn, sym.LEDOff, "mute"),
		widgets.RenderLabeledLED(s.BtnPressed > 0, green, dim, sym.LEDOn, sym.LEDOff, "switch"),
	}, "   ")

	// Knob
	gauge := widgets.Gauge{Width: gaugeWidth, Full: sym.GaugeFull, Empty: sym.GaugeEmpty, Mark: sym.GaugeMark}
	potState := "idle"
	if s.PotOffsetActive {
		potState = fmt.Sprintf("%+dms", (s.PotValue-bypass.CenterValue)*bypass.OffsetGain)
	}
	knob := widgets.RenderField("knob  ",
		fmt.Sprintf("%s %4d %s", gauge.Render(s.PotValue, bypass.ADCMax, bypass.CenterValue, fg), s.PotValue, potState), dim)

	// Tempo
	var tempo string
	if s.Mode == bypass.ModeTap {
		phase := widgets.PhaseBar(s.LoopMoment, s.Period(), gaugeWidth, sym.PhaseDone, sym.PhaseAhead)
		tempo = widgets.RenderField("tempo ", fmt.Sprintf("%s %5dms %5.1fbpm", phase, s.Period(), s.BPM()), dim)
	} else {
		tempo = widgets.RenderField("tempo ", lipgloss.NewStyle().Foreground(th.Muted()).Render("double tap to start"), dim)
	}

	// Hardware
	hw := "panel"
	if st.Footswitch != "" {
		hw = st.Footswitch
	}
	if st.Relay != "" {
		hw += "  →  " + st.Relay
	}
	hwLine := widgets.RenderField("io    ", hw, dim)

	// Counters
	counters := widgets.RenderField("ticks ",
		fmt.Sprintf("%d  pressed %dms  since tap %dms  pulses %d", st.Ticks, s.BtnPressed, s.SinceLastPress, st.Pulses), dim)

	// Recent events, newest last
	evStyle := lipgloss.NewStyle().Foreground(th.Muted())
	var evLines []string
	for _, ev := range st.Recent {
		evLines = append(evLines, evStyle.Render(ev.String()))
	}

	hold := ""
	if m.holding {
		hold = lipgloss.NewStyle().Foreground(th.Warning()).Render("  [switch held - h to release]")
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header + hold)
	out.WriteString("\n\n")
	out.WriteString(leds)
	out.WriteString("\n\n")
	out.WriteString(knob + "\n")
	out.WriteString(tempo + "\n")
	out.WriteString(hwLine + "\n")
	out.WriteString(counters + "\n\n")
	out.WriteString(strings.Join(evLines, "\n"))
	out.WriteString("\n\n")
	out.WriteString(m.help.View(m.keys))

	return out.String()
}
