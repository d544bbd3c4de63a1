package bypass

import "fmt"

// EventType identifies what happened during a tick
type EventType int

const (
	EventTap EventType = iota
	EventRelease
	EventLongHold
	EventModeChange
	EventPulse
)

func (t EventType) String() string {
	switch t {
	case EventTap:
		return "tap"
	case EventRelease:
		return "release"
	case EventLongHold:
		return "long-hold"
	case EventModeChange:
		return "mode"
	case EventPulse:
		return "pulse"
	}
	return "unknown"
}

// PulseSource says what caused an output pulse
type PulseSource int

const (
	PulseNone PulseSource = iota
	PulseGesture
	PulseOscillator
)

// Event is emitted to the pedal's listener. Mode and EffectOn are the
// values after the event was applied.
type Event struct {
	Type     EventType
	Tick     uint64
	Mode     Mode
	EffectOn bool

	Gap    int         // Tap: ticks since the previous tap
	From   Mode        // ModeChange: previous mode
	Source PulseSource // Pulse
}

func (e Event) String() string {
	switch e.Type {
	case EventTap:
		kind := "slow"
		if e.Gap < TapMS {
			kind = "double"
		}
		return fmt.Sprintf("%8d  tap %s gap=%dms", e.Tick, kind, e.Gap)
	case EventModeChange:
		return fmt.Sprintf("%8d  mode %s -> %s", e.Tick, e.From, e.Mode)
	case EventPulse:
		src := "gesture"
		if e.Source == PulseOscillator {
			src = "tempo"
		}
		return fmt.Sprintf("%8d  pulse %s effect=%s", e.Tick, src, onOff(e.EffectOn))
	}
	return fmt.Sprintf("%8d  %s", e.Tick, e.Type)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
