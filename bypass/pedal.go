package bypass

import (
	"time"
)

// Timing constants, in ticks (1 tick = 1 ms)
const (
	MaxHoldMS          = 1000
	BtnDebounceMS      = 5
	TapMS              = 250
	MaxLoopMS          = 60000
	SilencePulseBefore = 10
	SilencePulseAfter  = 10
)

// Potentiometer constants (10-bit ADC)
const (
	ADCMax        = 1023
	CenterValue   = 512
	PotHysteresis = 3
	OffsetGain    = 2
)

// TickPeriod is the cadence the tick source must call Tick at
const TickPeriod = time.Millisecond

// defaultLoopTime is the tempo period before the first tap
const defaultLoopTime = 1000

// Input is the sampling side of the hardware
type Input interface {
	ReadButton() bool // true while the footswitch is down
	ReadPot() int     // 0..ADCMax
}

// Output drives the two output pins
type Output interface {
	SetMainOutput(on bool)
	SetMutePulse(on bool)
}

// Mode is the pedal's operating mode
type Mode int

const (
	ModeRegular Mode = iota
	ModeHold
	ModeTap
)

func (m Mode) String() string {
	switch m {
	case ModeRegular:
		return "regular"
	case ModeHold:
		return "hold"
	case ModeTap:
		return "tap"
	}
	return "unknown"
}

// State is the single record mutated by Tick
type State struct {
	Mode            Mode
	EffectOn        bool
	LastEffectState bool

	// Gesture classifier
	BtnOn          bool
	ModeChangeFlag bool
	BtnPressed     int
	SinceLastPress int

	// Potentiometer
	PotOffsetActive bool
	PotValue        int
	LastPotValue    int

	// Tap tempo
	LoopTime   int
	LoopOffset int
	LoopMoment int
}

// Period returns the effective oscillator period in ticks
func (s State) Period() int {
	return s.LoopTime + s.LoopOffset
}

// BPM returns the toggle rate as beats per minute, one toggle per beat
func (s State) BPM() float64 {
	p := s.Period()
	if p <= 0 {
		return 0
	}
	return 60000.0 / float64(p)
}

// Pedal is the bypass switch controller. Tick must be called once per
// TickPeriod from a single goroutine.
type Pedal struct {
	state State
	ticks uint64

	in    Input
	out   Output
	delay func(time.Duration)

	onEvent func(Event)
}

// New creates a pedal in regular mode with the effect off
func New(in Input, out Output) *Pedal {
	return &Pedal{
		state: State{
			Mode:     ModeRegular,
			LoopTime: defaultLoopTime,
		},
		in:    in,
		out:   out,
		delay: time.Sleep,
	}
}

// SetDelay replaces the blocking wait used by the output pulse
func (p *Pedal) SetDelay(fn func(time.Duration)) {
	if fn == nil {
		fn = func(time.Duration) {}
	}
	p.delay = fn
}

// SetListener registers a callback for gestures, mode changes and pulses
func (p *Pedal) SetListener(fn func(Event)) {
	p.onEvent = fn
}

// SetInput swaps the sampling source
func (p *Pedal) SetInput(in Input) {
	p.in = in
}

// SetOutput swaps the output driver
func (p *Pedal) SetOutput(out Output) {
	p.out = out
}

// Snapshot returns a copy of the current state
func (p *Pedal) Snapshot() State {
	return p.state
}

// Ticks returns the number of ticks processed since creation
func (p *Pedal) Ticks() uint64 {
	return p.ticks
}

// PowerOn seeds the potentiometer baseline from a single reading so the
// first tick doesn't see a jump from zero, and drives both outputs low.
func (p *Pedal) PowerOn() {
	v := p.in.ReadPot()
	p.state.PotValue = v
	p.state.LastPotValue = v
	p.out.SetMutePulse(false)
	p.out.SetMainOutput(p.state.EffectOn)
}

// Tick runs one 1 ms step of the controller
func (p *Pedal) Tick() {
	p.ticks++

	p.filterPot(p.in.ReadPot())

	g, gap := p.classify(p.in.ReadButton())
	switch g {
	case gestureTap:
		p.onTap(gap)
	case gestureRelease:
		p.onRelease()
	case gestureLongHold:
		p.onLongHold()
	}

	if p.state.Mode == ModeTap {
		p.runOscillator()
	}
}

func (p *Pedal) emit(e Event) {
	if p.onEvent == nil {
		return
	}
	e.Tick = p.ticks
	e.Mode = p.state.Mode
	e.EffectOn = p.state.EffectOn
	p.onEvent(e)
}
