package engine

import (
	"runtime"
	"sync"
	"time"

	"triple-bypass/bypass"
	"triple-bypass/debug"
	"triple-bypass/sim"
)

// recentEvents is how many pedal events Status keeps for the UI
const recentEvents = 8

// UI refresh rate
const uiFPS = 30

// Footswitch is a hardware input that can be attached to the engine
type Footswitch interface {
	bypass.Input
	ID() string
}

// Relay is a hardware output that mirrors the virtual pins
type Relay interface {
	bypass.Output
	ID() string
}

// potSource is implemented by inputs that know whether their pot reading
// is real yet
type potSource interface {
	PotSeen() bool
}

// Status is a consistent view of the engine between two ticks
type Status struct {
	State  bypass.State
	Ticks  uint64
	Main   bool
	Mute   bool
	Pulses int

	Footswitch string // "" when only the panel is active
	Relay      string
	Recent     []bypass.Event
}

// Engine is the tick source. It owns the pedal and calls Tick every
// millisecond from a dedicated goroutine; the tick mutex is held through
// the output pulse so a pulse always completes before the next tick.
type Engine struct {
	pedal *bypass.Pedal
	panel *sim.Panel
	pins  *sim.Pins

	mu         sync.Mutex
	footswitch Footswitch
	relay      Relay
	recent     []bypass.Event
	listeners  []func(bypass.Event)

	stopChan chan struct{}
	running  bool
	wg       sync.WaitGroup

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// New creates an engine with a virtual panel as input and virtual pins
// as output, and powers the pedal on.
func New() *Engine {
	e := &Engine{
		panel:      sim.NewPanel(),
		pins:       &sim.Pins{},
		UpdateChan: make(chan struct{}, 1),
	}
	e.pedal = bypass.New(inputMux{e}, outputFan{e})
	e.pedal.SetListener(e.onEvent)
	e.pedal.PowerOn()
	return e
}

// Panel returns the virtual footswitch and knob
func (e *Engine) Panel() *sim.Panel {
	return e.panel
}

// Subscribe registers fn for every pedal event. fn runs on the tick
// goroutine and must not block.
func (e *Engine) Subscribe(fn func(bypass.Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// SetDelay replaces the pulse wait, for simulated time
func (e *Engine) SetDelay(fn func(time.Duration)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pedal.SetDelay(fn)
}

// SetFootswitch attaches a hardware input; nil detaches it
func (e *Engine) SetFootswitch(fs Footswitch) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.footswitch = fs
	if fs != nil {
		debug.Log("engine", "footswitch %s attached", fs.ID())
	} else {
		debug.Log("engine", "footswitch detached")
	}
	e.notifyUpdate()
}

// SetRelay attaches a hardware output; nil detaches it. The relay is
// brought to the current main output level.
func (e *Engine) SetRelay(r Relay) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.relay = r
	if r != nil {
		main, _, _ := e.pins.Read()
		r.SetMutePulse(false)
		r.SetMainOutput(main)
		debug.Log("engine", "relay %s attached", r.ID())
	} else {
		debug.Log("engine", "relay detached")
	}
	e.notifyUpdate()
}

// Start runs the tick and UI loops
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})

	e.wg.Add(2)
	go e.tickLoop(e.stopChan)
	go e.uiLoop(e.stopChan)
}

// Stop halts both loops and waits for them
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stopChan)
	e.mu.Unlock()

	e.wg.Wait()
}

// Step runs n ticks synchronously, for simulated time
func (e *Engine) Step(n int) {
	for i := 0; i < n; i++ {
		e.tick()
	}
}

func (e *Engine) tick() {
	e.mu.Lock()
	e.pedal.Tick()
	e.mu.Unlock()
}

// tickLoop calls Tick every millisecond. Ticker ticks that arrive while
// a pulse blocks are dropped, so the period stretches during a toggle.
func (e *Engine) tickLoop(stop chan struct{}) {
	defer e.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ticker := time.NewTicker(bypass.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Engine) uiLoop(stop chan struct{}) {
	defer e.wg.Done()
	ticker := time.NewTicker(time.Second / uiFPS)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.notifyUpdate()
		}
	}
}

func (e *Engine) notifyUpdate() {
	select {
	case e.UpdateChan <- struct{}{}:
	default:
	}
}

// onEvent runs inside Tick, with e.mu held
func (e *Engine) onEvent(ev bypass.Event) {
	e.recent = append(e.recent, ev)
	if len(e.recent) > recentEvents {
		e.recent = e.recent[len(e.recent)-recentEvents:]
	}
	for _, fn := range e.listeners {
		fn(ev)
	}
	if ev.Type == bypass.EventPulse {
		debug.LogEvery(10, "engine", "pulse effect=%v", ev.EffectOn)
	}
}

// Status returns the pedal state and pins as of the last completed tick
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Status{
		State:  e.pedal.Snapshot(),
		Ticks:  e.pedal.Ticks(),
		Recent: append([]bypass.Event(nil), e.recent...),
	}
	st.Main, st.Mute, st.Pulses = e.pins.Read()
	if e.footswitch != nil {
		st.Footswitch = e.footswitch.ID()
	}
	if e.relay != nil {
		st.Relay = e.relay.ID()
	}
	return st
}

// inputMux ORs the hardware button with the panel's and takes the pot
// from hardware once it has reported. Called with e.mu held.
type inputMux struct{ e *Engine }

func (m inputMux) ReadButton() bool {
	if fs := m.e.footswitch; fs != nil && fs.ReadButton() {
		return true
	}
	return m.e.panel.ReadButton()
}

func (m inputMux) ReadPot() int {
	if fs := m.e.footswitch; fs != nil {
		if ps, ok := fs.(potSource); !ok || ps.PotSeen() {
			return fs.ReadPot()
		}
	}
	return m.e.panel.ReadPot()
}

// outputFan drives the virtual pins and mirrors them to the relay.
// Called with e.mu held.
type outputFan struct{ e *Engine }

func (f outputFan) SetMainOutput(on bool) {
	f.e.pins.SetMainOutput(on)
	if r := f.e.relay; r != nil {
		r.SetMainOutput(on)
	}
}

func (f outputFan) SetMutePulse(on bool) {
	f.e.pins.SetMutePulse(on)
	if r := f.e.relay; r != nil {
		r.SetMutePulse(on)
	}
}
