package sim

import (
	"sync"
	"sync/atomic"
	"time"

	"triple-bypass/bypass"
)

// Panel is a virtual footswitch and potentiometer. It is safe to drive
// from the UI goroutine while the tick loop samples it.
type Panel struct {
	button atomic.Bool
	pot    atomic.Int32

	mu       sync.Mutex
	released *time.Timer
}

// NewPanel creates a panel with the knob at its center detent
func NewPanel() *Panel {
	p := &Panel{}
	p.pot.Store(bypass.CenterValue)
	return p
}

func (p *Panel) ReadButton() bool { return p.button.Load() }
func (p *Panel) ReadPot() int     { return int(p.pot.Load()) }

// Press holds the button down until Release
func (p *Panel) Press() {
	p.cancelPending()
	p.button.Store(true)
}

// Release lets go of the button
func (p *Panel) Release() {
	p.cancelPending()
	p.button.Store(false)
}

// Toggle flips between pressed and released, for terminals without key-up
func (p *Panel) Toggle() bool {
	p.cancelPending()
	down := !p.button.Load()
	p.button.Store(down)
	return down
}

// Tap presses the button and releases it after d
func (p *Panel) Tap(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released != nil {
		p.released.Stop()
	}
	p.button.Store(true)
	p.released = time.AfterFunc(d, func() { p.button.Store(false) })
}

// SetPot moves the knob to an absolute position
func (p *Panel) SetPot(v int) {
	p.pot.Store(int32(clampPot(v)))
}

// NudgePot moves the knob by delta counts and returns the new position
func (p *Panel) NudgePot(delta int) int {
	for {
		old := p.pot.Load()
		v := int32(clampPot(int(old) + delta))
		if p.pot.CompareAndSwap(old, v) {
			return int(v)
		}
	}
}

func (p *Panel) cancelPending() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released != nil {
		p.released.Stop()
		p.released = nil
	}
}

func clampPot(v int) int {
	if v < 0 {
		return 0
	}
	if v > bypass.ADCMax {
		return bypass.ADCMax
	}
	return v
}
