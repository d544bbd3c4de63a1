package sim

import "sync"

// Pins is a virtual output stage: the main switch and the mute pulse line
type Pins struct {
	mu     sync.Mutex
	main   bool
	mute   bool
	pulses int
}

func (p *Pins) SetMainOutput(on bool) {
	p.mu.Lock()
	p.main = on
	p.mu.Unlock()
}

func (p *Pins) SetMutePulse(on bool) {
	p.mu.Lock()
	if on && !p.mute {
		p.pulses++
	}
	p.mute = on
	p.mu.Unlock()
}

// Read returns the pin levels and the number of mute pulses started
func (p *Pins) Read() (main, mute bool, pulses int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.main, p.mute, p.pulses
}
