package bypass

import (
	"triple-bypass/debug"
)

// onTap applies a debounced tap. gap is the number of ticks since the
// previous tap; anything under TapMS is a double tap.
func (p *Pedal) onTap(gap int) {
	s := &p.state
	p.emit(Event{Type: EventTap, Gap: gap})

	switch s.Mode {
	case ModeHold:
		// hold is only left through release or another long hold
		return

	case ModeRegular:
		if gap >= TapMS {
			s.EffectOn = !s.EffectOn
		} else {
			s.ModeChangeFlag = true
			s.LastEffectState = s.EffectOn
			p.setMode(ModeTap)
			s.LoopTime = gap
			s.LoopMoment = 0
		}

	case ModeTap:
		if gap >= TapMS {
			s.PotOffsetActive = false
		}
		s.LoopTime = gap
		s.LoopMoment = 0
		debug.Log("pedal", "tempo set loopTime=%d", gap)
	}

	p.pulse(PulseGesture)
}

// onRelease ends a press. Only hold mode reacts to it.
func (p *Pedal) onRelease() {
	s := &p.state
	p.emit(Event{Type: EventRelease})

	if s.Mode != ModeHold {
		return
	}
	s.EffectOn = !s.EffectOn
	p.pulse(PulseGesture)
	p.setMode(ModeRegular)
}

// onLongHold enters hold from regular, or leaves hold/tap restoring the
// effect state captured on entry. The output is not pulsed either way.
func (p *Pedal) onLongHold() {
	s := &p.state
	p.emit(Event{Type: EventLongHold})

	switch s.Mode {
	case ModeRegular:
		s.LastEffectState = s.EffectOn
		p.setMode(ModeHold)
	case ModeHold, ModeTap:
		s.EffectOn = s.LastEffectState
		p.setMode(ModeRegular)
	}
}

func (p *Pedal) setMode(m Mode) {
	from := p.state.Mode
	if from == m {
		return
	}
	p.state.Mode = m
	debug.Log("pedal", "mode %s -> %s effect=%s", from, m, onOff(p.state.EffectOn))
	p.emit(Event{Type: EventModeChange, From: from})
}
