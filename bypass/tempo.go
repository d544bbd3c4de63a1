package bypass

// runOscillator advances the tap-tempo phase by one tick and toggles the
// effect at every period boundary.
func (p *Pedal) runOscillator() {
	s := &p.state

	s.LoopOffset = 0
	if s.PotOffsetActive {
		s.LoopOffset = (s.PotValue - CenterValue) * OffsetGain
	}
	// period never drops under the debounce floor
	if s.LoopTime+s.LoopOffset < BtnDebounceMS {
		s.LoopOffset = BtnDebounceMS - s.LoopTime
	}

	if s.LoopMoment%s.Period() == 0 {
		s.EffectOn = !s.EffectOn
		p.pulse(PulseOscillator)
		s.LoopMoment = 0
	}

	if s.LoopMoment < MaxLoopMS {
		s.LoopMoment++
	}
}
