package bypass

import "time"

// pulse applies EffectOn to the main output inside a mute window so the
// switch doesn't pop. It blocks for SilencePulseBefore+SilencePulseAfter.
func (p *Pedal) pulse(src PulseSource) {
	p.out.SetMutePulse(true)
	p.delay(SilencePulseBefore * time.Millisecond)
	p.out.SetMainOutput(p.state.EffectOn)
	p.delay(SilencePulseAfter * time.Millisecond)
	p.out.SetMutePulse(false)

	p.emit(Event{Type: EventPulse, Source: src})
}
