package bypass

// filterPot accepts a new reading only when it leaves the hysteresis band
// around the previous baseline.
func (p *Pedal) filterPot(raw int) {
	s := &p.state
	if raw > s.LastPotValue+PotHysteresis || raw < s.LastPotValue-PotHysteresis {
		s.PotOffsetActive = true
		s.PotValue = raw
	}
	s.LastPotValue = s.PotValue
}
