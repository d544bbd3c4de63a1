package bypass

type gesture int

const (
	gestureNone gesture = iota
	gestureTap
	gestureRelease
	gestureLongHold
)

// classify advances the press counters for one button sample and returns at
// most one gesture. For gestureTap the gap since the previous tap is returned.
func (p *Pedal) classify(pressed bool) (gesture, int) {
	s := &p.state
	g := gestureNone

	if pressed {
		if s.BtnPressed < MaxHoldMS {
			s.BtnPressed++
		}
	} else {
		if s.BtnOn {
			g = gestureRelease
		}
		s.BtnOn = false
		s.ModeChangeFlag = false
		s.BtnPressed = 0
	}

	if s.SinceLastPress < MaxLoopMS {
		s.SinceLastPress++
	}

	// Only one press edge per tick can match, and release zeroes BtnPressed,
	// so these never fire alongside gestureRelease.
	if s.BtnPressed == BtnDebounceMS && !s.BtnOn && !s.ModeChangeFlag {
		gap := s.SinceLastPress
		s.SinceLastPress = 0
		s.BtnOn = true
		return gestureTap, gap
	}

	if s.BtnPressed == MaxHoldMS && s.BtnOn && !s.ModeChangeFlag {
		s.ModeChangeFlag = true
		return gestureLongHold, 0
	}

	return g, 0
}
