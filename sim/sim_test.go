package sim

import (
	"strings"
	"testing"
	"time"

	"github.com/Southclaws/fault/ftag"

	"triple-bypass/bypass"
)

func TestPanelPot(t *testing.T) {
	p := NewPanel()
	if p.ReadPot() != bypass.CenterValue {
		t.Fatalf("expected knob centered, got %d", p.ReadPot())
	}
	if v := p.NudgePot(-10000); v != 0 {
		t.Errorf("expected clamp at 0, got %d", v)
	}
	if v := p.NudgePot(5000); v != bypass.ADCMax {
		t.Errorf("expected clamp at %d, got %d", bypass.ADCMax, v)
	}
	p.SetPot(300)
	if p.ReadPot() != 300 {
		t.Errorf("expected 300, got %d", p.ReadPot())
	}
}

func TestPanelButton(t *testing.T) {
	p := NewPanel()
	if !p.Toggle() || !p.ReadButton() {
		t.Fatal("expected toggle to press")
	}
	if p.Toggle() || p.ReadButton() {
		t.Fatal("expected toggle to release")
	}

	p.Tap(time.Millisecond)
	if !p.ReadButton() {
		t.Fatal("expected tap to press immediately")
	}
	deadline := time.Now().Add(time.Second)
	for p.ReadButton() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if p.ReadButton() {
		t.Error("tap never released")
	}

	// Release cancels a pending tap
	p.Tap(time.Hour)
	p.Release()
	if p.ReadButton() {
		t.Error("expected release to override tap")
	}
}

func TestPinsCountsPulses(t *testing.T) {
	var pins Pins
	pins.SetMutePulse(true)
	pins.SetMainOutput(true)
	pins.SetMutePulse(false)
	pins.SetMutePulse(true)
	pins.SetMutePulse(true)

	main, mute, pulses := pins.Read()
	if !main || !mute || pulses != 2 {
		t.Errorf("unexpected pins main=%v mute=%v pulses=%d", main, mute, pulses)
	}
}

func TestParseScript(t *testing.T) {
	src := `
# enter tap mode
tap
idle 120ms
tap 10   # second tap
hold 1000
pot 700
`
	s, err := ParseScript(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}

	want := []Step{
		{OpTap, DefaultTapTicks, 3},
		{OpRelease, 120, 4},
		{OpTap, 10, 5},
		{OpPress, 1000, 6},
		{OpPot, 700, 7},
	}
	if len(s.Steps) != len(want) {
		t.Fatalf("expected %d steps, got %+v", len(want), s.Steps)
	}
	for i := range want {
		if s.Steps[i] != want[i] {
			t.Errorf("step %d: expected %+v, got %+v", i, want[i], s.Steps[i])
		}
	}
	if got := s.Ticks(); got != 21+120+11+1000 {
		t.Errorf("unexpected total ticks %d", got)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []string{
		"jump 10",
		"press",
		"press ten",
		"press -1",
		"pot 2000",
		"idle 1 2",
	}
	for _, src := range tests {
		_, err := ParseScript(strings.NewReader(src))
		if err == nil {
			t.Errorf("%q: expected error", src)
			continue
		}
		if ftag.Get(err) != ftag.InvalidArgument {
			t.Errorf("%q: expected InvalidArgument, got %v", src, ftag.Get(err))
		}
	}
}

func TestScriptRun(t *testing.T) {
	src := "idle 300\ntap\nidle 100\ntap\nidle 5\n"
	s, err := ParseScript(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	panel := NewPanel()
	pins := &Pins{}
	p := bypass.New(panel, pins)
	p.SetDelay(nil)
	p.PowerOn()

	s.Run(p, panel)

	st := p.Snapshot()
	if st.Mode != bypass.ModeTap {
		t.Fatalf("expected tap mode, got %s", st.Mode)
	}
	// 15 held after the first tap, release tick, 100 idle, 5 to debounce
	if st.LoopTime != 15+1+100+bypass.BtnDebounceMS {
		t.Errorf("unexpected loopTime %d", st.LoopTime)
	}
	if p.Ticks() != uint64(s.Ticks()) {
		t.Errorf("expected %d ticks, got %d", s.Ticks(), p.Ticks())
	}
}
