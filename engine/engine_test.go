package engine

import (
	"testing"
	"time"

	"triple-bypass/bypass"
)

type fakeFootswitch struct {
	button  bool
	pot     int
	potSeen bool
}

func (f *fakeFootswitch) ID() string       { return "fake-fs" }
func (f *fakeFootswitch) ReadButton() bool { return f.button }
func (f *fakeFootswitch) ReadPot() int     { return f.pot }
func (f *fakeFootswitch) PotSeen() bool    { return f.potSeen }

type fakeRelay struct {
	main, mute bool
	writes     int
}

func (r *fakeRelay) ID() string            { return "fake-relay" }
func (r *fakeRelay) SetMainOutput(on bool) { r.main = on; r.writes++ }
func (r *fakeRelay) SetMutePulse(on bool)  { r.mute = on; r.writes++ }

func newTestEngine() *Engine {
	e := New()
	e.SetDelay(nil)
	return e
}

func TestPanelTapTogglesPins(t *testing.T) {
	e := newTestEngine()
	e.Step(300)

	e.Panel().Press()
	e.Step(20)
	e.Panel().Release()
	e.Step(1)

	st := e.Status()
	if !st.State.EffectOn || !st.Main {
		t.Fatalf("expected effect and main pin on, got effect=%v main=%v", st.State.EffectOn, st.Main)
	}
	if st.Mute {
		t.Error("mute pin left high")
	}
	if st.Pulses != 1 {
		t.Errorf("expected 1 pulse, got %d", st.Pulses)
	}
	if st.Ticks != 321 {
		t.Errorf("expected 321 ticks, got %d", st.Ticks)
	}
}

func TestRecentEventsAreBounded(t *testing.T) {
	e := newTestEngine()
	// double tap into tap mode, then let the oscillator run
	e.Step(300)
	e.Panel().Press()
	e.Step(10)
	e.Panel().Release()
	e.Step(50)
	e.Panel().Press()
	e.Step(10)
	e.Panel().Release()
	e.Step(2000)

	st := e.Status()
	if st.State.Mode != bypass.ModeTap {
		t.Fatalf("expected tap mode, got %s", st.State.Mode)
	}
	if len(st.Recent) != recentEvents {
		t.Errorf("expected %d recent events, got %d", recentEvents, len(st.Recent))
	}
	last := st.Recent[len(st.Recent)-1]
	if last.Type != bypass.EventPulse || last.Source != bypass.PulseOscillator {
		t.Errorf("expected the latest event to be an oscillator pulse, got %+v", last)
	}
}

func TestSubscribeSeesEvents(t *testing.T) {
	e := newTestEngine()
	var taps int
	e.Subscribe(func(ev bypass.Event) {
		if ev.Type == bypass.EventTap {
			taps++
		}
	})

	e.Step(300)
	e.Panel().Press()
	e.Step(10)
	e.Panel().Release()
	e.Step(1)

	if taps != 1 {
		t.Errorf("expected 1 tap, got %d", taps)
	}
}

func TestFootswitchMux(t *testing.T) {
	e := newTestEngine()
	fs := &fakeFootswitch{pot: 100}
	e.SetFootswitch(fs)

	// pot not reported yet: panel's centered knob is used
	e.Step(1)
	if st := e.Status(); st.State.PotOffsetActive {
		t.Fatal("unseen footswitch pot was used")
	}

	fs.potSeen = true
	e.Step(1)
	st := e.Status()
	if !st.State.PotOffsetActive || st.State.PotValue != 100 {
		t.Errorf("expected footswitch pot 100, got active=%v value=%d", st.State.PotOffsetActive, st.State.PotValue)
	}
	if st.Footswitch != "fake-fs" {
		t.Errorf("expected footswitch id, got %q", st.Footswitch)
	}

	// footswitch button counts as a press
	e.Step(300)
	fs.button = true
	e.Step(10)
	fs.button = false
	e.Step(1)
	if !e.Status().State.EffectOn {
		t.Error("footswitch press didn't toggle the effect")
	}

	e.SetFootswitch(nil)
	if e.Status().Footswitch != "" {
		t.Error("expected footswitch detached")
	}
}

func TestRelayMirrorsPins(t *testing.T) {
	e := newTestEngine()
	r := &fakeRelay{}
	e.SetRelay(r)
	if r.writes != 2 || r.main {
		t.Fatalf("expected relay synced to off on attach, got %+v", r)
	}

	e.Step(300)
	e.Panel().Press()
	e.Step(10)
	e.Panel().Release()
	e.Step(1)

	if !r.main || r.mute {
		t.Errorf("expected relay main on and mute off, got %+v", r)
	}
	if e.Status().Relay != "fake-relay" {
		t.Error("expected relay id in status")
	}
}

func TestStartStop(t *testing.T) {
	e := newTestEngine()
	e.Start()
	e.Start() // no-op

	deadline := time.Now().Add(2 * time.Second)
	for e.Status().Ticks < 20 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	e.Stop()
	e.Stop() // no-op

	ticks := e.Status().Ticks
	if ticks < 20 {
		t.Fatalf("expected the tick loop to run, got %d ticks", ticks)
	}
	time.Sleep(20 * time.Millisecond)
	if e.Status().Ticks != ticks {
		t.Error("ticks advanced after Stop")
	}
}
