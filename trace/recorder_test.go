package trace

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"triple-bypass/bypass"
)

func pulse(tick uint64, on bool) bypass.Event {
	return bypass.Event{Type: bypass.EventPulse, Tick: tick, EffectOn: on, Source: bypass.PulseOscillator}
}

type noteEvent struct {
	delta uint32
	on    bool
}

func readNotes(t *testing.T, data []byte) []noteEvent {
	t.Helper()
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if len(s.Tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(s.Tracks))
	}

	var notes []noteEvent
	var pending uint32
	for _, ev := range s.Tracks[0] {
		pending += ev.Delta
		msg := gomidi.Message(ev.Message)
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			notes = append(notes, noteEvent{pending, true})
			pending = 0
		case msg.GetNoteEnd(&ch, &key):
			notes = append(notes, noteEvent{pending, false})
			pending = 0
		}
	}
	return notes
}

func TestSMFNotesFollowEffect(t *testing.T) {
	r := NewRecorder()
	r.Record(pulse(1, true))
	r.Record(pulse(501, false))
	r.Record(pulse(1001, false)) // no change, skipped
	r.Record(pulse(1501, true))

	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	notes := readNotes(t, buf.Bytes())
	if len(notes) != 4 {
		t.Fatalf("expected on/off/on plus closing off, got %+v", notes)
	}
	if !notes[0].on || notes[1].on || !notes[2].on || notes[3].on {
		t.Errorf("unexpected note sequence %+v", notes)
	}
	// 500 ms at 120 BPM is one quarter note
	if notes[1].delta != 960 {
		t.Errorf("expected a quarter note (960) between on and off, got %d", notes[1].delta)
	}
	if notes[2].delta != 1920 {
		t.Errorf("expected two quarter notes before the next on, got %d", notes[2].delta)
	}
}

func TestLongPulseTrainKeepsPosition(t *testing.T) {
	const period = 121
	r := NewRecorder()
	var lastTick uint64
	for i := 0; i < 1000; i++ {
		lastTick = uint64(1 + i*period)
		r.Record(pulse(lastTick, i%2 == 0))
	}

	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	notes := readNotes(t, buf.Bytes())
	if len(notes) != 1000 {
		t.Fatalf("expected 1000 notes, got %d", len(notes))
	}
	var sum uint32
	for _, n := range notes {
		sum += n.delta
	}
	want := Resolution.Ticks(TempoBPM, time.Duration(lastTick)*bypass.TickPeriod)
	if sum != want {
		t.Errorf("last note at %d, expected %d (drift %d)", sum, want, int64(want)-int64(sum))
	}
}

func TestMarkers(t *testing.T) {
	r := NewRecorder()
	r.Record(bypass.Event{Type: bypass.EventTap, Tick: 10, Gap: 120})
	r.Record(bypass.Event{Type: bypass.EventModeChange, Tick: 10, Mode: bypass.ModeTap, From: bypass.ModeRegular})
	r.Record(bypass.Event{Type: bypass.EventRelease, Tick: 20})

	s, err := r.SMF()
	if err != nil {
		t.Fatal(err)
	}

	var markers []string
	for _, ev := range s.Tracks[0] {
		var text string
		if ev.Message.GetMetaMarker(&text) {
			markers = append(markers, text)
		}
	}
	want := []string{"tap 120ms", "mode tap"}
	if len(markers) != len(want) {
		t.Fatalf("expected markers %v, got %v", want, markers)
	}
	for i := range want {
		if markers[i] != want[i] {
			t.Errorf("marker %d: expected %q, got %q", i, want[i], markers[i])
		}
	}
}

func TestWriteFileFromPedal(t *testing.T) {
	r := NewRecorder()
	in := &stubInput{pot: bypass.CenterValue}
	p := bypass.New(in, nopOutput{})
	p.SetDelay(nil)
	p.SetListener(r.Record)
	p.PowerOn()

	for i := 0; i < 300; i++ {
		p.Tick()
	}
	in.button = true
	for i := 0; i < 10; i++ {
		p.Tick()
	}
	in.button = false
	p.Tick()

	if r.Len() == 0 {
		t.Fatal("nothing recorded")
	}

	path := filepath.Join(t.TempDir(), "trace.mid")
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := smf.ReadFile(path); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
}

type stubInput struct {
	button bool
	pot    int
}

func (s *stubInput) ReadButton() bool { return s.button }
func (s *stubInput) ReadPot() int     { return s.pot }

type nopOutput struct{}

func (nopOutput) SetMainOutput(bool) {}
func (nopOutput) SetMutePulse(bool)  {}
