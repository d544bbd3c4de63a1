package trace

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"triple-bypass/bypass"
	"triple-bypass/debug"
)

// Export settings: at 120 BPM a quarter note is 500 ticks of pedal time
const (
	Resolution = smf.MetricTicks(960)
	TempoBPM   = 120.0
	EffectNote = 60
	Velocity   = 100
)

// Recorder keeps every pedal event for export
type Recorder struct {
	mu     sync.Mutex
	events []bypass.Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record is a bypass listener
func (r *Recorder) Record(ev bypass.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []bypass.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bypass.Event(nil), r.events...)
}

// Len returns how many events were recorded
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// SMF renders the recording as a single-track MIDI file. The effect state
// is a held note; gestures and mode changes are markers.
func (r *Recorder) SMF() (*smf.SMF, error) {
	events := r.Events()

	s := smf.NewSMF1()
	s.TimeFormat = Resolution

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("bypass"))
	tr.Add(0, smf.MetaTempo(TempoBPM))

	// deltas are taken between absolute positions
	var last uint32
	noteOn := false
	for _, ev := range events {
		msg, ok := message(ev, &noteOn)
		if !ok {
			continue
		}
		abs := position(ev.Tick)
		if abs < last {
			abs = last
		}
		tr.Add(abs-last, msg)
		last = abs
	}
	if noteOn {
		tr.Add(0, gomidi.NoteOff(0, EffectNote))
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return nil, fault.Wrap(err, fmsg.With("add trace track"))
	}
	return s, nil
}

// WriteTo writes the SMF to w
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	s, err := r.SMF()
	if err != nil {
		return 0, err
	}
	n, err := s.WriteTo(w)
	if err != nil {
		return n, fault.Wrap(err, fmsg.With("write trace"))
	}
	return n, nil
}

// WriteFile writes the SMF to path
func (r *Recorder) WriteFile(path string) error {
	s, err := r.SMF()
	if err != nil {
		return err
	}
	if err := s.WriteFile(path); err != nil {
		return fault.Wrap(err, fmsg.With("write trace "+path))
	}
	debug.Log("trace", "wrote %d events to %s", r.Len(), path)
	return nil
}

func message(ev bypass.Event, noteOn *bool) ([]byte, bool) {
	switch ev.Type {
	case bypass.EventPulse:
		if ev.EffectOn == *noteOn {
			return nil, false
		}
		*noteOn = ev.EffectOn
		if ev.EffectOn {
			return gomidi.NoteOn(0, EffectNote, Velocity), true
		}
		return gomidi.NoteOff(0, EffectNote), true
	case bypass.EventTap:
		return smf.MetaMarker(fmt.Sprintf("tap %dms", ev.Gap)), true
	case bypass.EventLongHold:
		return smf.MetaMarker("long hold"), true
	case bypass.EventModeChange:
		return smf.MetaMarker("mode " + ev.Mode.String()), true
	}
	return nil, false
}

// position converts a pedal tick to an absolute MIDI tick
func position(tick uint64) uint32 {
	return Resolution.Ticks(TempoBPM, time.Duration(tick)*bypass.TickPeriod)
}
