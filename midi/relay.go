package midi

import (
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"triple-bypass/config"
	"triple-bypass/debug"
)

// Relay mirrors the pedal's output pins as control changes, for a MIDI
// switcher or an amp's effect-loop footswitch input.
type Relay struct {
	id   string
	cfg  config.RelayConfig
	send func(msg gomidi.Message) error
}

// NewRelay opens outPort for sending
func NewRelay(id string, outPort drivers.Out, cfg config.RelayConfig) (*Relay, error) {
	r := &Relay{id: id, cfg: cfg}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fault.Wrap(err, fmsg.With("open output "+id))
		}
		r.send = send
	}

	return r, nil
}

func (r *Relay) ID() string {
	return r.id
}

func (r *Relay) SetMainOutput(on bool) {
	r.sendCC(r.cfg.MainCC, on)
}

func (r *Relay) SetMutePulse(on bool) {
	r.sendCC(r.cfg.MuteCC, on)
}

func (r *Relay) sendCC(cc uint8, on bool) {
	if r.send == nil {
		return
	}
	var value uint8
	if on {
		value = 127
	}
	if err := r.send(gomidi.ControlChange(r.cfg.Channel, cc, value)); err != nil {
		debug.Log("midi", "%s send cc=%d: %v", r.id, cc, err)
	}
}

// Close turns both outputs off
func (r *Relay) Close() error {
	r.SetMutePulse(false)
	r.SetMainOutput(false)
	return nil
}
