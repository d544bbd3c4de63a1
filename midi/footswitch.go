package midi

import (
	"sync/atomic"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"triple-bypass/bypass"
	"triple-bypass/config"
	"triple-bypass/debug"
)

// Footswitch reads the pedal button and knob from a MIDI controller.
// It implements bypass.Input; the listener goroutine writes, the tick
// loop reads.
type Footswitch struct {
	id       string
	cfg      config.FootswitchConfig
	stopFunc func()

	button  atomic.Bool
	pot     atomic.Int32
	potMSB  atomic.Int32
	potLSB  atomic.Int32
	potSeen atomic.Bool
}

// NewFootswitch opens inPort and starts listening
func NewFootswitch(id string, inPort drivers.In, cfg config.FootswitchConfig) (*Footswitch, error) {
	fs := newFootswitch(id, cfg)

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			fs.handle(msg)
		})
		if err != nil {
			return nil, fault.Wrap(err, fmsg.With("open input "+id))
		}
		fs.stopFunc = stop
	}

	return fs, nil
}

func newFootswitch(id string, cfg config.FootswitchConfig) *Footswitch {
	fs := &Footswitch{id: id, cfg: cfg}
	fs.pot.Store(bypass.CenterValue)
	return fs
}

func (fs *Footswitch) ID() string {
	return fs.id
}

func (fs *Footswitch) ReadButton() bool {
	return fs.button.Load()
}

func (fs *Footswitch) ReadPot() int {
	return int(fs.pot.Load())
}

// PotSeen reports whether any pot message arrived yet
func (fs *Footswitch) PotSeen() bool {
	return fs.potSeen.Load()
}

func (fs *Footswitch) handle(msg gomidi.Message) {
	var channel, key, velocity uint8
	var cc, value uint8

	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		if channel == fs.cfg.Channel && fs.cfg.Button == config.ButtonNote && key == fs.cfg.ButtonNum {
			fs.setButton(true)
		}

	case msg.GetNoteEnd(&channel, &key):
		if channel == fs.cfg.Channel && fs.cfg.Button == config.ButtonNote && key == fs.cfg.ButtonNum {
			fs.setButton(false)
		}

	case msg.GetControlChange(&channel, &cc, &value):
		if channel != fs.cfg.Channel {
			return
		}
		switch {
		case fs.cfg.Button == config.ButtonCC && cc == fs.cfg.ButtonNum:
			fs.setButton(value >= 64)
		case cc == fs.cfg.PotCC:
			fs.potMSB.Store(int32(value))
			if fs.cfg.PotFineCC != 0 {
				fs.potLSB.Store(0)
			}
			fs.updatePot()
		case fs.cfg.PotFineCC != 0 && cc == fs.cfg.PotFineCC:
			fs.potLSB.Store(int32(value))
			fs.updatePot()
		}
	}
}

func (fs *Footswitch) setButton(down bool) {
	if fs.button.Swap(down) != down {
		debug.Log("midi", "%s button down=%v", fs.id, down)
	}
}

func (fs *Footswitch) updatePot() {
	var v int
	if fs.cfg.PotFineCC != 0 {
		// 14-bit MSB/LSB pair down to the 10-bit ADC range
		v = int(fs.potMSB.Load()<<7|fs.potLSB.Load()) >> 4
	} else {
		v = int(fs.potMSB.Load()) * bypass.ADCMax / 127
	}
	fs.pot.Store(int32(v))
	fs.potSeen.Store(true)
	debug.LogEvery(16, "midi", "%s pot=%d", fs.id, v)
}

func (fs *Footswitch) Close() error {
	if fs.stopFunc != nil {
		fs.stopFunc()
		fs.stopFunc = nil
	}
	return nil
}
