package midi

import (
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var errPortsTimeout = fault.New("MIDI port enumeration timed out")

// ListPorts returns the names of all input and output ports
func ListPorts(timeout time.Duration) (ins, outs []string, err error) {
	inPorts, outPorts, err := getPorts(timeout)
	if err != nil {
		return nil, nil, fault.Wrap(err, fmsg.WithDesc("list ports",
			"The MIDI driver didn't answer. On macOS try: sudo killall coreaudiod midiserver"))
	}
	for _, p := range inPorts {
		ins = append(ins, p.String())
	}
	for _, p := range outPorts {
		outs = append(outs, p.String())
	}
	return ins, outs, nil
}

// FindIn returns the first input port whose name contains name
func FindIn(name string, timeout time.Duration) (drivers.In, error) {
	inPorts, _, err := getPorts(timeout)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("find input"))
	}
	for _, p := range inPorts {
		if matchPort(p.String(), name) {
			return p, nil
		}
	}
	return nil, fault.Wrap(fault.New("no input port matching "+name), ftag.With(ftag.NotFound))
}

// FindOut returns the first output port whose name contains name
func FindOut(name string, timeout time.Duration) (drivers.Out, error) {
	_, outPorts, err := getPorts(timeout)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("find output"))
	}
	for _, p := range outPorts {
		if matchPort(p.String(), name) {
			return p, nil
		}
	}
	return nil, fault.Wrap(fault.New("no output port matching "+name), ftag.With(ftag.NotFound))
}

func matchPort(port, want string) bool {
	if want == "" {
		return false
	}
	return strings.Contains(strings.ToLower(port), strings.ToLower(want))
}
