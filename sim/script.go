package sim

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/google/shlex"

	"triple-bypass/bypass"
)

// Op is a single script instruction
type Op string

const (
	OpPress   Op = "press"   // button down for N ticks
	OpRelease Op = "release" // button up for N ticks
	OpTap     Op = "tap"     // press N ticks (default 20), then release 1
	OpPot     Op = "pot"     // move the knob to V, no ticks
)

// DefaultTapTicks is how long a bare "tap" holds the button
const DefaultTapTicks = 20

var aliases = map[string]Op{
	"press":   OpPress,
	"hold":    OpPress,
	"down":    OpPress,
	"release": OpRelease,
	"idle":    OpRelease,
	"wait":    OpRelease,
	"up":      OpRelease,
	"tap":     OpTap,
	"pot":     OpPot,
	"knob":    OpPot,
}

// Step is one parsed script line
type Step struct {
	Op   Op
	Arg  int
	Line int
}

// Script is a gesture sequence played against a pedal in simulated time,
// one tick per simulated millisecond.
//
//	# double tap into tap mode, then slow the tempo with the knob
//	tap
//	idle 120
//	tap
//	idle 2000
//	pot 700
//	idle 3000
type Script struct {
	Steps []Step
}

// ParseScript reads a script. Lines are split shell-style; # starts a comment.
func ParseScript(r io.Reader) (*Script, error) {
	s := &Script{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields, err := shlex.Split(scanner.Text())
		if err != nil {
			return nil, fault.Wrap(err,
				ftag.With(ftag.InvalidArgument),
				fmsg.With(fmt.Sprintf("line %d", lineNo)))
		}
		if len(fields) == 0 {
			continue
		}

		step, err := parseStep(fields, lineNo)
		if err != nil {
			return nil, err
		}
		s.Steps = append(s.Steps, step)
	}

	if err := scanner.Err(); err != nil {
		return nil, fault.Wrap(err, fmsg.With("read script"))
	}
	return s, nil
}

func parseStep(fields []string, lineNo int) (Step, error) {
	op, ok := aliases[strings.ToLower(fields[0])]
	if !ok {
		return Step{}, syntaxError(lineNo, "unknown instruction %q", fields[0])
	}
	step := Step{Op: op, Line: lineNo}

	switch len(fields) {
	case 1:
		if op != OpTap {
			return Step{}, syntaxError(lineNo, "%s needs an argument", op)
		}
		step.Arg = DefaultTapTicks
		return step, nil
	case 2:
	default:
		return Step{}, syntaxError(lineNo, "too many arguments for %s", op)
	}

	n, err := strconv.Atoi(strings.TrimSuffix(fields[1], "ms"))
	if err != nil {
		return Step{}, syntaxError(lineNo, "bad number %q", fields[1])
	}
	if op == OpPot {
		if n < 0 || n > bypass.ADCMax {
			return Step{}, syntaxError(lineNo, "pot value %d outside 0..%d", n, bypass.ADCMax)
		}
	} else if n < 0 {
		return Step{}, syntaxError(lineNo, "negative duration %d", n)
	}
	step.Arg = n
	return step, nil
}

func syntaxError(lineNo int, format string, args ...any) error {
	return fault.Wrap(
		fault.New(fmt.Sprintf(format, args...)),
		ftag.With(ftag.InvalidArgument),
		fmsg.With(fmt.Sprintf("line %d", lineNo)),
	)
}

// Ticks returns the total simulated duration in ticks
func (s *Script) Ticks() int {
	total := 0
	for _, st := range s.Steps {
		switch st.Op {
		case OpPress, OpRelease:
			total += st.Arg
		case OpTap:
			total += st.Arg + 1
		}
	}
	return total
}

// Run plays the script on p, which must sample panel. The pedal's pulse
// delay should be a no-op so simulated time doesn't sleep.
func (s *Script) Run(p *bypass.Pedal, panel *Panel) {
	for _, st := range s.Steps {
		switch st.Op {
		case OpPress:
			panel.Press()
			tickN(p, st.Arg)
		case OpRelease:
			panel.Release()
			tickN(p, st.Arg)
		case OpTap:
			panel.Press()
			tickN(p, st.Arg)
			panel.Release()
			tickN(p, 1)
		case OpPot:
			panel.SetPot(st.Arg)
		}
	}
}

func tickN(p *bypass.Pedal, n int) {
	for i := 0; i < n; i++ {
		p.Tick()
	}
}
