package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/spf13/cobra"

	"triple-bypass/bypass"
	"triple-bypass/sim"
	"triple-bypass/trace"
)

var (
	scriptSMF   string
	scriptQuiet bool
)

var scriptCmd = &cobra.Command{
	Use:   "script FILE",
	Short: "Play a gesture script against the pedal in simulated time",
	Long: `Play a gesture script against the pedal, one tick per simulated millisecond.

Instructions, one per line (# starts a comment):
  press N | hold N     button down for N ms
  release N | idle N   button up for N ms
  tap [N]              press N ms (default 20), then release
  pot V                move the knob to V (0-1023)

Use - to read the script from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	scriptCmd.Flags().StringVar(&scriptSMF, "smf", "", "write the run as a Standard MIDI File")
	scriptCmd.Flags().BoolVarP(&scriptQuiet, "quiet", "q", false, "only print the final state")
}

func runScript(cmd *cobra.Command, args []string) error {
	var r io.Reader
	if args[0] == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return fault.Wrap(err, fmsg.With("open script"))
		}
		defer f.Close()
		r = f
	}

	script, err := sim.ParseScript(r)
	if err != nil {
		return fault.Wrap(err, fmsg.With(args[0]))
	}

	return playScript(cmd.OutOrStdout(), script, scriptSMF, scriptQuiet)
}

func playScript(out io.Writer, script *sim.Script, smfPath string, quiet bool) error {
	panel := sim.NewPanel()
	pins := &sim.Pins{}
	pedal := bypass.New(panel, pins)
	pedal.SetDelay(nil)

	rec := trace.NewRecorder()
	pedal.SetListener(func(ev bypass.Event) {
		rec.Record(ev)
		if !quiet {
			fmt.Fprintln(out, ev.String())
		}
	})
	pedal.PowerOn()

	script.Run(pedal, panel)

	st := pedal.Snapshot()
	mainOn, _, pulses := pins.Read()
	fmt.Fprintf(out, "\nafter %dms: mode=%s effect=%v output=%v pulses=%d", pedal.Ticks(), st.Mode, st.EffectOn, mainOn, pulses)
	if st.Mode == bypass.ModeTap {
		fmt.Fprintf(out, " period=%dms (%.1f bpm)", st.Period(), st.BPM())
	}
	fmt.Fprintln(out)

	if smfPath != "" {
		if err := rec.WriteFile(smfPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", smfPath)
	}
	return nil
}
