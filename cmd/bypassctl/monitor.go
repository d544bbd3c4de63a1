package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/spf13/cobra"

	"triple-bypass/bypass"
	"triple-bypass/config"
	"triple-bypass/engine"
	"triple-bypass/midi"
)

var (
	monitorPort  string
	monitorRelay string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the pedal against a MIDI footswitch and print what it does",
	RunE:  runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorPort, "port", "", "input port name to match (overrides config)")
	monitorCmd.Flags().StringVar(&monitorRelay, "relay", "", "output port name to mirror the pins to (overrides config)")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if monitorPort != "" {
		cfg.Footswitch.PortName = monitorPort
	}
	if monitorRelay != "" {
		cfg.Relay.PortName = monitorRelay
	}

	in, err := midi.FindIn(cfg.Footswitch.PortName, 3*time.Second)
	if err != nil {
		return err
	}
	fs, err := midi.NewFootswitch(in.String(), in, cfg.Footswitch)
	if err != nil {
		return fault.Wrap(err, fmsg.With("open footswitch"))
	}
	defer fs.Close()

	eng := engine.New()
	eng.SetFootswitch(fs)

	if cfg.Relay.PortName != "" {
		out, err := midi.FindOut(cfg.Relay.PortName, 3*time.Second)
		if err != nil {
			return err
		}
		relay, err := midi.NewRelay(out.String(), out, cfg.Relay)
		if err != nil {
			return fault.Wrap(err, fmsg.With("open relay"))
		}
		defer relay.Close()
		eng.SetRelay(relay)
	}

	// events arrive on the tick goroutine; hand them off without blocking it
	events := make(chan bypass.Event, 64)
	eng.Subscribe(func(ev bypass.Event) {
		select {
		case events <- ev:
		default:
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Listening on %s. Ctrl+C to exit.\n", in.String())
	eng.Start()
	defer eng.Stop()

	lastPot := -1
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			fmt.Fprintln(out, ev.String())
		case <-poll.C:
			st := eng.Status().State
			if st.PotOffsetActive && st.PotValue != lastPot {
				lastPot = st.PotValue
				fmt.Fprintf(out, "          knob %4d  period %dms\n", st.PotValue, st.Period())
			}
		}
	}
}
