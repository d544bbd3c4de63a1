package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"triple-bypass/midi"
)

var portsTimeout time.Duration

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI input and output ports",
	RunE:  runPorts,
}

func init() {
	portsCmd.Flags().DurationVar(&portsTimeout, "timeout", 3*time.Second, "give up waiting for the MIDI driver after this long")
}

func runPorts(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "(waiting up to %s...)\n", portsTimeout)

	ins, outs, err := midi.ListPorts(portsTimeout)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "=== MIDI Input Ports ===")
	for i, name := range ins {
		fmt.Fprintf(out, "  %d: %s\n", i, name)
	}
	fmt.Fprintln(out, "\n=== MIDI Output Ports ===")
	for i, name := range outs {
		fmt.Fprintf(out, "  %d: %s\n", i, name)
	}
	return nil
}
