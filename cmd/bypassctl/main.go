package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string

	mainCmd = &cobra.Command{
		Use:           "bypassctl",
		Short:         "Tools for the triple-bypass footswitch",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	mainCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/triple-bypass/config.json)")
	mainCmd.AddCommand(portsCmd, monitorCmd, scriptCmd)
}

func main() {
	if err := mainCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
