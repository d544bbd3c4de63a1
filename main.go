package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"triple-bypass/config"
	"triple-bypass/debug"
	"triple-bypass/engine"
	"triple-bypass/midi"
	"triple-bypass/theme"
	"triple-bypass/trace"
	"triple-bypass/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Printf("Warning: debug log disabled: %v\n", err)
		}
		defer debug.Disable()
	}

	// Load theme
	palette, err := theme.LoadOrDefault(cfg.UI.Palette)
	if err != nil {
		fmt.Printf("Warning: %v, using built-in palette\n", err)
		palette = theme.Default()
	}
	th := theme.New(palette)

	// Pedal engine: virtual panel until hardware shows up
	eng := engine.New()

	var rec *trace.Recorder
	if cfg.TracePath != "" {
		rec = trace.NewRecorder()
		eng.Subscribe(rec.Record)
	}

	// MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	eng.Start()
	debug.Log("main", "started footswitch=%q relay=%q", cfg.Footswitch.PortName, cfg.Relay.PortName)

	m := tui.NewModel(eng, deviceMgr, th)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, runErr := p.Run()
	eng.Stop()

	if rec != nil {
		if err := rec.WriteFile(cfg.TracePath); err != nil {
			fmt.Printf("Error: %v\n", err)
		} else {
			fmt.Printf("Trace written to %s (%d events)\n", cfg.TracePath, rec.Len())
		}
	}

	if runErr != nil {
		fmt.Printf("Error: %v\n", runErr)
		os.Exit(1)
	}
}
