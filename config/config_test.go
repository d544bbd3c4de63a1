package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Footswitch.Button != ButtonCC || cfg.Footswitch.ButtonNum != 64 {
		t.Errorf("unexpected default footswitch binding: %+v", cfg.Footswitch)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := DefaultConfig()
	cfg.Footswitch.PortName = "FCB1010"
	cfg.Footswitch.Button = ButtonNote
	cfg.Footswitch.ButtonNum = 36
	cfg.Relay.PortName = "relay"
	cfg.Debug = true

	if err := cfg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoadFileKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"relay":{"portName":"amp"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Relay.PortName != "amp" {
		t.Errorf("expected relay port amp, got %q", cfg.Relay.PortName)
	}
	if cfg.Relay.MainCC != 80 {
		t.Errorf("expected default main CC to survive, got %d", cfg.Relay.MainCC)
	}
	if cfg.Footswitch.PotCC != 11 {
		t.Errorf("expected default pot CC, got %d", cfg.Footswitch.PotCC)
	}
}

func TestLoadFileRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}
