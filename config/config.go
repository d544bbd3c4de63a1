package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
)

// ButtonSource identifies which MIDI message carries the footswitch
type ButtonSource string

const (
	ButtonNote ButtonSource = "note" // NoteOn = down, NoteOff = up
	ButtonCC   ButtonSource = "cc"   // value >= 64 = down
)

// FootswitchConfig binds the MIDI input that stands in for the button and pot
type FootswitchConfig struct {
	PortName    string       `json:"portName"` // case-insensitive substring match
	AutoConnect bool         `json:"autoConnect"`
	Channel     uint8        `json:"channel"` // 0-15
	Button      ButtonSource `json:"button"`
	ButtonNum   uint8        `json:"buttonNum"` // note or CC number
	PotCC       uint8        `json:"potCC"`
	PotFineCC   uint8        `json:"potFineCC,omitempty"` // LSB for 14-bit pots, 0 = 7-bit
}

// RelayConfig binds the MIDI output that receives the two output pins
type RelayConfig struct {
	PortName    string `json:"portName,omitempty"`
	AutoConnect bool   `json:"autoConnect"`
	Channel     uint8  `json:"channel"`
	MainCC      uint8  `json:"mainCC"`
	MuteCC      uint8  `json:"muteCC"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty"` // GIMP .gpl file, empty = built-in
}

// Config is the main configuration structure
type Config struct {
	Footswitch FootswitchConfig `json:"footswitch"`
	Relay      RelayConfig      `json:"relay"`
	UI         UIConfig         `json:"ui,omitempty"`
	Debug      bool             `json:"debug,omitempty"`
	TracePath  string           `json:"tracePath,omitempty"` // write an SMF of the session on exit
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Footswitch: FootswitchConfig{
			PortName:    "footswitch",
			AutoConnect: true,
			Channel:     0,
			Button:      ButtonCC,
			ButtonNum:   64, // sustain pedal
			PotCC:       11, // expression
		},
		Relay: RelayConfig{
			AutoConnect: true,
			Channel:     0,
			MainCC:      80,
			MuteCC:      81,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fault.Wrap(err, fmsg.With("locate home directory"))
	}
	return filepath.Join(home, ".config", "triple-bypass"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Missing files yield defaults; fields absent
// from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fault.Wrap(err, fmsg.With("read config"))
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err, fmsg.With("parse config "+path))
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to the given path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fault.Wrap(err, fmsg.With("create config directory"))
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("encode config"))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fault.Wrap(err, fmsg.With("write config"))
	}
	return nil
}
