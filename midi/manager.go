package midi

import (
	"context"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"triple-bypass/config"
	"triple-bypass/debug"
)

// DeviceKind says which side of the pedal a device stands in for
type DeviceKind int

const (
	KindFootswitch DeviceKind = iota
	KindRelay
)

func (k DeviceKind) String() string {
	if k == KindRelay {
		return "relay"
	}
	return "footswitch"
}

// Device is a connected footswitch or relay
type Device interface {
	ID() string
	Close() error
}

// DeviceEvent is emitted when devices connect/disconnect
type DeviceEvent struct {
	Type   DeviceEventType
	Kind   DeviceKind
	Device Device // nil on disconnect
	ID     string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of the configured footswitch
// and relay ports
type DeviceManager struct {
	cfg      *config.Config
	devices  map[string]Device
	kinds    map[string]DeviceKind
	mu       sync.RWMutex
	events   chan DeviceEvent
	pollRate time.Duration
}

// NewDeviceManager creates a new device manager
func NewDeviceManager(cfg *config.Config) *DeviceManager {
	return &DeviceManager{
		cfg:      cfg,
		devices:  make(map[string]Device),
		kinds:    make(map[string]DeviceKind),
		events:   make(chan DeviceEvent, 16),
		pollRate: time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Devices returns a snapshot of connected devices
func (dm *DeviceManager) Devices() map[string]Device {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	copy := make(map[string]Device, len(dm.devices))
	for k, v := range dm.devices {
		copy[k] = v
	}
	return copy
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	inPorts, outPorts, err := getPorts(portTimeout)
	if err != nil {
		// driver is hung - skip this scan
		debug.Log("midi", "scan: %v", err)
		return
	}

	seenIDs := make(map[string]bool)

	fsCfg := dm.cfg.Footswitch
	if fsCfg.AutoConnect && fsCfg.PortName != "" {
		for _, in := range inPorts {
			if !matchPort(in.String(), fsCfg.PortName) {
				continue
			}
			id := deviceID(KindFootswitch, in.String())
			seenIDs[id] = true
			if dm.has(id) {
				break
			}
			fs, err := NewFootswitch(id, in, fsCfg)
			if err != nil {
				debug.Log("midi", "connect %s: %v", id, err)
				break
			}
			dm.add(id, KindFootswitch, fs)
			break
		}
	}

	relayCfg := dm.cfg.Relay
	if relayCfg.AutoConnect && relayCfg.PortName != "" {
		for _, out := range outPorts {
			if !matchPort(out.String(), relayCfg.PortName) {
				continue
			}
			id := deviceID(KindRelay, out.String())
			seenIDs[id] = true
			if dm.has(id) {
				break
			}
			r, err := NewRelay(id, out, relayCfg)
			if err != nil {
				debug.Log("midi", "connect %s: %v", id, err)
				break
			}
			dm.add(id, KindRelay, r)
			break
		}
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for id := range dm.devices {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		d := dm.devices[id]
		kind := dm.kinds[id]
		d.Close()
		delete(dm.devices, id)
		delete(dm.kinds, id)
		debug.Log("midi", "disconnected %s", id)
		dm.events <- DeviceEvent{
			Type: DeviceDisconnected,
			Kind: kind,
			ID:   id,
		}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) has(id string) bool {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	_, ok := dm.devices[id]
	return ok
}

func (dm *DeviceManager) add(id string, kind DeviceKind, d Device) {
	dm.mu.Lock()
	dm.devices[id] = d
	dm.kinds[id] = kind
	dm.mu.Unlock()

	debug.Log("midi", "connected %s", id)
	dm.events <- DeviceEvent{
		Type:   DeviceConnected,
		Kind:   kind,
		Device: d,
		ID:     id,
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, d := range dm.devices {
		d.Close()
	}
	dm.devices = make(map[string]Device)
	dm.kinds = make(map[string]DeviceKind)
}

func deviceID(kind DeviceKind, port string) string {
	return kind.String() + ":" + port
}

// portTimeout bounds port enumeration (CoreMIDI can hang)
const portTimeout = 3 * time.Second

func getPorts(timeout time.Duration) ([]drivers.In, []drivers.Out, error) {
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		inPorts := gomidi.GetInPorts()
		outPorts := gomidi.GetOutPorts()
		ch <- portsResult{inPorts: inPorts, outPorts: outPorts}
	}()

	select {
	case result := <-ch:
		return result.inPorts, result.outPorts, nil
	case <-time.After(timeout):
		return nil, nil, errPortsTimeout
	}
}
