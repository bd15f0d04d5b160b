package goveeble

import (
	"context"
	"fmt"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DeviceConfig is one configured light. OnStart and OnStop are optional
// hex colors painted when the manager starts and stops.
type DeviceConfig struct {
	Address string `mapstructure:"address"`
	Model   string `mapstructure:"model"`
	OnStart string `mapstructure:"onstart"`
	OnStop  string `mapstructure:"onstop"`
}

// DeviceManager owns a session per configured light.
type DeviceManager struct {
	Devices  map[string]DeviceConfig
	sessions map[string]*Session
	actions  map[string]Action
}

func NewDeviceManager() *DeviceManager {
	return &DeviceManager{
		Devices:  make(map[string]DeviceConfig),
		sessions: make(map[string]*Session),
		actions:  make(map[string]Action),
	}
}

func (m *DeviceManager) validate() error {
	addresses := []string{}
	for name, cfg := range m.Devices {
		if cfg.Address == "" {
			return fmt.Errorf("Device %s has no address.", name)
		}
		if cfg.Model == "" {
			return fmt.Errorf("Device %s has no model.", name)
		}
		if containsString(addresses, cfg.Address) {
			return fmt.Errorf("Address %s is referenced by multiple devices.", cfg.Address)
		}
		addresses = append(addresses, cfg.Address)
	}
	return nil
}

// Init creates a session for every configured device, using dial to build
// its transport.
func (m *DeviceManager) Init(dial func(DeviceConfig) Transport) error {
	if err := m.validate(); err != nil {
		return err
	}
	for name, cfg := range m.Devices {
		m.sessions[name] = NewSession(NewDevice(name, cfg.Model), dial(cfg))
		m.actions[name] = NewNoOpAction()
	}
	return nil
}

func (m *DeviceManager) fill(name, hex string) error {
	color, err := colorful.Hex(hex)
	if err != nil {
		return err
	}
	action, err := NewSolidFillAction(m.sessions[name], nil, color)
	if err != nil {
		return err
	}
	m.actions[name] = action
	return action.Start()
}

// StartAll paints every device that has an OnStart color.
func (m *DeviceManager) StartAll() error {
	for name := range m.sessions {
		if onStart := m.Devices[name].OnStart; onStart != "" {
			if err := m.fill(name, onStart); err != nil {
				return err
			}
		}
	}
	return nil
}

// StopAll stops each device's running action, then paints the devices that
// have an OnStop color.
func (m *DeviceManager) StopAll() error {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	for name := range m.sessions {
		if action, ok := m.actions[name]; ok {
			if err := action.Stop(ctx); err != nil {
				return err
			}
		}
		if onStop := m.Devices[name].OnStop; onStop != "" {
			if err := m.fill(name, onStop); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *DeviceManager) Names() []string {
	names := make([]string, 0, len(m.Devices))
	for name := range m.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *DeviceManager) Session(name string) (*Session, error) {
	s, ok := m.sessions[name]
	if !ok {
		return nil, fmt.Errorf("error: unknown device %s", name)
	}
	return s, nil
}

// CloseAll closes every session, returning the first error.
func (m *DeviceManager) CloseAll() error {
	var first error
	for name, s := range m.sessions {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
		delete(m.sessions, name)
		delete(m.actions, name)
	}
	return first
}

func containsString(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}
