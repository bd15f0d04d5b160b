// Package client talks to Govee lights over Bluetooth LE using the host's
// HCI adapter.
package client

import (
	"context"
	"strings"
	"sync"

	"github.com/paypal/gatt"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// NotifyUUID is the characteristic the device reports status on.
	NotifyUUID = "00010203-0405-0607-0809-0a0b0c0d2b10"
	// WriteUUID is the characteristic command frames are written to.
	WriteUUID = "00010203-0405-0607-0809-0a0b0c0d2b11"
)

var (
	ErrNotConnected          = errors.New("error: not connected to device")
	ErrMissingCharacteristic = errors.New("error: device does not expose the govee characteristics")

	notifyUUID = gatt.MustParseUUID(NotifyUUID)
	writeUUID  = gatt.MustParseUUID(WriteUUID)
)

// Client is a single BLE connection to a light, addressed by MAC address.
type Client struct {
	address string
	options []gatt.Option

	mu         sync.Mutex
	device     gatt.Device
	peripheral gatt.Peripheral
	write      *gatt.Characteristic
	connected  bool
	notify     func([]byte)
	result     chan error
}

// New creates a client for the device at address. No radio activity
// happens until Connect.
func New(address string, options ...gatt.Option) *Client {
	return &Client{
		address: address,
		options: options,
	}
}

func (c *Client) Address() string {
	return c.address
}

// Connect scans for the device, connects and subscribes to notifications.
// It blocks until the link is usable, fails, or ctx is done.
func (c *Client) Connect(ctx context.Context, notify func([]byte)) error {
	c.mu.Lock()
	result := make(chan error, 1)
	c.result = result
	c.notify = notify

	device := c.device
	if device == nil {
		d, err := gatt.NewDevice(c.options...)
		if err != nil {
			c.mu.Unlock()
			return errors.Wrap(err, "cannot open bluetooth adapter")
		}
		d.Handle(
			gatt.PeripheralDiscovered(c.discovered),
			gatt.PeripheralConnected(c.peripheralConnected),
			gatt.PeripheralDisconnected(c.peripheralDisconnected),
		)
		c.device = d
		c.mu.Unlock()

		if err := d.Init(c.stateChanged); err != nil {
			return errors.Wrap(err, "cannot initialise bluetooth adapter")
		}
	} else {
		c.mu.Unlock()
		device.Scan([]gatt.UUID{}, false)
	}

	log.WithField("address", c.address).Debug("Scanning for device")

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		c.mu.Lock()
		if c.device != nil {
			c.device.StopScanning()
		}
		c.mu.Unlock()
		return ctx.Err()
	}
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Write sends one frame without waiting for a response.
func (c *Client) Write(frame []byte) error {
	c.mu.Lock()
	p, ch, connected := c.peripheral, c.write, c.connected
	c.mu.Unlock()

	if !connected {
		return ErrNotConnected
	}
	if err := p.WriteCharacteristic(ch, frame, true); err != nil {
		return errors.Wrap(err, "cannot write characteristic")
	}
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	device, p := c.device, c.peripheral
	c.connected = false
	c.peripheral = nil
	c.write = nil
	c.mu.Unlock()

	if device == nil {
		return nil
	}
	device.StopScanning()
	if p != nil {
		device.CancelConnection(p)
	}
	return nil
}

func (c *Client) finish(err error) {
	c.mu.Lock()
	result := c.result
	c.mu.Unlock()
	if result == nil {
		return
	}
	select {
	case result <- err:
	default:
	}
}

func (c *Client) stateChanged(d gatt.Device, s gatt.State) {
	log.WithField("state", s.String()).Debug("Bluetooth adapter state changed")
	switch s {
	case gatt.StatePoweredOn:
		d.Scan([]gatt.UUID{}, false)
	default:
		d.StopScanning()
	}
}

func (c *Client) discovered(p gatt.Peripheral, a *gatt.Advertisement, rssi int) {
	if !strings.EqualFold(p.ID(), c.address) {
		return
	}
	log.WithFields(log.Fields{
		"address": p.ID(),
		"name":    a.LocalName,
		"rssi":    rssi,
	}).Info("Found device")
	p.Device().StopScanning()
	p.Device().Connect(p)
}

func (c *Client) peripheralConnected(p gatt.Peripheral, err error) {
	if err != nil {
		c.finish(errors.Wrap(err, "cannot connect"))
		return
	}

	write, notify, err := findCharacteristics(p)
	if err != nil {
		p.Device().CancelConnection(p)
		c.finish(err)
		return
	}

	if _, err := p.DiscoverDescriptors(nil, notify); err != nil {
		p.Device().CancelConnection(p)
		c.finish(errors.Wrap(err, "cannot discover notify descriptors"))
		return
	}
	if err := p.SetNotifyValue(notify, c.notified); err != nil {
		p.Device().CancelConnection(p)
		c.finish(errors.Wrap(err, "cannot subscribe to notifications"))
		return
	}

	c.mu.Lock()
	c.peripheral = p
	c.write = write
	c.connected = true
	c.mu.Unlock()

	c.finish(nil)
}

func (c *Client) peripheralDisconnected(p gatt.Peripheral, err error) {
	fields := log.Fields{"address": p.ID()}
	if err != nil {
		log.WithError(err).WithFields(fields).Warn("Device disconnected")
	} else {
		log.WithFields(fields).Info("Device disconnected")
	}

	c.mu.Lock()
	c.connected = false
	c.peripheral = nil
	c.write = nil
	c.mu.Unlock()
}

func (c *Client) notified(_ *gatt.Characteristic, b []byte, err error) {
	if err != nil {
		log.WithError(err).Warn("Notification error")
		return
	}
	c.mu.Lock()
	notify := c.notify
	c.mu.Unlock()
	if notify != nil {
		notify(b)
	}
}

func findCharacteristics(p gatt.Peripheral) (write, notify *gatt.Characteristic, err error) {
	services, err := p.DiscoverServices(nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot discover services")
	}
	for _, s := range services {
		chars, err := p.DiscoverCharacteristics(nil, s)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "cannot discover characteristics of %s", s.UUID())
		}
		for _, ch := range chars {
			switch {
			case ch.UUID().Equal(writeUUID):
				write = ch
			case ch.UUID().Equal(notifyUUID):
				notify = ch
			}
		}
	}
	if write == nil || notify == nil {
		return nil, nil, ErrMissingCharacteristic
	}
	return write, notify, nil
}
