package goveeble

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ngerakines/goveeble/packet"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	tomb "gopkg.in/tomb.v2"
)

const notificationBacklog = 64

var ErrSessionClosed = errors.New("session is closed")

// Session drives one device over one transport. Writes are serialised so
// that multi frame sequences are never interleaved, and notifications are
// applied to the device on a separate goroutine.
type Session struct {
	ID      string
	Catalog EffectCatalog

	device    *Device
	transport Transport

	mu     sync.Mutex
	closed bool

	frames  chan []byte
	pending chan []packet.Packet
	t       tomb.Tomb
}

func NewSession(device *Device, transport Transport) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		device:    device,
		transport: transport,
		frames:    make(chan []byte, notificationBacklog),
		pending:   make(chan []packet.Packet, 1),
	}
	s.t.Go(s.pump)
	return s
}

func (s *Session) Device() *Device {
	return s.device
}

func (s *Session) logger() *log.Entry {
	return log.WithFields(log.Fields{
		"session": s.ID,
		"device":  s.device.Name,
	})
}

// Send writes packets in order, connecting first if needed. Concurrent
// callers wait for each other; only one connection attempt runs at a time.
func (s *Session) Send(ctx context.Context, packets []packet.Packet) error {
	if len(packets) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	fresh, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	if fresh {
		s.queue(s.device.Query())
	}

	for i, p := range packets {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.logger().WithFields(log.Fields{
			"index": i,
			"frame": p.String(),
		}).Debug("Writing frame")
		if err := s.transport.Write(p.Bytes()); err != nil {
			return errors.Wrapf(err, "cannot write frame %d of %d", i+1, len(packets))
		}
	}
	return nil
}

// acquire reuses the current connection or opens a new one. It reports
// whether a new connection was made. Callers hold s.mu.
func (s *Session) acquire(ctx context.Context) (bool, error) {
	if s.transport.Connected() {
		return false, nil
	}
	s.logger().Info("Connecting")
	if err := s.transport.Connect(ctx, s.intake); err != nil {
		return false, errors.Wrap(err, "cannot connect to device")
	}
	s.logger().Info("Connected")
	return true, nil
}

// queue hands packets to the pump. A query already waiting makes this a
// no-op.
func (s *Session) queue(packets []packet.Packet) {
	select {
	case s.pending <- packets:
	default:
	}
}

// intake is the transport's notification callback.
func (s *Session) intake(frame []byte) {
	cp := append([]byte(nil), frame...)
	select {
	case s.frames <- cp:
	default:
		s.logger().WithField("backlog", notificationBacklog).Warn("Dropping notification")
	}
}

// Close stops the notification pump and closes the transport. Later sends
// fail with ErrSessionClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.t.Kill(nil)
	err := s.t.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if cerr := s.transport.Close(); cerr != nil && err == nil {
		err = cerr
	}
	s.logger().Info("Session closed")
	return err
}

func (s *Session) SetPower(ctx context.Context, on bool, segments ...*Segment) error {
	packets, err := s.device.SetPower(on, segments...)
	if err != nil {
		return err
	}
	return s.Send(ctx, packets)
}

func (s *Session) SetBrightness(ctx context.Context, brightness int, segments ...*Segment) error {
	packets, err := s.device.SetBrightness(brightness, segments...)
	if err != nil {
		return err
	}
	return s.Send(ctx, packets)
}

func (s *Session) SetColor(ctx context.Context, color RGB, segments ...*Segment) error {
	packets, err := s.device.SetColor(color, segments...)
	if err != nil {
		return err
	}
	return s.Send(ctx, packets)
}

func (s *Session) SetTemp(ctx context.Context, kelvin int, segments ...*Segment) error {
	packets, err := s.device.SetTemp(kelvin, segments...)
	if err != nil {
		return err
	}
	return s.Send(ctx, packets)
}

func (s *Session) SelectScene(ctx context.Context, code int, param []byte) error {
	packets, err := s.device.SelectScene(code, param)
	if err != nil {
		return err
	}
	return s.Send(ctx, packets)
}

func (s *Session) effectPackets(name string) ([]packet.Packet, error) {
	if s.Catalog == nil {
		return nil, fmt.Errorf("error: no effect catalog for %s", s.device.Name)
	}
	code, param, err := s.Catalog.Lookup(name)
	if err != nil {
		return nil, err
	}
	packets, err := s.device.SelectScene(code, param)
	if err != nil {
		return nil, err
	}
	s.device.SetEffect(name)
	return packets, nil
}

// SetEffect looks up name in the catalog and activates it.
func (s *Session) SetEffect(ctx context.Context, name string) error {
	packets, err := s.effectPackets(name)
	if err != nil {
		return err
	}
	return s.Send(ctx, packets)
}
