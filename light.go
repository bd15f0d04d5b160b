package goveeble

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// TurnOnOptions are applied after switching the light on. Nil or empty
// fields are left alone.
type TurnOnOptions struct {
	Brightness *int
	Color      *RGB
	Effect     string
}

// TurnOn switches the whole device on and applies opts as a single write
// sequence.
func (s *Session) TurnOn(ctx context.Context, opts TurnOnOptions) error {
	packets, err := s.device.SetPower(true)
	if err != nil {
		return err
	}

	if opts.Brightness != nil {
		p, err := s.device.SetBrightness(*opts.Brightness)
		if err != nil {
			return err
		}
		packets = append(packets, p...)
	}

	if opts.Color != nil {
		p, err := s.device.SetColor(*opts.Color)
		if err != nil {
			return err
		}
		packets = append(packets, p...)
	}

	if opts.Effect != "" {
		p, err := s.effectPackets(opts.Effect)
		if err != nil {
			return err
		}
		packets = append(packets, p...)
	}

	s.logger().WithFields(log.Fields{
		"packets": len(packets),
		"effect":  opts.Effect,
	}).Debug("Turning on")
	return s.Send(ctx, packets)
}

func (s *Session) TurnOff(ctx context.Context) error {
	return s.SetPower(ctx, false)
}

// Refresh asks the device to report its current state.
func (s *Session) Refresh(ctx context.Context) error {
	return s.Send(ctx, s.device.Query())
}
