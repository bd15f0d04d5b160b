package goveeble

import (
	"context"
	"fmt"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
)

const actionTimeout = 10 * time.Second

type Action interface {
	Start() error
	Stop(ctx context.Context) error
}

type noOpAction struct {
}

type solidFillAction struct {
	segments []*Segment
	color    colorful.Color

	session *Session
}

func NewNoOpAction() Action {
	return &noOpAction{}
}

// NewSolidFillAction paints segments a single color. With no segments the
// whole device is painted.
func NewSolidFillAction(session *Session, segments []*Segment, color colorful.Color) (Action, error) {
	if !color.IsValid() {
		return nil, fmt.Errorf("error: invalid color")
	}
	return &solidFillAction{segments, color, session}, nil
}

func (a *solidFillAction) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	return a.session.SetColor(ctx, FromColorful(a.color), a.segments...)
}

func (a *solidFillAction) Stop(ctx context.Context) error {
	log.WithField("action", "solidfill").Info("Stopping")
	return nil
}

func (noOpAction) Start() error {
	return nil
}

func (noOpAction) Stop(ctx context.Context) error {
	log.WithField("action", "noOpAction").Info("Stopping")
	return nil
}

// Fill paints every segment of the session's device with the hex color.
func Fill(session *Session, hex string) error {
	color, err := colorful.Hex(hex)
	if err != nil {
		return err
	}
	if !color.IsValid() {
		return fmt.Errorf("error: color %s is invalid", hex)
	}
	rgb := FromColorful(color)

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	segments := session.Device().Segments()
	log.WithFields(log.Fields{
		"device":   session.Device().Name,
		"segments": len(segments),
		"hex":      color.Hex(),
		"r":        rgb.R,
		"g":        rgb.G,
		"b":        rgb.B,
	}).Debug("Setting segment colors")
	return session.SetColor(ctx, rgb, segments...)
}
