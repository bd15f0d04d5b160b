package goveeble

import (
	"context"
	"sync"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
	tomb "gopkg.in/tomb.v2"
)

// breathTick is slower than a LAN light would allow; every tick is a BLE
// write.
const breathTick = 100 * time.Millisecond

type breathAction struct {
	segments []*Segment
	colors   []colorful.Color
	position int

	session *Session

	t       tomb.Tomb
	mu      sync.Mutex
	started bool
}

type gradientTable []struct {
	Col colorful.Color
	Pos float64
}

// NewBreathAction fades segments from one color to another and back over
// the given number of seconds, repeating until stopped.
func NewBreathAction(session *Session, segments []*Segment, to, from colorful.Color, seconds int) (Action, error) {
	log.Info("New breath action")
	steps := seconds * int(time.Second/breathTick)
	if steps < 1 {
		steps = 1
	}
	keypoints := gradientTable{
		{from, 0.0},
		{to, 0.2},
		{to, 0.8},
		{from, 1.0},
	}
	colors := []colorful.Color{}
	for y := steps; y >= 0; y-- {
		c := keypoints.getInterpolatedColorFor(float64(y) / float64(steps))
		colors = append(colors, c)
	}
	ba := &breathAction{
		segments: segments,
		colors:   colors,
		position: 0,
		session:  session,
	}
	return ba, nil
}

func (a *breathAction) loop() error {
	ctx := a.t.Context(nil)
	ticker := time.NewTicker(breathTick)
	defer ticker.Stop()
	for {
		select {
		case t := <-ticker.C:
			if a.position >= len(a.colors) {
				a.position = 0
			}
			color := a.colors[a.position]
			log.WithFields(log.Fields{
				"t":        t,
				"action":   "breath",
				"position": a.position,
				"color":    color.Hex(),
			}).Debug("Tick")
			if err := a.session.SetColor(ctx, FromColorful(color), a.segments...); err != nil && ctx.Err() == nil {
				log.WithError(err).WithField("action", "breath").Warn("Could not set color.")
			}
			a.position = a.position + 1
		case <-a.t.Dying():
			return nil
		}
	}
}

func (ba *breathAction) Start() error {
	ba.mu.Lock()
	defer ba.mu.Unlock()
	ba.started = true
	ba.t.Go(ba.loop)
	return nil
}

func (ba *breathAction) Stop(ctx context.Context) error {
	ba.mu.Lock()
	defer ba.mu.Unlock()

	log.WithField("action", "breath").Info("Stopping")
	if !ba.started {
		return nil
	}
	ba.t.Kill(nil)
	return ba.t.Wait()
}

func (gt gradientTable) getInterpolatedColorFor(t float64) colorful.Color {
	for i := 0; i < len(gt)-1; i++ {
		c1 := gt[i]
		c2 := gt[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			t := (t - c1.Pos) / (c2.Pos - c1.Pos)
			return c1.Col.BlendHcl(c2.Col, t).Clamped()
		}
	}
	return gt[len(gt)-1].Col
}
