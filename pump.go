package goveeble

import (
	"context"

	"github.com/ngerakines/goveeble/packet"
	log "github.com/sirupsen/logrus"
)

// pump applies received notifications to the device and transmits any
// queued or follow-up queries. It runs until the session is closed.
func (s *Session) pump() error {
	ctx := s.t.Context(nil)
	s.logger().Debug("Notification pump starting")

	for {
		select {
		case <-s.t.Dying():
			s.logger().Debug("Notification pump stopping")
			return nil
		case frame := <-s.frames:
			followups := s.device.HandleNotification(frame)
			if len(followups) > 0 {
				s.transmit(ctx, followups, "segment query")
			}
		case packets := <-s.pending:
			s.transmit(ctx, packets, "status query")
		}
	}
}

func (s *Session) transmit(ctx context.Context, packets []packet.Packet, what string) {
	if err := s.Send(ctx, packets); err != nil && err != ErrSessionClosed {
		s.logger().WithError(err).WithFields(log.Fields{
			"query":   what,
			"packets": len(packets),
		}).Error("Could not send query.")
	}
}
