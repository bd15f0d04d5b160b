package goveeble

import (
	"encoding/hex"

	"github.com/ngerakines/goveeble/packet"
	log "github.com/sirupsen/logrus"
)

const (
	segmentsPerPage   = 3
	segmentPageOffset = 3
	segmentRecordSize = 4
)

// HandleNotification applies a status report to the device state. It
// returns follow-up queries the caller should transmit, if any. Frames
// that are short or not recognised are ignored.
func (d *Device) HandleNotification(frame []byte) []packet.Packet {
	if len(frame) < packet.Size {
		log.WithField("frame", hex.EncodeToString(frame)).Debug("Ignoring short frame")
		return nil
	}

	switch {
	case packet.GetBrightness.Matches(frame):
		d.mu.Lock()
		d.state.Brightness = frame[2]
		d.mu.Unlock()

	case packet.GetPower.Matches(frame):
		d.mu.Lock()
		d.state.On = frame[2] != 0
		d.mu.Unlock()

	case packet.GetColorMode.Matches(frame):
		d.mu.Lock()
		d.state.ColorMode = frame[3]
		d.mu.Unlock()
		if frame[3] == colorModeSegments {
			return d.SegmentQuery()
		}

	case packet.GetSegmentInfo.Matches(frame):
		d.applySegmentPage(frame)

	default:
		log.WithFields(log.Fields{
			"device": d.Name,
			"frame":  hex.EncodeToString(frame),
		}).Debug("Ignoring unrecognised frame")
	}
	return nil
}

// applySegmentPage decodes one GET_SEGMENT_INFO page. Page numbers start at
// 1, each record is brightness, red, green, blue.
func (d *Device) applySegmentPage(frame []byte) {
	page := int(frame[2])
	if page < 1 {
		return
	}
	first := (page - 1) * segmentsPerPage

	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < segmentsPerPage; i++ {
		index := first + i
		if index >= len(d.segments) {
			return
		}
		off := segmentPageOffset + i*segmentRecordSize
		s := d.segments[index]
		s.state.Brightness = frame[off]
		s.state.Color = RGB{frame[off+1], frame[off+2], frame[off+3]}
	}
}
