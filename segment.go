package goveeble

import "github.com/ngerakines/goveeble/packet"

// Segment is one independently addressable zone of a light strip. IDs
// start at 1.
type Segment struct {
	ID int

	device *Device
	state  SegmentState
}

// SegmentGroup is an ordered set of segments driven together.
type SegmentGroup struct {
	device   *Device
	segments []*Segment
}

func (s *Segment) State() SegmentState {
	s.device.mu.RLock()
	defer s.device.mu.RUnlock()
	return s.state
}

func (s *Segment) SetPower(on bool) ([]packet.Packet, error) {
	return s.device.SetPower(on, s)
}

func (s *Segment) SetBrightness(brightness int) ([]packet.Packet, error) {
	return s.device.SetBrightness(brightness, s)
}

func (s *Segment) SetColor(color RGB) ([]packet.Packet, error) {
	return s.device.SetColor(color, s)
}

func (s *Segment) SetTemp(kelvin int) ([]packet.Packet, error) {
	return s.device.SetTemp(kelvin, s)
}

func (g *SegmentGroup) Segments() []*Segment {
	return append([]*Segment(nil), g.segments...)
}

func (g *SegmentGroup) IDs() []int {
	ids := make([]int, len(g.segments))
	for i, s := range g.segments {
		ids[i] = s.ID
	}
	return ids
}

func (g *SegmentGroup) SetPower(on bool) ([]packet.Packet, error) {
	return g.device.SetPower(on, g.segments...)
}

func (g *SegmentGroup) SetBrightness(brightness int) ([]packet.Packet, error) {
	return g.device.SetBrightness(brightness, g.segments...)
}

func (g *SegmentGroup) SetColor(color RGB) ([]packet.Packet, error) {
	return g.device.SetColor(color, g.segments...)
}

func (g *SegmentGroup) SetTemp(kelvin int) ([]packet.Packet, error) {
	return g.device.SetTemp(kelvin, g.segments...)
}
