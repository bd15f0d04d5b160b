package goveeble

import (
	"encoding/binary"
	"sync"

	"github.com/ngerakines/goveeble/packet"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrUnknownSegment   = errors.New("segment does not belong to device")
	ErrInvalidSceneCode = errors.New("scene code does not fit in two bytes")
)

// Device holds the capabilities and the last known state of one light.
// Command methods return the frames to transmit and update the state
// optimistically; HandleNotification applies reports from the device.
type Device struct {
	Name string

	info     DeviceInfo
	segments []*Segment
	groups   []*SegmentGroup

	mu    sync.RWMutex
	state DeviceState
}

// NewDevice creates a device using the capability table entry for model.
func NewDevice(name, model string) *Device {
	return NewDeviceWithInfo(name, LookupModel(model))
}

func NewDeviceWithInfo(name string, info DeviceInfo) *Device {
	info.init()
	d := &Device{
		Name: name,
		info: info,
	}
	for _, ids := range info.Segments {
		group := &SegmentGroup{device: d}
		for _, id := range ids {
			s := &Segment{ID: id, device: d}
			d.segments = append(d.segments, s)
			group.segments = append(group.segments, s)
		}
		d.groups = append(d.groups, group)
	}
	return d
}

func (d *Device) Info() DeviceInfo {
	return d.info
}

func (d *Device) Segments() []*Segment {
	return append([]*Segment(nil), d.segments...)
}

func (d *Device) Groups() []*SegmentGroup {
	return append([]*SegmentGroup(nil), d.groups...)
}

// Segment returns the segment with the given ID, or nil.
func (d *Device) Segment(id int) *Segment {
	for _, s := range d.segments {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Group returns the group at index, or nil.
func (d *Device) Group(index int) *SegmentGroup {
	if index < 0 || index >= len(d.groups) {
		return nil
	}
	return d.groups[index]
}

func (d *Device) State() DeviceState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// SetEffect records the name of the running effect.
func (d *Device) SetEffect(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Effect = name
}

func (d *Device) mask(segments []*Segment) ([]byte, error) {
	ids := make([]int, len(segments))
	for i, s := range segments {
		if s == nil || s.device != d {
			return nil, ErrUnknownSegment
		}
		ids[i] = s.ID
	}
	return packet.SegmentMask(ids, d.info.SegmentByteLength)
}

func tempBytes(kelvin int) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(kelvin))
	return b
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func clampBrightness(v int) int {
	if v < 0 {
		return 0
	}
	if v > entityMaxBrightness {
		return entityMaxBrightness
	}
	return v
}

// SetPower switches the whole device, or the given segments.
//
// The protocol has no per segment power command. Segments are switched on
// by asserting a neutral color, and switched off by re-sending each
// segment's last color individually.
func (d *Device) SetPower(on bool, segments ...*Segment) ([]packet.Packet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(segments) == 0 {
		p, err := packet.Build(packet.Prefix(packet.SetPower), packet.Byte(boolByte(on)))
		if err != nil {
			return nil, err
		}
		d.state.On = on
		return []packet.Packet{p}, nil
	}

	if on {
		mask, err := d.mask(segments)
		if err != nil {
			return nil, err
		}
		var p packet.Packet
		if d.info.SupportsTemp() {
			p, err = packet.Build(packet.Prefix(packet.SetSegmentsRGBTemp), packet.Bytes(make([]byte, 8)...), packet.Bytes(mask...))
		} else {
			p, err = packet.Build(packet.Prefix(packet.SetSegmentsRGB), packet.Bytes(Black.Bytes()...), packet.Bytes(mask...))
		}
		if err != nil {
			return nil, err
		}
		for _, s := range segments {
			s.state.On = true
		}
		return []packet.Packet{p}, nil
	}

	packets := make([]packet.Packet, 0, len(segments))
	for _, s := range segments {
		mask, err := d.mask([]*Segment{s})
		if err != nil {
			return nil, err
		}
		var p packet.Packet
		if d.info.SupportsTemp() {
			tempColor := Black
			if s.state.Temp > 0 {
				tempColor = KelvinToRGB(s.state.Temp)
			}
			p, err = packet.Build(
				packet.Prefix(packet.SetSegmentsRGBTemp),
				packet.Bytes(s.state.Color.Bytes()...),
				packet.Bytes(tempBytes(s.state.Temp)...),
				packet.Bytes(tempColor.Bytes()...),
				packet.Bytes(mask...),
			)
		} else {
			p, err = packet.Build(packet.Prefix(packet.SetSegmentsRGB), packet.Bytes(s.state.Color.Bytes()...), packet.Bytes(mask...))
		}
		if err != nil {
			return nil, err
		}
		packets = append(packets, p)
	}
	for _, s := range segments {
		s.state.On = false
	}
	return packets, nil
}

// SetBrightness sets brightness on the 0-255 scale. The value is rescaled
// to the device's brightness range on the wire.
func (d *Device) SetBrightness(brightness int, segments ...*Segment) ([]packet.Packet, error) {
	brightness = clampBrightness(brightness)
	scaled := ScaleBrightness(d.info.BrightnessScale, brightness)

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(segments) == 0 {
		p, err := packet.Build(packet.Prefix(packet.SetBrightness), packet.Byte(byte(scaled)))
		if err != nil {
			return nil, err
		}
		d.state.Brightness = uint8(brightness)
		return []packet.Packet{p}, nil
	}

	mask, err := d.mask(segments)
	if err != nil {
		return nil, err
	}
	p, err := packet.Build(packet.Prefix(packet.SetSegmentsBrightness), packet.Byte(byte(scaled)), packet.Bytes(mask...))
	if err != nil {
		return nil, err
	}
	for _, s := range segments {
		s.state.Brightness = uint8(brightness)
	}
	return []packet.Packet{p}, nil
}

// SetColor sets an RGB color. On segmented models a call without segments
// applies to every segment.
func (d *Device) SetColor(color RGB, segments ...*Segment) ([]packet.Packet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.info.Segmented() {
		p, err := packet.Build(packet.Prefix(packet.SetRGB), packet.Bytes(color.Bytes()...))
		if err != nil {
			return nil, err
		}
		d.state.Color = color
		d.state.Temp = 0
		return []packet.Packet{p}, nil
	}

	if len(segments) == 0 {
		segments = d.segments
	}
	mask, err := d.mask(segments)
	if err != nil {
		return nil, err
	}
	var p packet.Packet
	if d.info.SupportsTemp() {
		p, err = packet.Build(packet.Prefix(packet.SetSegmentsRGBTemp), packet.Bytes(color.Bytes()...), packet.Bytes(make([]byte, 5)...), packet.Bytes(mask...))
	} else {
		p, err = packet.Build(packet.Prefix(packet.SetSegmentsRGB), packet.Bytes(color.Bytes()...), packet.Bytes(mask...))
	}
	if err != nil {
		return nil, err
	}
	for _, s := range segments {
		s.state.Color = color
		s.state.Temp = 0
	}
	return []packet.Packet{p}, nil
}

// SetTemp sets a color temperature in Kelvin. Values outside the model's
// range, or models without temperature support, produce no frames and
// leave the state untouched.
func (d *Device) SetTemp(kelvin int, segments ...*Segment) ([]packet.Packet, error) {
	if !d.info.SupportsTemp() || !d.info.TempRange.Contains(kelvin) {
		log.WithFields(log.Fields{
			"device": d.Name,
			"kelvin": kelvin,
		}).Debug("Ignoring unsupported color temperature")
		return nil, nil
	}
	approx := KelvinToRGB(kelvin)

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.info.Segmented() {
		p, err := packet.Build(packet.Prefix(packet.SetRGB), packet.Bytes(approx.Bytes()...))
		if err != nil {
			return nil, err
		}
		d.state.Color = approx
		d.state.Temp = kelvin
		return []packet.Packet{p}, nil
	}

	if len(segments) == 0 {
		segments = d.segments
	}
	mask, err := d.mask(segments)
	if err != nil {
		return nil, err
	}
	p, err := packet.Build(
		packet.Prefix(packet.SetSegmentsRGBTemp),
		packet.Bytes(Black.Bytes()...),
		packet.Bytes(tempBytes(kelvin)...),
		packet.Bytes(approx.Bytes()...),
		packet.Bytes(mask...),
	)
	if err != nil {
		return nil, err
	}
	for _, s := range segments {
		s.state.Color = Black
		s.state.Temp = kelvin
	}
	return []packet.Packet{p}, nil
}

// SelectScene activates a scene. When param is present it is transmitted
// as SCENE_DATA chunks ahead of the SET_SCENE frame.
func (d *Device) SelectScene(code int, param []byte) ([]packet.Packet, error) {
	if code < 0 || code > 0xFFFF {
		return nil, errors.Wrapf(ErrInvalidSceneCode, "scene code %d", code)
	}

	var packets []packet.Packet
	if len(param) > 0 {
		chunks, err := packet.SceneChunks(param)
		if err != nil {
			return nil, err
		}
		packets = append(packets, chunks...)
	}

	codeBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(codeBytes, uint16(code))
	p, err := packet.Build(packet.Prefix(packet.SetScene), packet.Bytes(codeBytes...))
	if err != nil {
		return nil, err
	}
	packets = append(packets, p)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Mode = ModeScene
	d.state.Effect = ""
	return packets, nil
}

// Query returns the burst of status requests sent after connecting.
func (d *Device) Query() []packet.Packet {
	return []packet.Packet{
		packet.MustBuild(packet.Prefix(packet.GetBrightness)),
		packet.MustBuild(packet.Prefix(packet.GetColorMode)),
		packet.MustBuild(packet.Prefix(packet.GetPower)),
	}
}

// SegmentQuery requests every segment report page. Pages are numbered
// from 1 and each one covers segmentsPerPage segments.
func (d *Device) SegmentQuery() []packet.Packet {
	if len(d.segments) == 0 {
		return nil
	}
	pages := (len(d.segments) + segmentsPerPage - 1) / segmentsPerPage
	packets := make([]packet.Packet, 0, pages)
	for page := 1; page <= pages; page++ {
		packets = append(packets, packet.MustBuild(packet.Prefix(packet.GetSegmentInfo), packet.Byte(byte(page))))
	}
	return packets
}
