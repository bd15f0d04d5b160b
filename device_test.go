package goveeble

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ngerakines/goveeble/packet"
)

func content(p packet.Packet) []byte {
	return p[:packet.ContentSize]
}

func expectFrame(t *testing.T, p packet.Packet, want []byte) {
	t.Helper()
	if !p.Valid() {
		t.Errorf("frame %s has a bad checksum", p)
	}
	got := content(p)
	if !bytes.Equal(got[:len(want)], want) {
		t.Errorf("frame = %x, want prefix %x", got, want)
	}
	for i, b := range got[len(want):] {
		if b != 0 {
			t.Errorf("frame %s: byte %d = %#x, want zero padding", p, len(want)+i, b)
			break
		}
	}
}

func TestSetPowerWholeDevice(t *testing.T) {
	for _, model := range []string{"H6053", "H6001"} {
		d := NewDevice("light", model)

		packets, err := d.SetPower(true)
		if err != nil {
			t.Fatalf("%s: SetPower(true): %v", model, err)
		}
		if len(packets) != 1 {
			t.Fatalf("%s: got %d packets, want 1", model, len(packets))
		}
		expectFrame(t, packets[0], []byte{0x33, 0x01, 0x01})
		if packets[0][19] != 0x33 {
			t.Errorf("%s: checksum = %#x, want 0x33", model, packets[0][19])
		}
		if !d.State().On {
			t.Errorf("%s: device not marked on", model)
		}

		packets, err = d.SetPower(false)
		if err != nil {
			t.Fatalf("%s: SetPower(false): %v", model, err)
		}
		expectFrame(t, packets[0], []byte{0x33, 0x01, 0x00})
		if d.State().On {
			t.Errorf("%s: device still marked on", model)
		}
	}
}

func TestSetPowerSegmentsOn(t *testing.T) {
	d := NewDevice("strip", "H6053")

	packets, err := d.SetPower(true, d.Segment(1), d.Segment(3))
	if err != nil {
		t.Fatal(err)
	}
	if len(packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(packets))
	}
	expectFrame(t, packets[0], []byte{
		0x33, 0x05, 0x15, 0x01,
		0, 0, 0, 0, 0, 0, 0, 0,
		0x05, 0x00,
	})
	for _, id := range []int{1, 3} {
		if !d.Segment(id).State().On {
			t.Errorf("segment %d not marked on", id)
		}
	}
	if d.Segment(2).State().On {
		t.Errorf("segment 2 marked on")
	}
}

func TestSetPowerSegmentsOnWithoutTemp(t *testing.T) {
	d := NewDeviceWithInfo("strip", DeviceInfo{
		Model:           "TEST",
		BrightnessScale: Range{1, 255},
		Segments:        [][]int{{1, 2, 3, 4}},
	})

	packets, err := d.SetPower(true, d.Segment(4))
	if err != nil {
		t.Fatal(err)
	}
	expectFrame(t, packets[0], []byte{0x33, 0x05, 0x0B, 0, 0, 0, 0x08})
}

func TestSetPowerSegmentsOff(t *testing.T) {
	d := NewDevice("strip", "H6053")
	if _, err := d.SetColor(RGB{10, 20, 30}, d.Segment(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := d.SetTemp(6500, d.Segment(2)); err != nil {
		t.Fatal(err)
	}
	if _, err := d.SetPower(true, d.Segment(1), d.Segment(2)); err != nil {
		t.Fatal(err)
	}

	packets, err := d.SetPower(false, d.Segment(1), d.Segment(2))
	if err != nil {
		t.Fatal(err)
	}
	if len(packets) != 2 {
		t.Fatalf("got %d packets, want one per segment", len(packets))
	}
	expectFrame(t, packets[0], []byte{
		0x33, 0x05, 0x15, 0x01,
		10, 20, 30,
		0, 0,
		0, 0, 0,
		0x01, 0x00,
	})
	approx := KelvinToRGB(6500)
	expectFrame(t, packets[1], []byte{
		0x33, 0x05, 0x15, 0x01,
		0, 0, 0,
		0x19, 0x64,
		approx.R, approx.G, approx.B,
		0x02, 0x00,
	})
	for _, id := range []int{1, 2} {
		if d.Segment(id).State().On {
			t.Errorf("segment %d still marked on", id)
		}
	}
}

func TestSetBrightness(t *testing.T) {
	tests := []struct {
		model string
		value int
		wire  byte
	}{
		{"H6053", 255, 100},
		{"H6053", 0, 1},
		{"H6053", 128, 50},
		{"H6053", 300, 100},
		{"H6001", 255, 255},
		{"H6001", 0, 1},
	}
	for _, tt := range tests {
		d := NewDevice("light", tt.model)
		packets, err := d.SetBrightness(tt.value)
		if err != nil {
			t.Fatalf("%s %d: %v", tt.model, tt.value, err)
		}
		expectFrame(t, packets[0], []byte{0x33, 0x04, tt.wire})
	}
}

func TestSetBrightnessSegments(t *testing.T) {
	d := NewDevice("strip", "H6053")
	packets, err := d.SetBrightness(255, d.Segment(2), d.Segment(12))
	if err != nil {
		t.Fatal(err)
	}
	expectFrame(t, packets[0], []byte{0x33, 0x05, 0x15, 0x02, 100, 0x02, 0x08})
	if got := d.Segment(2).State().Brightness; got != 255 {
		t.Errorf("segment brightness = %d, want 255", got)
	}
}

func TestSetColor(t *testing.T) {
	color := RGB{0xFF, 0x80, 0x01}

	plain := NewDevice("bulb", "H6001")
	packets, err := plain.SetColor(color)
	if err != nil {
		t.Fatal(err)
	}
	expectFrame(t, packets[0], []byte{0x33, 0x05, 0x02, 0xFF, 0x80, 0x01})
	if got := plain.State().Color; got != color {
		t.Errorf("color = %v, want %v", got, color)
	}

	strip := NewDevice("strip", "H6053")
	packets, err = strip.SetColor(color, strip.Segment(9))
	if err != nil {
		t.Fatal(err)
	}
	expectFrame(t, packets[0], []byte{
		0x33, 0x05, 0x15, 0x01,
		0xFF, 0x80, 0x01,
		0, 0, 0, 0, 0,
		0x00, 0x01,
	})

	packets, err = strip.SetColor(color)
	if err != nil {
		t.Fatal(err)
	}
	if got := content(packets[0])[12:14]; !bytes.Equal(got, []byte{0xFF, 0x0F}) {
		t.Errorf("mask = %x, want ff0f", got)
	}
	for _, s := range strip.Segments() {
		if s.State().Color != color {
			t.Errorf("segment %d color = %v", s.ID, s.State().Color)
		}
	}
}

func TestSetTempOutOfRange(t *testing.T) {
	d := NewDevice("strip", "H6053")
	before := d.Segment(1).State()

	for _, k := range []int{4999, 9001, 0} {
		packets, err := d.SetTemp(k)
		if err != nil || packets != nil {
			t.Errorf("SetTemp(%d) = %v, %v; want nil, nil", k, packets, err)
		}
	}
	if got := d.Segment(1).State(); got != before {
		t.Errorf("state changed to %+v", got)
	}

	plain := NewDevice("bulb", "H6001")
	if packets, err := plain.SetTemp(6500); err != nil || packets != nil {
		t.Errorf("SetTemp without temperature support = %v, %v", packets, err)
	}
}

func TestSetTemp(t *testing.T) {
	d := NewDevice("strip", "H6053")
	packets, err := d.SetTemp(5000, d.Segment(1), d.Segment(2))
	if err != nil {
		t.Fatal(err)
	}
	expectFrame(t, packets[0], []byte{
		0x33, 0x05, 0x15, 0x01,
		0, 0, 0,
		0x13, 0x88,
		255, 228, 206,
		0x03, 0x00,
	})
	state := d.Segment(1).State()
	if state.Temp != 5000 || state.Color != Black {
		t.Errorf("segment state = %+v", state)
	}

	bulb := NewDeviceWithInfo("bulb", DeviceInfo{
		Model:           "TEST",
		BrightnessScale: Range{1, 255},
		TempRange:       &Range{2000, 9000},
	})
	packets, err = bulb.SetTemp(6600)
	if err != nil {
		t.Fatal(err)
	}
	expectFrame(t, packets[0], []byte{0x33, 0x05, 0x02, 0xFF, 0xFF, 0xFF})
	if got := bulb.State().Temp; got != 6600 {
		t.Errorf("temp = %d, want 6600", got)
	}
}

func TestSelectScene(t *testing.T) {
	d := NewDevice("strip", "H6053")
	d.SetEffect("old")

	packets, err := d.SelectScene(513, []byte{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(packets) != 2 {
		t.Fatalf("got %d packets, want 2", len(packets))
	}
	expectFrame(t, packets[0], []byte{0xA3, 0x00, 0x01, 0x01, 0x02, 1, 2, 3, 4, 5})
	expectFrame(t, packets[1], []byte{0x33, 0x05, 0x04, 0x01, 0x02})

	state := d.State()
	if state.Mode != ModeScene || state.Effect != "" {
		t.Errorf("state = %+v", state)
	}

	packets, err = d.SelectScene(7, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(packets) != 1 {
		t.Fatalf("got %d packets without param, want 1", len(packets))
	}
	expectFrame(t, packets[0], []byte{0x33, 0x05, 0x04, 0x07, 0x00})

	long := bytes.Repeat([]byte{0x42}, 40)
	packets, err = d.SelectScene(1, long)
	if err != nil {
		t.Fatal(err)
	}
	if len(packets) != 4 {
		t.Fatalf("got %d packets, want 3 chunks and SET_SCENE", len(packets))
	}
	if !packet.SceneData.Matches(packets[2][:]) || packets[2][1] != 0xFF {
		t.Errorf("last chunk = %s", packets[2])
	}
	if !packet.SetScene.Matches(packets[3][:]) {
		t.Errorf("last packet = %s, want SET_SCENE", packets[3])
	}
}

func TestSelectSceneInvalidCode(t *testing.T) {
	d := NewDevice("strip", "H6053")
	for _, code := range []int{-1, 0x10000} {
		if _, err := d.SelectScene(code, nil); !errors.Is(err, ErrInvalidSceneCode) {
			t.Errorf("SelectScene(%d) error = %v", code, err)
		}
	}
}

func TestForeignSegment(t *testing.T) {
	d := NewDevice("a", "H6053")
	other := NewDevice("b", "H6053")

	if _, err := d.SetColor(RGB{1, 2, 3}, other.Segment(1)); !errors.Is(err, ErrUnknownSegment) {
		t.Errorf("SetColor error = %v, want ErrUnknownSegment", err)
	}
	if _, err := d.SetBrightness(10, other.Segment(1)); !errors.Is(err, ErrUnknownSegment) {
		t.Errorf("SetBrightness error = %v, want ErrUnknownSegment", err)
	}
}

func TestGroups(t *testing.T) {
	d := NewDevice("strip", "H6053")
	if len(d.Groups()) != 2 {
		t.Fatalf("got %d groups, want 2", len(d.Groups()))
	}
	if got := d.Group(1).IDs(); len(got) != 6 || got[0] != 7 {
		t.Errorf("second group ids = %v", got)
	}
	if d.Group(2) != nil || d.Segment(13) != nil {
		t.Errorf("lookup past the end returned a value")
	}
}

func TestQuery(t *testing.T) {
	d := NewDevice("strip", "H6053")
	want := [][]byte{{0xAA, 0x04}, {0xAA, 0x05, 0x01}, {0xAA, 0x01}}
	packets := d.Query()
	if len(packets) != len(want) {
		t.Fatalf("got %d packets", len(packets))
	}
	for i, p := range packets {
		expectFrame(t, p, want[i])
	}

	pages := d.SegmentQuery()
	if len(pages) != 4 {
		t.Fatalf("got %d segment pages, want 4", len(pages))
	}
	for i, p := range pages {
		expectFrame(t, p, []byte{0xAA, 0xA5, byte(i + 1)})
	}
	if NewDevice("bulb", "H6001").SegmentQuery() != nil {
		t.Errorf("plain device produced segment queries")
	}
}

func TestSegmentAndGroupCommands(t *testing.T) {
	d := NewDevice("strip", "H6053")

	packets, err := d.Segment(3).SetColor(RGB{9, 9, 9})
	if err != nil {
		t.Fatal(err)
	}
	if got := content(packets[0])[12:14]; !bytes.Equal(got, []byte{0x04, 0x00}) {
		t.Errorf("segment mask = %x", got)
	}

	packets, err = d.Group(1).SetPower(true)
	if err != nil {
		t.Fatal(err)
	}
	if got := content(packets[0])[12:14]; !bytes.Equal(got, []byte{0xC0, 0x0F}) {
		t.Errorf("group mask = %x", got)
	}

	packets, err = d.Group(0).SetPower(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(packets) != 6 {
		t.Errorf("group power off produced %d packets, want 6", len(packets))
	}

	if _, err := d.Segment(5).SetBrightness(128); err != nil {
		t.Fatal(err)
	}
	if packets, err := d.Group(0).SetTemp(6000); err != nil || len(packets) != 1 {
		t.Errorf("group SetTemp = %v, %v", packets, err)
	}
}
