package goveeble

// SegmentState is the last known state of a segment, or of the whole
// device for non-segmented models.
type SegmentState struct {
	On bool
	// Brightness is the 0-255 value after a brightness command, and the
	// raw device byte after a report. The two scales only agree on models
	// whose brightness scale is 1-255.
	Brightness uint8
	Color      RGB
	// Temp is the color temperature in Kelvin, zero when the light is in
	// plain color mode.
	Temp int
}

// DeviceState is the device wide state.
type DeviceState struct {
	SegmentState
	Mode   Mode
	Effect string
	// ColorMode is the raw mode byte last reported by the device.
	ColorMode byte
}

// colorModeSegments is reported when the device is driven per segment.
const colorModeSegments = 0x15
