package goveeble

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is a color as sent to and reported by the device.
type RGB struct {
	R, G, B uint8
}

var Black = RGB{}

func (c RGB) Bytes() []byte {
	return []byte{c.R, c.G, c.B}
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FromColorful clamps c and converts it to device channels.
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
}

// ParseHex parses "#rrggbb".
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, err
	}
	if !c.IsValid() {
		return RGB{}, fmt.Errorf("error: color %s is invalid", s)
	}
	return FromColorful(c), nil
}

// entityMaxBrightness is the top of the caller facing brightness scale.
const entityMaxBrightness = 255

// ScaleBrightness maps a 0-255 brightness onto the device scale, rounding
// to the nearest step and clamping to the scale bounds.
func ScaleBrightness(scale Range, brightness int) int {
	states := float64(scale.Max - scale.Min + 1)
	v := float64(brightness)*states/entityMaxBrightness + float64(scale.Min-1)
	scaled := int(math.Round(v))
	if scaled < scale.Min {
		return scale.Min
	}
	if scaled > scale.Max {
		return scale.Max
	}
	return scaled
}

// KelvinToRGB approximates the color of a black body at kelvin degrees.
// Input is clamped to 1000-40000K.
func KelvinToRGB(kelvin int) RGB {
	k := math.Max(1000, math.Min(40000, float64(kelvin))) / 100

	var r, g, b float64
	if k <= 66 {
		r = 255
		g = 99.4708025861*math.Log(k) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(k-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(k-60, -0.0755148492)
	}
	switch {
	case k >= 66:
		b = 255
	case k <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(k-10) - 305.0447927307
	}

	return FromColorful(colorful.Color{R: r / 255, G: g / 255, B: b / 255})
}
