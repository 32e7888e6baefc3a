package texatlas

import (
	"fmt"
)

// ColorType describes the memory layout of a single pixel.
type ColorType uint8

const (
	ColorUnknown ColorType = iota
	L8
	La8
	Rgb8
	Rgba8
	L16
	La16
	Rgb16
	Rgba16
	Bgr8
	Bgra8
	Rgb32F
	Rgba32F
)

var colorTypeNames = [...]string{
	ColorUnknown: "Unknown",
	L8:           "L8",
	La8:          "La8",
	Rgb8:         "Rgb8",
	Rgba8:        "Rgba8",
	L16:          "L16",
	La16:         "La16",
	Rgb16:        "Rgb16",
	Rgba16:       "Rgba16",
	Bgr8:         "Bgr8",
	Bgra8:        "Bgra8",
	Rgb32F:       "Rgb32F",
	Rgba32F:      "Rgba32F",
}

// Valid reports whether c is one of the known layouts.
func (c ColorType) Valid() bool {
	return c > ColorUnknown && c <= Rgba32F
}

// ChannelCount returns the number of color channels per pixel.
func (c ColorType) ChannelCount() int {
	switch c {
	case L8, L16:
		return 1
	case La8, La16:
		return 2
	case Rgb8, Rgb16, Bgr8, Rgb32F:
		return 3
	case Rgba8, Rgba16, Bgra8, Rgba32F:
		return 4
	}
	return 0
}

// BytesPerPixel returns the size of a single pixel in bytes.
func (c ColorType) BytesPerPixel() int {
	switch c {
	case L16, La16, Rgb16, Rgba16:
		return 2 * c.ChannelCount()
	case Rgb32F, Rgba32F:
		return 4 * c.ChannelCount()
	}
	return c.ChannelCount()
}

func (c ColorType) BitsPerPixel() int {
	return 8 * c.BytesPerPixel()
}

// IsFloat reports whether the channels are stored as 32-bit floats.
func (c ColorType) IsFloat() bool {
	return c == Rgb32F || c == Rgba32F
}

func (c ColorType) String() string {
	if int(c) < len(colorTypeNames) {
		return colorTypeNames[c]
	}
	return fmt.Sprintf("ColorType(%d)", uint8(c))
}

func (c ColorType) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color type %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *ColorType) UnmarshalText(text []byte) error {
	for i, name := range colorTypeNames {
		if ColorType(i).Valid() && name == string(text) {
			*c = ColorType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown color type %q", text)
}
