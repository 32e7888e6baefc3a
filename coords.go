package texatlas

import (
	"errors"
	"fmt"
)

// Origin selects which corner of an atlas page is the geometric (0, 0) used
// to interpret bounding boxes.
type Origin uint8

const (
	// TopLeft puts the origin at the top left corner, v pointing down.
	TopLeft Origin = iota
	// BottomLeft puts the origin at the bottom left corner, v pointing up.
	BottomLeft
)

func (o Origin) String() string {
	switch o {
	case TopLeft:
		return "TopLeft"
	case BottomLeft:
		return "BottomLeft"
	}
	return fmt.Sprintf("Origin(%d)", uint8(o))
}

func (o Origin) MarshalText() ([]byte, error) {
	if o != TopLeft && o != BottomLeft {
		return nil, fmt.Errorf("invalid origin %d", uint8(o))
	}
	return []byte(o.String()), nil
}

func (o *Origin) UnmarshalText(text []byte) error {
	switch string(text) {
	case "TopLeft":
		*o = TopLeft
	case "BottomLeft":
		*o = BottomLeft
	default:
		return fmt.Errorf("unknown origin %q", text)
	}
	return nil
}

var errZeroDimension = errors.New("atlas dimension is zero")

// PixelOffset is a pixel column (U) and row (V).
type PixelOffset struct {
	U int `json:"u"`
	V int `json:"v"`
}

func (o PixelOffset) String() string {
	return fmt.Sprintf("(%d,%d)", o.U, o.V)
}

// PixelBoundingBox locates a texture inside a page in pixels.
type PixelBoundingBox struct {
	TopLeft PixelOffset `json:"top_left"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
}

func (b PixelBoundingBox) String() string {
	return fmt.Sprintf("TopLeft: %v | Size: %dx%d", b.TopLeft, b.Width, b.Height)
}

// Corners returns the four corners of b. For BottomLeft the v axis points
// up, so the bottom edge lies Height below the top left corner; for TopLeft
// it lies Height above it in row numbers.
func (b PixelBoundingBox) Corners(origin Origin) PixelCorners {
	dv := b.Height
	if origin == BottomLeft {
		dv = -dv
	}
	u, v := b.TopLeft.U, b.TopLeft.V
	return PixelCorners{
		TopLeft:     b.TopLeft,
		TopRight:    PixelOffset{U: u + b.Width, V: v},
		BottomLeft:  PixelOffset{U: u, V: v + dv},
		BottomRight: PixelOffset{U: u + b.Width, V: v + dv},
	}
}

// PixelCorners holds the corners of a PixelBoundingBox.
type PixelCorners struct {
	TopLeft     PixelOffset
	TopRight    PixelOffset
	BottomLeft  PixelOffset
	BottomRight PixelOffset
}

// TexCoordOffset is a position in the unit square.
type TexCoordOffset struct {
	U float32
	V float32
}

func (o TexCoordOffset) String() string {
	return fmt.Sprintf("(%g,%g)", o.U, o.V)
}

// TexCoordBoundingBox is a PixelBoundingBox scaled to the unit square. It is
// always derived from the pixel box and never stored on its own.
type TexCoordBoundingBox struct {
	TopLeft TexCoordOffset
	Width   float32
	Height  float32
}

func (b TexCoordBoundingBox) String() string {
	return fmt.Sprintf("TopLeft: %v | Size: %gx%g", b.TopLeft, b.Width, b.Height)
}

// Corners is the normalized counterpart of PixelBoundingBox.Corners.
func (b TexCoordBoundingBox) Corners(origin Origin) TexCoordCorners {
	dv := b.Height
	if origin == BottomLeft {
		dv = -dv
	}
	u, v := b.TopLeft.U, b.TopLeft.V
	return TexCoordCorners{
		TopLeft:     b.TopLeft,
		TopRight:    TexCoordOffset{U: u + b.Width, V: v},
		BottomLeft:  TexCoordOffset{U: u, V: v + dv},
		BottomRight: TexCoordOffset{U: u + b.Width, V: v + dv},
	}
}

// TexCoordCorners holds the corners of a TexCoordBoundingBox.
type TexCoordCorners struct {
	TopLeft     TexCoordOffset
	TopRight    TexCoordOffset
	BottomLeft  TexCoordOffset
	BottomRight TexCoordOffset
}

// PixelToTex divides every component of b by the atlas width or height.
func PixelToTex(b PixelBoundingBox, width, height int) (TexCoordBoundingBox, error) {
	if width == 0 || height == 0 {
		return TexCoordBoundingBox{}, errZeroDimension
	}
	w, h := float32(width), float32(height)
	return TexCoordBoundingBox{
		TopLeft: TexCoordOffset{
			U: float32(b.TopLeft.U) / w,
			V: float32(b.TopLeft.V) / h,
		},
		Width:  float32(b.Width) / w,
		Height: float32(b.Height) / h,
	}, nil
}

func isPowerOfTwo(x int) bool {
	return x&(x-1) == 0
}
