package texatlas

import (
	"errors"
	"fmt"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"image"
	"image/color"
)

var (
	errFloatingPoint     = errors.New("floating point pixels cannot be converted to an image")
	errUnrecognizedColor = errors.New("unrecognized color type")
)

// PixelBuffer is a tightly packed, row-major pixel buffer. Its stride is
// always Width*ColorType.BytesPerPixel().
type PixelBuffer struct {
	Width     int
	Height    int
	ColorType ColorType
	Pix       []byte
}

func (b *PixelBuffer) Stride() int {
	return b.Width * b.ColorType.BytesPerPixel()
}

// Clone returns a deep copy of b.
func (b *PixelBuffer) Clone() *PixelBuffer {
	dup := *b
	dup.Pix = append([]byte(nil), b.Pix...)
	return &dup
}

func (b *PixelBuffer) validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", b.Width, b.Height)
	}
	if !b.ColorType.Valid() {
		return errUnrecognizedColor
	}
	if want := b.Stride() * b.Height; len(b.Pix) != want {
		return fmt.Errorf("pixel buffer holds %d bytes, expected %d", len(b.Pix), want)
	}
	return nil
}

// FlipRows mirrors the buffer vertically in place, swapping row i with row
// Height-1-i. Applying it twice restores the original bytes.
func (b *PixelBuffer) FlipRows() {
	stride := b.Stride()
	tmp := make([]byte, stride)
	for top, bottom := 0, b.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := b.Pix[top*stride : (top+1)*stride]
		u := b.Pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, t)
		copy(t, u)
		copy(u, tmp)
	}
}

// conversions maps a (from, to) layout pair to, for every destination
// channel, the source channel it is copied from. -1 fills the channel with
// its maximum value.
var conversions = map[[2]ColorType][]int{
	{Rgb8, Rgba8}:   {0, 1, 2, -1},
	{Rgb8, Bgr8}:    {2, 1, 0},
	{Rgb8, Bgra8}:   {2, 1, 0, -1},
	{Rgb8, La8}:     {0, -1},
	{Rgba8, Bgra8}:  {2, 1, 0, 3},
	{Rgba8, La8}:    {0, 3},
	{Bgr8, Rgba8}:   {2, 1, 0, -1},
	{Bgra8, Rgba8}:  {2, 1, 0, 3},
	{La8, Rgba8}:    {0, 0, 0, 1},
	{Rgb16, Rgba16}: {0, 1, 2, -1},
	{Rgb16, La16}:   {0, -1},
	{Rgba16, La16}:  {0, 3},
	{La16, Rgba16}:  {0, 0, 0, 1},
}

// Convert returns a copy of b in the layout to. Only lossless channel
// shuffles are supported: widening opaque pixels with an alpha channel,
// swapping RGB and BGR, and folding grey RGB(A) into luminance.
func (b *PixelBuffer) Convert(to ColorType) (*PixelBuffer, error) {
	if b.ColorType == to {
		return b.Clone(), nil
	}
	channels, ok := conversions[[2]ColorType{b.ColorType, to}]
	if !ok {
		return nil, fmt.Errorf("cannot convert %v pixels to %v", b.ColorType, to)
	}

	unit := b.ColorType.BytesPerPixel() / b.ColorType.ChannelCount()
	srcBpp, dstBpp := b.ColorType.BytesPerPixel(), to.BytesPerPixel()

	out := &PixelBuffer{
		Width:     b.Width,
		Height:    b.Height,
		ColorType: to,
		Pix:       make([]byte, b.Width*b.Height*dstBpp),
	}
	for i, j := 0, 0; i+srcBpp <= len(b.Pix); i, j = i+srcBpp, j+dstBpp {
		for k, c := range channels {
			dst := out.Pix[j+k*unit : j+(k+1)*unit]
			if c < 0 {
				for n := range dst {
					dst[n] = 0xff
				}
				continue
			}
			copy(dst, b.Pix[i+c*unit:i+(c+1)*unit])
		}
	}
	return out, nil
}

// imageLayouts is the layout each ColorType is widened to before it is
// wrapped in one of the standard library image types.
var imageLayouts = map[ColorType]ColorType{
	L8:     L8,
	L16:    L16,
	Rgba8:  Rgba8,
	Rgba16: Rgba16,
	Rgb8:   Rgba8,
	Bgr8:   Rgba8,
	Bgra8:  Rgba8,
	La8:    Rgba8,
	Rgb16:  Rgba16,
	La16:   Rgba16,
}

// Image copies b into an image.Image. Row 0 of the buffer becomes the top
// row of the image.
func (b *PixelBuffer) Image() (image.Image, error) {
	if b.ColorType.IsFloat() {
		return nil, errFloatingPoint
	}
	target, ok := imageLayouts[b.ColorType]
	if !ok {
		return nil, errUnrecognizedColor
	}
	conv, err := b.Convert(target)
	if err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, conv.Width, conv.Height)
	stride := conv.Stride()
	switch target {
	case L8:
		return &image.Gray{Pix: conv.Pix, Stride: stride, Rect: rect}, nil
	case L16:
		return &image.Gray16{Pix: conv.Pix, Stride: stride, Rect: rect}, nil
	case Rgba8:
		return &image.NRGBA{Pix: conv.Pix, Stride: stride, Rect: rect}, nil
	default:
		return &image.NRGBA64{Pix: conv.Pix, Stride: stride, Rect: rect}, nil
	}
}

// NewPixelBufferFromImage copies img into a packed buffer, choosing the
// ColorType that matches the image model. Images with a model that has no
// ColorType yield a buffer with ColorUnknown and no pixel data.
func NewPixelBufferFromImage(img image.Image) *PixelBuffer {
	r := img.Bounds()

	switch m := img.(type) {
	case *image.NRGBA:
		return packRows(r, Rgba8, 4, func(y int) []byte { return m.Pix[m.PixOffset(r.Min.X, y):] })
	case *image.RGBA:
		if !m.Opaque() {
			return NewPixelBufferFromImage(imaging.Clone(m))
		}
		return packRows(r, Rgb8, 4, func(y int) []byte { return m.Pix[m.PixOffset(r.Min.X, y):] })
	case *image.Gray:
		return packRows(r, L8, 1, func(y int) []byte { return m.Pix[m.PixOffset(r.Min.X, y):] })
	case *image.Gray16:
		return packRows(r, L16, 2, func(y int) []byte { return m.Pix[m.PixOffset(r.Min.X, y):] })
	case *image.NRGBA64:
		return packRows(r, Rgba16, 8, func(y int) []byte { return m.Pix[m.PixOffset(r.Min.X, y):] })
	case *image.RGBA64:
		if !m.Opaque() {
			dst := image.NewNRGBA64(image.Rect(0, 0, r.Dx(), r.Dy()))
			draw.Draw(dst, dst.Bounds(), m, r.Min, draw.Src)
			return NewPixelBufferFromImage(dst)
		}
		return packRows(r, Rgb16, 8, func(y int) []byte { return m.Pix[m.PixOffset(r.Min.X, y):] })
	case *image.Paletted:
		return NewPixelBufferFromImage(imaging.Clone(m))
	}

	return &PixelBuffer{Width: r.Dx(), Height: r.Dy(), ColorType: ColorUnknown}
}

// packRows copies every row of r into a new buffer of layout ct. When the
// source pixel is wider than ct, only the leading bytes of each pixel are
// kept, which drops a trailing alpha channel.
func packRows(r image.Rectangle, ct ColorType, srcBpp int, row func(y int) []byte) *PixelBuffer {
	b := &PixelBuffer{Width: r.Dx(), Height: r.Dy(), ColorType: ct}
	bpp := ct.BytesPerPixel()
	stride := b.Stride()
	b.Pix = make([]byte, stride*b.Height)

	for y := 0; y < b.Height; y++ {
		src := row(r.Min.Y + y)
		dst := b.Pix[y*stride : (y+1)*stride]
		if srcBpp == bpp {
			copy(dst, src[:stride])
			continue
		}
		for x := 0; x < b.Width; x++ {
			copy(dst[x*bpp:(x+1)*bpp], src[x*srcBpp:x*srcBpp+bpp])
		}
	}
	return b
}

// RGBAFromUint32 unpacks a 0xRRGGBBAA value.
func RGBAFromUint32(v uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
}
