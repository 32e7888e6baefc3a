package texatlas

import (
	"fmt"
	"golang.org/x/image/draw"
	"image"
	"image/color"
)

// Entry is one texture of a page as handed to NewPage.
type Entry struct {
	Index int
	Name  string
	Box   PixelBoundingBox
}

func (e Entry) String() string {
	return fmt.Sprintf("%d:%s", e.Index, e.Name)
}

type texture struct {
	name string
	box  PixelBoundingBox
	uv   TexCoordBoundingBox
}

// Page is a single atlas image together with the index of the textures
// packed into it. A Page is immutable once constructed and may be read from
// several goroutines at once.
type Page struct {
	name     string
	origin   Origin
	indices  map[string]int
	textures []texture
	pixels   PixelBuffer
}

// NewPage builds a page from its dimensions, pixel layout, texture entries
// and raw pixel data. The entry indices must be exactly 0..len(entries)-1
// and the texture names must be unique. len(data) must equal
// width*height*colorType.BytesPerPixel(). The page takes ownership of data.
//
// Bounding boxes are not checked against the page dimensions.
func NewPage(width, height int, colorType ColorType, origin Origin, entries []Entry, name string, data []byte) (*Page, error) {
	pixels := PixelBuffer{Width: width, Height: height, ColorType: colorType, Pix: data}
	if err := pixels.validate(); err != nil {
		return nil, err
	}
	if origin != TopLeft && origin != BottomLeft {
		return nil, fmt.Errorf("invalid origin %v", origin)
	}

	p := &Page{
		name:     name,
		origin:   origin,
		indices:  make(map[string]int, len(entries)),
		textures: make([]texture, len(entries)),
		pixels:   pixels,
	}

	seen := make([]bool, len(entries))
	for _, e := range entries {
		if e.Index < 0 || e.Index >= len(entries) {
			return nil, fmt.Errorf("texture %q has index %d, expected 0 to %d", e.Name, e.Index, len(entries)-1)
		}
		if seen[e.Index] {
			return nil, fmt.Errorf("duplicate texture index %d", e.Index)
		}
		if _, ok := p.indices[e.Name]; ok {
			return nil, fmt.Errorf("duplicate texture name %q", e.Name)
		}
		uv, err := PixelToTex(e.Box, width, height)
		if err != nil {
			return nil, err
		}
		seen[e.Index] = true
		p.indices[e.Name] = e.Index
		p.textures[e.Index] = texture{name: e.Name, box: e.Box, uv: uv}
	}

	return p, nil
}

func (p *Page) String() string {
	return p.name
}

func (p *Page) Name() string { return p.name }
func (p *Page) Width() int { return p.pixels.Width }
func (p *Page) Height() int { return p.pixels.Height }
func (p *Page) ColorType() ColorType { return p.pixels.ColorType }
func (p *Page) ChannelCount() int { return p.pixels.ColorType.ChannelCount() }
func (p *Page) BytesPerPixel() int { return p.pixels.ColorType.BytesPerPixel() }
func (p *Page) Origin() Origin { return p.origin }
func (p *Page) TextureCount() int { return len(p.textures) }
func (p *Page) LenPixels() int { return p.pixels.Width * p.pixels.Height }
func (p *Page) LenBytes() int { return len(p.pixels.Pix) }

// Bytes returns the raw pixel data. For a BottomLeft page the first row is
// the bottom row of the image. The returned slice must not be modified.
func (p *Page) Bytes() []byte {
	return p.pixels.Pix
}

// TextureNames returns the texture names in index order.
func (p *Page) TextureNames() []string {
	names := make([]string, len(p.textures))
	for i, t := range p.textures {
		names[i] = t.name
	}
	return names
}

// Entries returns the textures of p in index order.
func (p *Page) Entries() []Entry {
	entries := make([]Entry, len(p.textures))
	for i, t := range p.textures {
		entries[i] = Entry{Index: i, Name: t.name, Box: t.box}
	}
	return entries
}

// IndexOf returns the index of the named texture.
func (p *Page) IndexOf(name string) (int, bool) {
	i, ok := p.indices[name]
	return i, ok
}

func (p *Page) ByIndex(i int) (PixelBoundingBox, bool) {
	if i < 0 || i >= len(p.textures) {
		return PixelBoundingBox{}, false
	}
	return p.textures[i].box, true
}

func (p *Page) ByIndexUV(i int) (TexCoordBoundingBox, bool) {
	if i < 0 || i >= len(p.textures) {
		return TexCoordBoundingBox{}, false
	}
	return p.textures[i].uv, true
}

func (p *Page) ByIndexCorners(i int) (PixelCorners, bool) {
	box, ok := p.ByIndex(i)
	if !ok {
		return PixelCorners{}, false
	}
	return box.Corners(p.origin), true
}

func (p *Page) ByIndexCornersUV(i int) (TexCoordCorners, bool) {
	box, ok := p.ByIndexUV(i)
	if !ok {
		return TexCoordCorners{}, false
	}
	return box.Corners(p.origin), true
}

func (p *Page) ByTextureName(name string) (PixelBoundingBox, bool) {
	i, ok := p.indices[name]
	if !ok {
		return PixelBoundingBox{}, false
	}
	return p.ByIndex(i)
}

func (p *Page) ByTextureNameUV(name string) (TexCoordBoundingBox, bool) {
	i, ok := p.indices[name]
	if !ok {
		return TexCoordBoundingBox{}, false
	}
	return p.ByIndexUV(i)
}

func (p *Page) ByTextureNameCorners(name string) (PixelCorners, bool) {
	i, ok := p.indices[name]
	if !ok {
		return PixelCorners{}, false
	}
	return p.ByIndexCorners(i)
}

func (p *Page) ByTextureNameCornersUV(name string) (TexCoordCorners, bool) {
	i, ok := p.indices[name]
	if !ok {
		return TexCoordCorners{}, false
	}
	return p.ByIndexCornersUV(i)
}

// PixelBuffer returns a copy of the page pixels in the stored orientation.
func (p *Page) PixelBuffer() *PixelBuffer {
	return p.pixels.Clone()
}

// topDownPixels returns a copy of the pixels with row 0 at the top of the
// image, which is the layout image codecs work with.
func (p *Page) topDownPixels() *PixelBuffer {
	pix := p.pixels.Clone()
	if p.origin == BottomLeft {
		pix.FlipRows()
	}
	return pix
}

// Image returns the page as an upright image.Image.
func (p *Page) Image() (image.Image, error) {
	return p.topDownPixels().Image()
}

// TextureImage crops the named texture out of the page.
func (p *Page) TextureImage(name string) (image.Image, error) {
	box, ok := p.ByTextureName(name)
	if !ok {
		return nil, fmt.Errorf("texture %q not found in page %q", name, p.name)
	}
	img, err := p.Image()
	if err != nil {
		return nil, err
	}

	r := p.imageRect(box).Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("texture %q lies outside page %q", name, p.name)
	}

	var dst draw.Image
	bounds := image.Rect(0, 0, r.Dx(), r.Dy())
	switch img.(type) {
	case *image.Gray:
		dst = image.NewGray(bounds)
	case *image.Gray16:
		dst = image.NewGray16(bounds)
	case *image.NRGBA64:
		dst = image.NewNRGBA64(bounds)
	default:
		dst = image.NewNRGBA(bounds)
	}
	draw.Copy(dst, image.Point{}, img, r, draw.Src, nil)
	return dst, nil
}

// imageRect converts box to the coordinates of the upright image.
func (p *Page) imageRect(box PixelBoundingBox) image.Rectangle {
	x, y := box.TopLeft.U, box.TopLeft.V
	if p.origin == BottomLeft {
		y = p.pixels.Height - 1 - y
	}
	return image.Rect(x, y, x+box.Width, y+box.Height)
}

// RGBAPixels copies an Rgba8 page into one color.NRGBA per pixel.
func (p *Page) RGBAPixels() ([]color.NRGBA, error) {
	if p.pixels.ColorType != Rgba8 {
		return nil, fmt.Errorf("page %q has %v pixels, expected %v", p.name, p.pixels.ColorType, Rgba8)
	}
	pix := p.pixels.Pix
	out := make([]color.NRGBA, 0, len(pix)/4)
	for i := 0; i+4 <= len(pix); i += 4 {
		out = append(out, color.NRGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: pix[i+3]})
	}
	return out, nil
}
