package texatlas

import (
	"bytes"
	"github.com/disintegration/imaging"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"image"
	"image/color"
	"io"
	"testing"
)

var (
	colorRed   = RGBAFromUint32(0xFF0000FF)
	colorGreen = RGBAFromUint32(0x00FF00FF)
	colorBlue  = RGBAFromUint32(0x0000FFFF)
	colorBlack = RGBAFromUint32(0x000000FF)
)

// samplePixels is a 16x16 Rgba8 buffer stored bottom row first. The upper
// half of the image is red and green, the lower half blue and black.
func samplePixels() []byte {
	pix := make([]byte, 0, 16*16*4)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			var c color.NRGBA
			switch {
			case y < 8 && x < 8:
				c = colorBlue
			case y < 8:
				c = colorBlack
			case x < 8:
				c = colorRed
			default:
				c = colorGreen
			}
			pix = append(pix, c.R, c.G, c.B, c.A)
		}
	}
	return pix
}

func sampleEntries() []Entry {
	return []Entry{
		{Index: 0, Name: "red", Box: PixelBoundingBox{TopLeft: PixelOffset{U: 0, V: 15}, Width: 8, Height: 8}},
		{Index: 1, Name: "green", Box: PixelBoundingBox{TopLeft: PixelOffset{U: 8, V: 15}, Width: 8, Height: 8}},
		{Index: 2, Name: "blue", Box: PixelBoundingBox{TopLeft: PixelOffset{U: 0, V: 7}, Width: 8, Height: 8}},
		{Index: 3, Name: "black", Box: PixelBoundingBox{TopLeft: PixelOffset{U: 8, V: 7}, Width: 8, Height: 8}},
	}
}

func newSamplePage(t *testing.T, name string) *Page {
	t.Helper()
	p, err := NewPage(16, 16, Rgba8, BottomLeft, sampleEntries(), name, samplePixels())
	require.NoError(t, err)
	return p
}

func newSampleAtlas(t *testing.T) *MultiPageAtlas {
	t.Helper()
	a, err := NewMultiPageAtlas([]*Page{newSamplePage(t, "atlas")})
	require.NoError(t, err)
	return a
}

// patternPage builds a TopLeft page whose bytes count up from seed, with a
// single texture covering the whole page.
func patternPage(t *testing.T, name string, ct ColorType, width, height int, seed byte) *Page {
	t.Helper()
	data := make([]byte, width*height*ct.BytesPerPixel())
	for i := range data {
		data[i] = seed + byte(i*7)
	}
	entries := []Entry{{Index: 0, Name: "all", Box: PixelBoundingBox{Width: width, Height: height}}}
	p, err := NewPage(width, height, ct, TopLeft, entries, name, data)
	require.NoError(t, err)
	return p
}

type zipEntry struct {
	name string
	data []byte
}

func buildArchive(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write(e.data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func archiveNames(t *testing.T, b []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}
	return names
}

func mustEncode(t *testing.T, img image.Image, format imaging.Format) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func solidImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

const twoByTwoJSON = `{
  "origin": "TopLeft",
  "coordinate_charts": {
    "0": {"name": "all", "bounding_box": {"top_left": {"u": 0, "v": 0}, "width": 2, "height": 2}}
  }
}`

// stubCodec hands out a fixed buffer or error instead of touching PNG data.
type stubCodec struct {
	decoded *PixelBuffer
	err     error
}

func (c stubCodec) Decode(io.Reader) (*PixelBuffer, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.decoded.Clone(), nil
}

func (c stubCodec) Encode(io.Writer, *PixelBuffer) error {
	return c.err
}
