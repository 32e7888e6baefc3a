package texatlas

import (
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"image"
	"image/color"
	"testing"
)

func TestPageDimensions(t *testing.T) {
	p := newSamplePage(t, "atlas")

	assert.Equal(t, "atlas", p.Name())
	assert.Equal(t, 16, p.Width())
	assert.Equal(t, 16, p.Height())
	assert.Equal(t, Rgba8, p.ColorType())
	assert.Equal(t, 4, p.ChannelCount())
	assert.Equal(t, 4, p.BytesPerPixel())
	assert.Equal(t, BottomLeft, p.Origin())
	assert.Equal(t, 4, p.TextureCount())
	assert.Equal(t, p.Width()*p.Height(), p.LenPixels())
	assert.Equal(t, p.Width()*p.Height()*p.BytesPerPixel(), p.LenBytes())
	assert.Equal(t, samplePixels(), p.Bytes())
}

func TestPageNameIndexAgreement(t *testing.T) {
	p := newSamplePage(t, "atlas")

	assert.Equal(t, []string{"red", "green", "blue", "black"}, p.TextureNames())
	for i, name := range p.TextureNames() {
		idx, ok := p.IndexOf(name)
		require.True(t, ok, name)
		assert.Equal(t, i, idx)

		byName, ok := p.ByTextureName(name)
		require.True(t, ok)
		byIndex, ok := p.ByIndex(i)
		require.True(t, ok)
		assert.Equal(t, byIndex, byName)

		uvByName, ok := p.ByTextureNameUV(name)
		require.True(t, ok)
		uvByIndex, ok := p.ByIndexUV(i)
		require.True(t, ok)
		assert.Equal(t, uvByIndex, uvByName)

		want, err := PixelToTex(byIndex, p.Width(), p.Height())
		require.NoError(t, err)
		assert.Equal(t, want, uvByIndex)
	}

	if d := cmp.Diff(sampleEntries(), p.Entries()); d != "" {
		t.Errorf("Entries mismatch (-want +got):\n%s", d)
	}
}

func TestPageQueries(t *testing.T) {
	p := newSamplePage(t, "atlas")

	uv, ok := p.ByTextureNameUV("red")
	require.True(t, ok)
	assert.Equal(t, TexCoordOffset{U: 0, V: 0.9375}, uv.TopLeft)
	assert.Equal(t, float32(0.5), uv.Width)
	assert.Equal(t, float32(0.5), uv.Height)

	corners, ok := p.ByTextureNameCorners("green")
	require.True(t, ok)
	want := PixelCorners{
		TopLeft:     PixelOffset{U: 8, V: 15},
		TopRight:    PixelOffset{U: 16, V: 15},
		BottomLeft:  PixelOffset{U: 8, V: 7},
		BottomRight: PixelOffset{U: 16, V: 7},
	}
	if d := cmp.Diff(want, corners); d != "" {
		t.Errorf("ByTextureNameCorners mismatch (-want +got):\n%s", d)
	}
	byIndex, ok := p.ByIndexCorners(1)
	require.True(t, ok)
	assert.Equal(t, corners, byIndex)

	uvCorners, ok := p.ByTextureNameCornersUV("blue")
	require.True(t, ok)
	assert.Equal(t, TexCoordOffset{U: 0.5, V: 0.4375}, uvCorners.TopRight)
	assert.Equal(t, TexCoordOffset{U: 0, V: -0.0625}, uvCorners.BottomLeft)
	uvByIndex, ok := p.ByIndexCornersUV(2)
	require.True(t, ok)
	assert.Equal(t, uvCorners, uvByIndex)
}

func TestPageMissingKeys(t *testing.T) {
	p := newSamplePage(t, "atlas")

	_, ok := p.ByTextureName("purple")
	assert.False(t, ok)
	_, ok = p.ByTextureNameUV("purple")
	assert.False(t, ok)
	_, ok = p.ByTextureNameCorners("purple")
	assert.False(t, ok)
	_, ok = p.ByTextureNameCornersUV("purple")
	assert.False(t, ok)
	_, ok = p.IndexOf("purple")
	assert.False(t, ok)

	for _, i := range []int{-1, 4, 100} {
		_, ok = p.ByIndex(i)
		assert.False(t, ok, i)
		_, ok = p.ByIndexUV(i)
		assert.False(t, ok, i)
		_, ok = p.ByIndexCorners(i)
		assert.False(t, ok, i)
		_, ok = p.ByIndexCornersUV(i)
		assert.False(t, ok, i)
	}
}

func TestNewPageErrors(t *testing.T) {
	box := PixelBoundingBox{Width: 1, Height: 1}

	tests := []struct {
		name    string
		width   int
		height  int
		ct      ColorType
		origin  Origin
		entries []Entry
		data    []byte
	}{
		{
			name:   "short buffer",
			width:  2,
			height: 2,
			ct:     Rgba8,
			data:   make([]byte, 15),
		},
		{
			name:   "long buffer",
			width:  2,
			height: 2,
			ct:     L8,
			data:   make([]byte, 5),
		},
		{
			name:   "zero width",
			width:  0,
			height: 2,
			ct:     L8,
		},
		{
			name:   "unknown color type",
			width:  1,
			height: 1,
			ct:     ColorUnknown,
			data:   make([]byte, 1),
		},
		{
			name:   "invalid origin",
			width:  1,
			height: 1,
			ct:     L8,
			origin: Origin(9),
			data:   make([]byte, 1),
		},
		{
			name:    "duplicate name",
			width:   1,
			height:  1,
			ct:      L8,
			entries: []Entry{{Index: 0, Name: "a", Box: box}, {Index: 1, Name: "a", Box: box}},
			data:    make([]byte, 1),
		},
		{
			name:    "duplicate index",
			width:   1,
			height:  1,
			ct:      L8,
			entries: []Entry{{Index: 0, Name: "a", Box: box}, {Index: 0, Name: "b", Box: box}},
			data:    make([]byte, 1),
		},
		{
			name:    "index out of range",
			width:   1,
			height:  1,
			ct:      L8,
			entries: []Entry{{Index: 0, Name: "a", Box: box}, {Index: 2, Name: "b", Box: box}},
			data:    make([]byte, 1),
		},
		{
			name:    "negative index",
			width:   1,
			height:  1,
			ct:      L8,
			entries: []Entry{{Index: -1, Name: "a", Box: box}},
			data:    make([]byte, 1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPage(tt.width, tt.height, tt.ct, tt.origin, tt.entries, "page", tt.data)
			assert.Error(t, err)
		})
	}
}

func TestNewPageUnorderedEntries(t *testing.T) {
	entries := sampleEntries()
	entries[0], entries[3] = entries[3], entries[0]

	p, err := NewPage(16, 16, Rgba8, BottomLeft, entries, "atlas", samplePixels())
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "green", "blue", "black"}, p.TextureNames())
}

func TestPageEmpty(t *testing.T) {
	p, err := NewPage(2, 2, L8, TopLeft, nil, "empty", make([]byte, 4))
	require.NoError(t, err)
	assert.Zero(t, p.TextureCount())
	assert.Empty(t, p.TextureNames())
	_, ok := p.ByIndex(0)
	assert.False(t, ok)
}

func TestPagePixelBufferIsCopy(t *testing.T) {
	p := newSamplePage(t, "atlas")

	pix := p.PixelBuffer()
	require.Equal(t, p.Bytes(), pix.Pix)
	pix.Pix[0] = 42
	assert.NotEqual(t, byte(42), p.Bytes()[0])
}

func TestPageImageIsUpright(t *testing.T) {
	p := newSamplePage(t, "atlas")

	img, err := p.Image()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
	assert.Equal(t, colorRed, img.At(0, 0))
	assert.Equal(t, colorGreen, img.At(15, 0))
	assert.Equal(t, colorBlue, img.At(0, 15))
	assert.Equal(t, colorBlack, img.At(15, 15))
}

func TestPageTextureImage(t *testing.T) {
	p := newSamplePage(t, "atlas")

	for name, want := range map[string]color.NRGBA{
		"red":   colorRed,
		"green": colorGreen,
		"blue":  colorBlue,
		"black": colorBlack,
	} {
		t.Run(name, func(t *testing.T) {
			img, err := p.TextureImage(name)
			require.NoError(t, err)
			require.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					if got := img.At(x, y); got != want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}

	_, err := p.TextureImage("purple")
	assert.Error(t, err)
}

func TestPageTextureImageTopLeft(t *testing.T) {
	data := []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
	}
	entries := []Entry{{Index: 0, Name: "right", Box: PixelBoundingBox{TopLeft: PixelOffset{U: 2, V: 0}, Width: 2, Height: 2}}}
	p, err := NewPage(4, 2, L8, TopLeft, entries, "gray", data)
	require.NoError(t, err)

	img, err := p.TextureImage("right")
	require.NoError(t, err)
	require.IsType(t, &image.Gray{}, img)
	assert.Equal(t, []byte{3, 4, 7, 8}, img.(*image.Gray).Pix)
}

func TestPageRGBAPixels(t *testing.T) {
	p := newSamplePage(t, "atlas")

	pixels, err := p.RGBAPixels()
	require.NoError(t, err)
	require.Len(t, pixels, p.LenPixels())
	assert.Equal(t, colorBlue, pixels[0])
	assert.Equal(t, colorBlack, pixels[15])
	assert.Equal(t, colorRed, pixels[8*16])
	assert.Equal(t, colorGreen, pixels[16*16-1])

	gray := patternPage(t, "gray", L8, 2, 2, 0)
	_, err = gray.RGBAPixels()
	assert.Error(t, err)
}
