package texatlas

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestColorTypeLayout(t *testing.T) {
	tests := []struct {
		ct       ColorType
		channels int
		bytes    int
	}{
		{L8, 1, 1},
		{La8, 2, 2},
		{Rgb8, 3, 3},
		{Rgba8, 4, 4},
		{L16, 1, 2},
		{La16, 2, 4},
		{Rgb16, 3, 6},
		{Rgba16, 4, 8},
		{Bgr8, 3, 3},
		{Bgra8, 4, 4},
		{Rgb32F, 3, 12},
		{Rgba32F, 4, 16},
	}
	for _, tt := range tests {
		t.Run(tt.ct.String(), func(t *testing.T) {
			assert.True(t, tt.ct.Valid())
			assert.Equal(t, tt.channels, tt.ct.ChannelCount())
			assert.Equal(t, tt.bytes, tt.ct.BytesPerPixel())
			assert.Equal(t, 8*tt.bytes, tt.ct.BitsPerPixel())
			assert.Equal(t, tt.ct == Rgb32F || tt.ct == Rgba32F, tt.ct.IsFloat())
		})
	}
}

func TestColorTypeUnknown(t *testing.T) {
	assert.False(t, ColorUnknown.Valid())
	assert.False(t, ColorType(200).Valid())
	assert.Equal(t, 0, ColorUnknown.BytesPerPixel())
	assert.Equal(t, "ColorType(200)", ColorType(200).String())

	_, err := ColorUnknown.MarshalText()
	assert.Error(t, err)
}

func TestColorTypeText(t *testing.T) {
	for ct := L8; ct <= Rgba32F; ct++ {
		text, err := ct.MarshalText()
		require.NoError(t, err)

		var got ColorType
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, ct, got)
	}

	var ct ColorType
	assert.Error(t, ct.UnmarshalText([]byte("Unknown")))
	assert.Error(t, ct.UnmarshalText([]byte("rgba8")))
}
