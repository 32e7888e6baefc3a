package texatlas

import (
	"github.com/disintegration/imaging"
	"image/png"
	"io"
)

// ImageCodec turns encoded page images into pixel buffers and back. Decode
// must return rows top to bottom; a buffer with ColorUnknown signals an
// image whose pixel model has no ColorType.
type ImageCodec interface {
	Decode(r io.Reader) (*PixelBuffer, error)
	Encode(w io.Writer, pix *PixelBuffer) error
}

// PNGCodec is the default ImageCodec.
type PNGCodec struct {
	CompressionLevel png.CompressionLevel
}

func (c PNGCodec) Decode(r io.Reader) (*PixelBuffer, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, err
	}
	return NewPixelBufferFromImage(img), nil
}

func (c PNGCodec) Encode(w io.Writer, pix *PixelBuffer) error {
	img, err := pix.Image()
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(c.CompressionLevel))
}
