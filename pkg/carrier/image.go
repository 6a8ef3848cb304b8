package carrier

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // accepted as input; output is always lossless PNG
	"image/png"
	"os"
)

// ImageCarrier exposes the RGB planes of an image as the engine's
// sample buffer: one pixel per 3-byte sample. Alpha is carried through
// untouched.
type ImageCarrier struct {
	pixels *image.NRGBA
	buf    []byte
}

// NewImageCarrier wraps an in-memory image.
func NewImageCarrier(img image.Image) *ImageCarrier {
	bounds := img.Bounds()
	pixels := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(pixels, pixels.Bounds(), img, bounds.Min, draw.Src)

	c := &ImageCarrier{
		pixels: pixels,
		buf:    make([]byte, bounds.Dx()*bounds.Dy()*3),
	}
	i := 0
	for p := 0; p < len(pixels.Pix); p += 4 {
		c.buf[i] = pixels.Pix[p]
		c.buf[i+1] = pixels.Pix[p+1]
		c.buf[i+2] = pixels.Pix[p+2]
		i += 3
	}
	return c
}

// LoadImage reads a PNG or JPEG cover file.
func LoadImage(path string) (*ImageCarrier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cover image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover image: %w", err)
	}
	return NewImageCarrier(img), nil
}

func (c *ImageCarrier) Bytes() []byte { return c.buf }

func (c *ImageCarrier) BytesPerSample() int { return 3 }

// Save folds the sample buffer back into the pixel data and writes a
// PNG.
func (c *ImageCarrier) Save(path string) error {
	i := 0
	for p := 0; p < len(c.pixels.Pix); p += 4 {
		c.pixels.Pix[p] = c.buf[i]
		c.pixels.Pix[p+1] = c.buf[i+1]
		c.pixels.Pix[p+2] = c.buf[i+2]
		i += 3
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output image: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, c.pixels); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
