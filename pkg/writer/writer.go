package writer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-smallpaint/pkg/core"
)

var (
	// ErrDimensionMismatch is returned when the buffer does not hold width*height pixels
	ErrDimensionMismatch = errors.New("writer: accumulation size does not match dimensions")
	// ErrUnsupportedFormat is returned for file extensions without an encoder
	ErrUnsupportedFormat = errors.New("writer: unsupported image format")
)

// Image is an accumulation buffer in row-major order together with the
// number of samples summed into each pixel
type Image struct {
	Width, Height int
	Accumulation  []core.Vec3
	Samples       uint64
}

func (img Image) validate() error {
	if img.Width < 0 || img.Height < 0 || len(img.Accumulation) != img.Width*img.Height {
		return fmt.Errorf("%w: %dx%d with %d pixels", ErrDimensionMismatch, img.Width, img.Height, len(img.Accumulation))
	}
	return nil
}

// Pixel returns the 8-bit channels of pixel i. Each channel is the mean
// radiance clamped to [0, 255]; every channel is zero before the first sample.
func (img Image) Pixel(i int) (r, g, b uint8) {
	if img.Samples == 0 {
		return 0, 0, 0
	}
	mean := img.Accumulation[i].Multiply(1/float64(img.Samples)).Clamp(0, 255)
	return channel(mean.X), channel(mean.Y), channel(mean.Z)
}

// channel truncates a clamped value to 8 bits. NaN maps to zero.
func channel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(v)
}

// RGBA converts the image for encoders of the image package
func (img Image) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b := img.Pixel(y*img.Width + x)
			out.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return out
}

// Save writes the image to path, choosing the encoder from the extension
func Save(path string, img Image) error {
	var encode func(f *os.File, img Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		encode = func(f *os.File, img Image) error { return WritePPM(f, img) }
	case ".png":
		encode = func(f *os.File, img Image) error { return WritePNG(f, img) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("writer: creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
