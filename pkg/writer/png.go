package writer

import (
	"fmt"
	"image/png"
	"io"
)

// WritePNG encodes the image as an 8-bit PNG
func WritePNG(w io.Writer, img Image) error {
	if err := img.validate(); err != nil {
		return err
	}
	if err := png.Encode(w, img.RGBA()); err != nil {
		return fmt.Errorf("writer: png: %w", err)
	}
	return nil
}
