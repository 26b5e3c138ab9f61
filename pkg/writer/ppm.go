package writer

import (
	"bufio"
	"fmt"
	"io"
)

// WritePPM encodes the image as plain-text PPM: a "P3" header line, the
// dimensions, the maximum value 255, then one "r g b" line per pixel.
func WritePPM(w io.Writer, img Image) error {
	if err := img.validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height)
	for i := range img.Accumulation {
		r, g, b := img.Pixel(i)
		fmt.Fprintf(bw, "%d %d %d\n", r, g, b)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writer: ppm: %w", err)
	}
	return nil
}
