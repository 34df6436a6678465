package transform

import (
	"fmt"

	"engrave-prep/internal/raster"
)

// luminosity converts one RGB triple to its luminosity-weighted gray value.
// A pixel that is already gray passes through channel 0 unchanged, so repeated
// conversion is exact.
func luminosity(r, g, b byte) byte {
	if r == g && g == b {
		return r
	}
	return byte(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b) + 0.5)
}

// Grayscale converts a buffer to grayscale with the standard luminosity
// weights: gray = round(0.299 R + 0.587 G + 0.114 B). The alpha channel is
// copied unchanged and the input buffer is never modified.
func Grayscale(buf *raster.PixelBuffer) (*raster.PixelBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("grayscale: %w", err)
	}

	out := raster.New(buf.Width, buf.Height)
	width := int(buf.Width)
	forEachRow(int(buf.Height), width, func(y int) {
		i := y * width * raster.PixelStride
		for x := 0; x < width; x++ {
			gray := luminosity(buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2])
			out.Pix[i] = gray
			out.Pix[i+1] = gray
			out.Pix[i+2] = gray
			out.Pix[i+3] = buf.Pix[i+3]
			i += raster.PixelStride
		}
	})
	return out, nil
}
