package transform

import (
	"fmt"
	"math"

	"engrave-prep/internal/raster"
)

// grayHistogram builds a 256-bin histogram of the buffer's gray values.
// Grayscale input reads channel 0 directly; color input is weighted inline.
func grayHistogram(buf *raster.PixelBuffer) [256]int {
	var hist [256]int
	for i := 0; i < len(buf.Pix); i += raster.PixelStride {
		hist[luminosity(buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2])]++
	}
	return hist
}

// Equalize redistributes gray intensities through the cumulative distribution
// function so the output spans the full [0,255] range: the lowest populated
// gray level maps to 0 and the highest to 255. A single-valued histogram has
// nothing to redistribute and returns an exact copy of the input.
func Equalize(buf *raster.PixelBuffer) (*raster.PixelBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("equalize: %w", err)
	}

	hist := grayHistogram(buf)
	total := buf.PixelCount()

	var cdf [256]int
	running := 0
	for v := 0; v < 256; v++ {
		running += hist[v]
		cdf[v] = running
	}

	// cdfMin is the CDF at the lowest populated gray level.
	cdfMin := 0
	for v := 0; v < 256; v++ {
		if hist[v] > 0 {
			cdfMin = cdf[v]
			break
		}
	}
	if cdfMin == total {
		// flat histogram: remapping would divide by zero, and there is no
		// contrast to spread anyway
		return buf.Clone(), nil
	}

	var lut [256]byte
	scale := 255.0 / float64(total-cdfMin)
	for v := 0; v < 256; v++ {
		mapped := math.Round(float64(cdf[v]-cdfMin) * scale)
		lut[v] = byte(mapped)
	}

	out := raster.New(buf.Width, buf.Height)
	width := int(buf.Width)
	forEachRow(int(buf.Height), width, func(y int) {
		i := y * width * raster.PixelStride
		for x := 0; x < width; x++ {
			gray := lut[luminosity(buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2])]
			out.Pix[i] = gray
			out.Pix[i+1] = gray
			out.Pix[i+2] = gray
			out.Pix[i+3] = buf.Pix[i+3]
			i += raster.PixelStride
		}
	})
	return out, nil
}
