package transform

import (
	"fmt"
	"math"

	"engrave-prep/internal/models"
	"engrave-prep/internal/raster"
)

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// ApplyBrightness shifts every RGB channel by b and clamps to [0,255]. The
// alpha channel is untouched. b=0 still allocates a fresh copy so the purity
// contract holds uniformly.
func ApplyBrightness(buf *raster.PixelBuffer, b int) (*raster.PixelBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("brightness: %w", err)
	}
	if b < models.BrightnessMin || b > models.BrightnessMax {
		return nil, models.NewValidationError("brightness", b, "must be between -100 and 100")
	}

	out := raster.New(buf.Width, buf.Height)
	width := int(buf.Width)
	forEachRow(int(buf.Height), width, func(y int) {
		i := y * width * raster.PixelStride
		for x := 0; x < width; x++ {
			out.Pix[i] = clampByte(int(buf.Pix[i]) + b)
			out.Pix[i+1] = clampByte(int(buf.Pix[i+1]) + b)
			out.Pix[i+2] = clampByte(int(buf.Pix[i+2]) + b)
			out.Pix[i+3] = buf.Pix[i+3]
			i += raster.PixelStride
		}
	})
	return out, nil
}

// ApplyContrast scales every RGB channel around the mid-gray pivot 128. The
// slope grows monotonically with c and c=0 is the identity mapping.
func ApplyContrast(buf *raster.PixelBuffer, c int) (*raster.PixelBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("contrast: %w", err)
	}
	if c < models.ContrastMin || c > models.ContrastMax {
		return nil, models.NewValidationError("contrast", c, "must be between -100 and 100")
	}

	// classic contrast factor over the [-255,255] domain
	cv := float64(c) * 255.0 / 100.0
	factor := 259.0 * (cv + 255.0) / (255.0 * (259.0 - cv))

	var lut [256]byte
	for v := 0; v < 256; v++ {
		lut[v] = clampByte(int(math.Round(factor*(float64(v)-128.0) + 128.0)))
	}

	out := raster.New(buf.Width, buf.Height)
	width := int(buf.Width)
	forEachRow(int(buf.Height), width, func(y int) {
		i := y * width * raster.PixelStride
		for x := 0; x < width; x++ {
			out.Pix[i] = lut[buf.Pix[i]]
			out.Pix[i+1] = lut[buf.Pix[i+1]]
			out.Pix[i+2] = lut[buf.Pix[i+2]]
			out.Pix[i+3] = buf.Pix[i+3]
			i += raster.PixelStride
		}
	})
	return out, nil
}

// ApplyThreshold binarizes the buffer at t in a single traversal: each pixel's
// luminosity-weighted gray is computed inline and mapped to pure black when
// gray < t, pure white otherwise. Alpha is untouched. This runs on every
// committed slider change, so it must stay a single traversal; a separate
// grayscale pass doubles the per-adjustment cost.
func ApplyThreshold(buf *raster.PixelBuffer, t int) (*raster.PixelBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("threshold: %w", err)
	}
	if t < models.ThresholdMin || t > models.ThresholdMax {
		return nil, models.NewValidationError("threshold", t, "must be between 0 and 255")
	}

	out := raster.New(buf.Width, buf.Height)
	width := int(buf.Width)
	limit := byte(t)
	forEachRow(int(buf.Height), width, func(y int) {
		i := y * width * raster.PixelStride
		for x := 0; x < width; x++ {
			var value byte
			if gray := luminosity(buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2]); gray >= limit {
				value = 255
			}
			out.Pix[i] = value
			out.Pix[i+1] = value
			out.Pix[i+2] = value
			out.Pix[i+3] = buf.Pix[i+3]
			i += raster.PixelStride
		}
	})
	return out, nil
}
