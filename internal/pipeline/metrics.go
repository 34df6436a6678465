package pipeline

import (
	"engrave-prep/internal/raster"
)

// BinarizationStats summarizes a recomputed output buffer. Engraving time is
// driven by the black-pixel count, so the ratio is worth surfacing after
// every committed adjustment.
type BinarizationStats struct {
	TotalPixels int
	BlackPixels int
	WhitePixels int
	BlackRatio  float64
}

// MeasureBinarization counts black and white pixels of a binarized buffer.
// Pixels that are neither pure black nor pure white (possible only on
// non-binarized input) are counted in the total alone.
func MeasureBinarization(buf *raster.PixelBuffer) BinarizationStats {
	stats := BinarizationStats{}
	if buf == nil {
		return stats
	}
	stats.TotalPixels = buf.PixelCount()
	for i := 0; i < len(buf.Pix); i += raster.PixelStride {
		switch buf.Pix[i] {
		case 0:
			stats.BlackPixels++
		case 255:
			stats.WhitePixels++
		}
	}
	if stats.TotalPixels > 0 {
		stats.BlackRatio = float64(stats.BlackPixels) / float64(stats.TotalPixels)
	}
	return stats
}
