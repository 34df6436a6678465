package transform

import (
	"fmt"

	"engrave-prep/internal/models"
	"engrave-prep/internal/raster"
)

// background pixels are blanked to white so the engraver skips them
const backgroundIgnoreValue = 255

// RemoveBackground blanks the background of a buffer: the connected regions
// reachable from the image border whose gray value lies within sensitivity of
// the dominant border gray are set to the ignore value (white), alpha kept.
// Foreground bytes pass through unchanged.
//
// The heuristic is a 4-connected flood fill seeded at every border pixel. The
// reference gray is the most frequent gray value along the border, ties broken
// toward the lowest value, so the result is fully deterministic.
func RemoveBackground(buf *raster.PixelBuffer, sensitivity int) (*raster.PixelBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("background removal: %w", err)
	}
	if sensitivity < models.ThresholdMin || sensitivity > models.ThresholdMax {
		return nil, models.NewValidationError("background_removal_sensitivity", sensitivity,
			"must be between 0 and 255")
	}

	width := int(buf.Width)
	height := int(buf.Height)

	gray := make([]byte, width*height)
	forEachRow(height, width, func(y int) {
		i := y * width * raster.PixelStride
		for x := 0; x < width; x++ {
			gray[y*width+x] = luminosity(buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2])
			i += raster.PixelStride
		}
	})

	reference := dominantBorderGray(gray, width, height)

	matches := func(idx int) bool {
		d := int(gray[idx]) - int(reference)
		if d < 0 {
			d = -d
		}
		return d <= sensitivity
	}

	// flood fill from the border; visited doubles as the background mask
	visited := make([]bool, width*height)
	queue := make([]int, 0, 2*(width+height))
	seed := func(idx int) {
		if !visited[idx] && matches(idx) {
			visited[idx] = true
			queue = append(queue, idx)
		}
	}
	for x := 0; x < width; x++ {
		seed(x)
		seed((height-1)*width + x)
	}
	for y := 0; y < height; y++ {
		seed(y * width)
		seed(y*width + width - 1)
	}

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		x := idx % width
		y := idx / width
		if x > 0 {
			seed(idx - 1)
		}
		if x < width-1 {
			seed(idx + 1)
		}
		if y > 0 {
			seed(idx - width)
		}
		if y < height-1 {
			seed(idx + width)
		}
	}

	out := buf.Clone()
	for idx, isBackground := range visited {
		if !isBackground {
			continue
		}
		i := idx * raster.PixelStride
		out.Pix[i] = backgroundIgnoreValue
		out.Pix[i+1] = backgroundIgnoreValue
		out.Pix[i+2] = backgroundIgnoreValue
	}
	return out, nil
}

// dominantBorderGray returns the most frequent gray value among the border
// pixels, lowest value winning ties.
func dominantBorderGray(gray []byte, width, height int) byte {
	var hist [256]int
	for x := 0; x < width; x++ {
		hist[gray[x]]++
		if height > 1 {
			hist[gray[(height-1)*width+x]]++
		}
	}
	for y := 1; y < height-1; y++ {
		hist[gray[y*width]]++
		if width > 1 {
			hist[gray[y*width+width-1]]++
		}
	}

	best := 0
	for v := 1; v < 256; v++ {
		if hist[v] > hist[best] {
			best = v
		}
	}
	return byte(best)
}
