package transform

import (
	"fmt"

	"engrave-prep/internal/raster"
)

// CalculateOptimalThreshold computes the Otsu threshold of a buffer: the value
// t in [0,255] that maximizes the between-class variance
//
//	sigma²(t) = w0·w1·(mu0 − mu1)²
//
// where class 0 holds gray values below t and class 1 the rest. Ties are
// broken toward the lowest t. The function only computes a value; it never
// binarizes or otherwise touches the buffer, so the caller can keep the
// un-thresholded image around and re-binarize at any user-chosen level.
//
// A uniform (single gray value) image has zero variance for every candidate;
// the populated level itself is returned, so all-black yields 0 and all-white
// yields 255, with no division by zero on the empty classes.
func CalculateOptimalThreshold(buf *raster.PixelBuffer) (int, error) {
	if err := buf.Validate(); err != nil {
		return 0, fmt.Errorf("otsu: %w", err)
	}

	hist := grayHistogram(buf)
	total := buf.PixelCount()

	sumAll := 0.0
	for v := 0; v < 256; v++ {
		sumAll += float64(v) * float64(hist[v])
	}

	var (
		weight0   float64
		sum0      float64
		bestT     = 0
		bestSigma = 0.0
	)
	for t := 0; t < 256; t++ {
		if t > 0 {
			weight0 += float64(hist[t-1])
			sum0 += float64(t-1) * float64(hist[t-1])
		}
		weight1 := float64(total) - weight0
		if weight0 == 0 || weight1 == 0 {
			continue
		}
		mean0 := sum0 / weight0
		mean1 := (sumAll - sum0) / weight1
		diff := mean0 - mean1
		sigma := weight0 * weight1 * diff * diff
		if sigma > bestSigma {
			bestSigma = sigma
			bestT = t
		}
	}

	if bestSigma == 0 {
		// uniform image: report the single populated level
		for v := 0; v < 256; v++ {
			if hist[v] > 0 {
				return v, nil
			}
		}
	}
	return bestT, nil
}
