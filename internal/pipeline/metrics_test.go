package pipeline

import (
	"testing"
)

func TestMeasureBinarizationCounts(t *testing.T) {
	buf := grayRamp(4, 1, []byte{0, 0, 255, 0})

	stats := MeasureBinarization(buf)
	if stats.TotalPixels != 4 {
		t.Fatalf("total = %d, want 4", stats.TotalPixels)
	}
	if stats.BlackPixels != 3 || stats.WhitePixels != 1 {
		t.Fatalf("black/white = %d/%d, want 3/1", stats.BlackPixels, stats.WhitePixels)
	}
	if stats.BlackRatio != 0.75 {
		t.Fatalf("ratio = %v, want 0.75", stats.BlackRatio)
	}
}

func TestMeasureBinarizationNilAndGrayInput(t *testing.T) {
	if stats := MeasureBinarization(nil); stats.TotalPixels != 0 || stats.BlackRatio != 0 {
		t.Fatalf("nil buffer stats = %+v, want zeros", stats)
	}

	// Mid-gray pixels count toward the total only.
	buf := grayRamp(2, 1, []byte{128, 255})
	stats := MeasureBinarization(buf)
	if stats.TotalPixels != 2 || stats.BlackPixels != 0 || stats.WhitePixels != 1 {
		t.Fatalf("stats = %+v, want total 2 black 0 white 1", stats)
	}
}
