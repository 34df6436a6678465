package transform

import (
	"testing"

	"engrave-prep/internal/raster"
)

func makeSolid(w, h uint32, r, g, b, a byte) *raster.PixelBuffer {
	buf := raster.New(w, h)
	for i := 0; i < len(buf.Pix); i += raster.PixelStride {
		buf.Pix[i] = r
		buf.Pix[i+1] = g
		buf.Pix[i+2] = b
		buf.Pix[i+3] = a
	}
	return buf
}

// setPixel writes one RGBA pixel; alpha defaults to opaque in these fixtures.
func setPixel(buf *raster.PixelBuffer, x, y int, r, g, b byte) {
	i := buf.PixOffset(x, y)
	buf.Pix[i] = r
	buf.Pix[i+1] = g
	buf.Pix[i+2] = b
	buf.Pix[i+3] = 255
}

func TestGrayscaleWeights(t *testing.T) {
	cases := []struct {
		r, g, b byte
		want    byte
	}{
		{255, 0, 0, 76},    // round(0.299*255)
		{0, 255, 0, 150},   // round(0.587*255)
		{0, 0, 255, 29},    // round(0.114*255)
		{255, 255, 255, 255},
		{0, 0, 0, 0},
		{100, 150, 200, 141}, // 29.9 + 88.05 + 22.8 = 140.75
	}
	for _, tc := range cases {
		src := makeSolid(2, 2, tc.r, tc.g, tc.b, 200)
		out, err := Grayscale(src)
		if err != nil {
			t.Fatalf("Grayscale failed: %v", err)
		}
		for i := 0; i < len(out.Pix); i += raster.PixelStride {
			if out.Pix[i] != tc.want || out.Pix[i+1] != tc.want || out.Pix[i+2] != tc.want {
				t.Fatalf("rgb(%d,%d,%d): gray = (%d,%d,%d), want %d",
					tc.r, tc.g, tc.b, out.Pix[i], out.Pix[i+1], out.Pix[i+2], tc.want)
			}
			if out.Pix[i+3] != 200 {
				t.Fatalf("alpha changed: %d", out.Pix[i+3])
			}
		}
	}
}

func TestGrayscaleDoesNotMutateInput(t *testing.T) {
	src := makeSolid(4, 4, 10, 120, 230, 255)
	before := src.Clone()
	if _, err := Grayscale(src); err != nil {
		t.Fatalf("Grayscale failed: %v", err)
	}
	if !raster.Equal(src, before) {
		t.Fatalf("input buffer was mutated")
	}
}

func TestGrayscaleRejectsInvalidBuffer(t *testing.T) {
	if _, err := Grayscale(nil); err == nil {
		t.Fatalf("expected error for nil buffer")
	}
	broken := &raster.PixelBuffer{Width: 2, Height: 2, Pix: make([]byte, 3)}
	if _, err := Grayscale(broken); err == nil {
		t.Fatalf("expected error for malformed buffer")
	}
}
