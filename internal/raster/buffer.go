package raster

import (
	"fmt"
)

// Channels per pixel: interleaved R, G, B, A at 8 bits each.
const PixelStride = 4

// PixelBuffer is the central image representation of the adjustment pipeline.
// Pix holds Width*Height*4 bytes of interleaved RGBA data. Transforms treat
// buffers as immutable: every operation allocates and returns a new buffer.
type PixelBuffer struct {
	Width  uint32
	Height uint32
	Pix    []byte
}

// New allocates a zeroed buffer of the given dimensions.
func New(width, height uint32) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, int(width)*int(height)*PixelStride),
	}
}

// NewFromPix wraps existing pixel data, enforcing the length invariant.
func NewFromPix(width, height uint32, pix []byte) (*PixelBuffer, error) {
	expected := int(width) * int(height) * PixelStride
	if len(pix) != expected {
		return nil, fmt.Errorf("pixel data length %d does not match %dx%d RGBA (want %d)",
			len(pix), width, height, expected)
	}
	return &PixelBuffer{Width: width, Height: height, Pix: pix}, nil
}

// Validate checks the buffer invariant. A nil buffer is invalid.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("pixel buffer is nil")
	}
	if b.Width == 0 || b.Height == 0 {
		return fmt.Errorf("pixel buffer has empty dimensions: %dx%d", b.Width, b.Height)
	}
	expected := int(b.Width) * int(b.Height) * PixelStride
	if len(b.Pix) != expected {
		return fmt.Errorf("pixel buffer length %d does not match %dx%d RGBA (want %d)",
			len(b.Pix), b.Width, b.Height, expected)
	}
	return nil
}

// Clone returns a deep copy that shares no memory with the receiver.
func (b *PixelBuffer) Clone() *PixelBuffer {
	out := &PixelBuffer{
		Width:  b.Width,
		Height: b.Height,
		Pix:    make([]byte, len(b.Pix)),
	}
	copy(out.Pix, b.Pix)
	return out
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (b *PixelBuffer) PixOffset(x, y int) int {
	return (y*int(b.Width) + x) * PixelStride
}

// PixelCount returns Width*Height.
func (b *PixelBuffer) PixelCount() int {
	return int(b.Width) * int(b.Height)
}

// Equal reports whether two buffers have identical dimensions and bytes.
func Equal(a, b *PixelBuffer) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Width != b.Width || a.Height != b.Height || len(a.Pix) != len(b.Pix) {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}
