package raster

import (
	"testing"
)

func TestNewFromPixLengthInvariant(t *testing.T) {
	pix := make([]byte, 2*2*4)
	buf, err := NewFromPix(2, 2, pix)
	if err != nil {
		t.Fatalf("NewFromPix returned error for valid data: %v", err)
	}
	if err := buf.Validate(); err != nil {
		t.Fatalf("Validate failed for valid buffer: %v", err)
	}

	if _, err := NewFromPix(2, 2, make([]byte, 15)); err == nil {
		t.Fatalf("expected error for mismatched pixel data length")
	}
}

func TestValidateRejectsEmptyAndNil(t *testing.T) {
	var nilBuf *PixelBuffer
	if err := nilBuf.Validate(); err == nil {
		t.Fatalf("expected error for nil buffer")
	}
	zero := &PixelBuffer{Width: 0, Height: 4, Pix: nil}
	if err := zero.Validate(); err == nil {
		t.Fatalf("expected error for zero-width buffer")
	}
}

func TestCloneSharesNoMemory(t *testing.T) {
	src := New(3, 2)
	for i := range src.Pix {
		src.Pix[i] = byte(i)
	}
	dst := src.Clone()
	if !Equal(src, dst) {
		t.Fatalf("clone differs from source")
	}
	dst.Pix[0] = 99
	if src.Pix[0] == 99 {
		t.Fatalf("clone shares memory with source")
	}
}

func TestPixOffset(t *testing.T) {
	buf := New(10, 5)
	if got := buf.PixOffset(0, 0); got != 0 {
		t.Fatalf("PixOffset(0,0) = %d, want 0", got)
	}
	if got := buf.PixOffset(3, 2); got != (2*10+3)*4 {
		t.Fatalf("PixOffset(3,2) = %d, want %d", got, (2*10+3)*4)
	}
}
