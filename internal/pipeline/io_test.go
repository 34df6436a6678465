package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"engrave-prep/internal/raster"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestLoaderDecodesPNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(2, 1, color.NRGBA{G: 200, B: 100, A: 255})

	loader := NewImageLoader(nil, 0)
	buf, format, err := loader.LoadFromBytes(encodePNG(t, img))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if format != "png" {
		t.Fatalf("format = %q, want png", format)
	}
	if buf.Width != 3 || buf.Height != 2 {
		t.Fatalf("dimensions = %dx%d, want 3x2", buf.Width, buf.Height)
	}

	off := buf.PixOffset(0, 0)
	if buf.Pix[off] != 255 || buf.Pix[off+1] != 0 || buf.Pix[off+2] != 0 || buf.Pix[off+3] != 255 {
		t.Fatalf("pixel (0,0) = %v, want opaque red", buf.Pix[off:off+4])
	}
	off = buf.PixOffset(2, 1)
	if buf.Pix[off] != 0 || buf.Pix[off+1] != 200 || buf.Pix[off+2] != 100 {
		t.Fatalf("pixel (2,1) = %v, want (0,200,100)", buf.Pix[off:off+4])
	}
}

func TestLoaderRejectsGarbage(t *testing.T) {
	loader := NewImageLoader(nil, 0)
	if _, _, err := loader.LoadFromBytes([]byte("not an image")); err == nil {
		t.Fatal("garbage input accepted")
	}
}

func TestLoaderDownscalesOversizedUploads(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 16))
	loader := NewImageLoader(nil, 32)

	buf, _, err := loader.LoadFromBytes(encodePNG(t, img))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if buf.Width > 32 || buf.Height > 32 {
		t.Fatalf("dimensions = %dx%d, want both within 32", buf.Width, buf.Height)
	}
	if buf.Width != 32 {
		t.Fatalf("width = %d, want the longer side fit to 32", buf.Width)
	}
}

func TestSaverRoundTripsPNG(t *testing.T) {
	src := grayRamp(4, 2, []byte{0, 40, 80, 120, 160, 200, 240, 255})
	saver := NewImageSaver(nil)

	var encoded bytes.Buffer
	if err := saver.Save(&encoded, src, "png"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loader := NewImageLoader(nil, 0)
	decoded, _, err := loader.LoadFromBytes(encoded.Bytes())
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if !raster.Equal(src, decoded) {
		t.Fatal("png round trip altered pixel data")
	}
}

func TestSaverRejectsUnknownFormat(t *testing.T) {
	saver := NewImageSaver(nil)
	src := grayRamp(1, 1, []byte{128})
	if err := saver.Save(&bytes.Buffer{}, src, "heic"); err == nil {
		t.Fatal("unsupported format accepted")
	}
}

func TestSaverEncodesJPEG(t *testing.T) {
	saver := NewImageSaver(nil)
	saver.JPEGQuality = 95
	src := grayRamp(2, 2, []byte{0, 255, 255, 0})

	var encoded bytes.Buffer
	if err := saver.Save(&encoded, src, "jpeg"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, format, err := image.Decode(bytes.NewReader(encoded.Bytes())); err != nil || format != "jpeg" {
		t.Fatalf("decode = (%q, %v), want jpeg", format, err)
	}
}
