package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"engrave-prep/internal/logger"
	"engrave-prep/internal/raster"
)

// ImageLoader decodes an uploaded image into a PixelBuffer. It stands in for
// the UI's upload collaborator: format handling ends here, the core pipeline
// only ever sees RGBA bytes.
type ImageLoader struct {
	log logger.Logger

	// MaxDimension, when positive, bounds the longer image side; larger
	// uploads are downscaled with Lanczos resampling before the baseline
	// is computed.
	MaxDimension int
}

func NewImageLoader(log logger.Logger, maxDimension int) *ImageLoader {
	if log == nil {
		log = logger.Noop{}
	}
	return &ImageLoader{log: log, MaxDimension: maxDimension}
}

// LoadFromReader decodes png, jpeg, gif, bmp, tiff or webp data.
func (l *ImageLoader) LoadFromReader(reader io.Reader) (*raster.PixelBuffer, string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	return l.LoadFromBytes(data)
}

// LoadFromBytes decodes in-memory image data.
func (l *ImageLoader) LoadFromBytes(data []byte) (*raster.PixelBuffer, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	l.log.Debug("ImageLoader", "image decoded", map[string]interface{}{
		"format": format,
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
	})

	if l.MaxDimension > 0 && (bounds.Dx() > l.MaxDimension || bounds.Dy() > l.MaxDimension) {
		img = imaging.Fit(img, l.MaxDimension, l.MaxDimension, imaging.Lanczos)
		bounds = img.Bounds()
		l.log.Info("ImageLoader", "oversized upload downscaled", map[string]interface{}{
			"max_dimension": l.MaxDimension,
			"width":         bounds.Dx(),
			"height":        bounds.Dy(),
		})
	}

	buf := bufferFromImage(img)
	l.log.Info("ImageLoader", "image loaded", map[string]interface{}{
		"format": format,
		"width":  buf.Width,
		"height": buf.Height,
	})
	return buf, format, nil
}

// bufferFromImage converts any decoded image to the interleaved RGBA layout.
func bufferFromImage(img image.Image) *raster.PixelBuffer {
	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || bounds.Min != (image.Point{}) {
		converted := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(converted, converted.Bounds(), img, bounds.Min, draw.Src)
		nrgba = converted
	}

	buf := &raster.PixelBuffer{
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Pix:    make([]byte, len(nrgba.Pix)),
	}
	copy(buf.Pix, nrgba.Pix)
	return buf
}
