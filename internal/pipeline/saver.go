package pipeline

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"engrave-prep/internal/logger"
	"engrave-prep/internal/raster"
)

// ImageSaver encodes a processed PixelBuffer for download.
type ImageSaver struct {
	log logger.Logger

	// JPEGQuality applies to jpeg exports only. Zero selects the encoder
	// default.
	JPEGQuality int
}

func NewImageSaver(log logger.Logger) *ImageSaver {
	if log == nil {
		log = logger.Noop{}
	}
	return &ImageSaver{log: log}
}

// Save encodes buf in the requested format ("png" or "jpeg").
func (s *ImageSaver) Save(writer io.Writer, buf *raster.PixelBuffer, format string) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid buffer: %w", err)
	}

	img := imageFromBuffer(buf)

	switch strings.ToLower(format) {
	case "png", "":
		if err := png.Encode(writer, img); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	case "jpeg", "jpg":
		quality := s.JPEGQuality
		if quality <= 0 {
			quality = jpeg.DefaultQuality
		}
		if err := jpeg.Encode(writer, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("failed to encode jpeg: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}

	s.log.Info("ImageSaver", "image saved", map[string]interface{}{
		"format": format,
		"width":  buf.Width,
		"height": buf.Height,
	})
	return nil
}

func imageFromBuffer(buf *raster.PixelBuffer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(buf.Width), int(buf.Height)))
	copy(img.Pix, buf.Pix)
	return img
}
