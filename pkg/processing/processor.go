// Package processing loads and saves images and renders the view image
// with annotation overlays.
package processing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnknownFormat is returned when no decoder accepts an image
	ErrUnknownFormat = errors.New("image: unknown format")
	// ErrEmptyImage is returned for images without pixels
	ErrEmptyImage = errors.New("image: empty")
)

// Processor handles image loading and saving
type Processor struct{}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (*image.NRGBA, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		if err := ValidateImage(img); err != nil {
			return nil, fmt.Errorf("invalid image %s: %w", path, err)
		}
		return imaging.Clone(img), nil
	}

	// Fallback: explicit WebP decode
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	img, err := p.DecodeImage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	if err := ValidateImage(img); err != nil {
		return nil, fmt.Errorf("invalid image %s: %w", path, err)
	}
	return img, nil
}

// ValidateImage checks that an image has at least one pixel
func ValidateImage(img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return fmt.Errorf("%dx%d: %w", bounds.Dx(), bounds.Dy(), ErrEmptyImage)
	}
	return nil
}

// DecodeImage decodes an image from a reader with WebP support
func (p *Processor) DecodeImage(r io.Reader) (*image.NRGBA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	// Try standard image.Decode first
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return imaging.Clone(img), nil
	}

	// Try WebP decode
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return imaging.Clone(img), nil
	}

	return nil, ErrUnknownFormat
}

// SaveImage saves an image to a file with the specified format and quality
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		if err := webp.Encode(f, img, opts); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
		return nil
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}
