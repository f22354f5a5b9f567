package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
)

// ErrUnsupportedFormat is returned when an input image cannot be decoded or
// an output path names a format the tool does not write.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decode reads and decodes an image file. Supported formats: png, jpeg, webp.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, err)
	}
	return img, nil
}

// DecodeConfig reads only the dimensions of an image file without decoding
// pixel data.
func DecodeConfig(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Encode writes an image to path, choosing the format from the extension.
// PNG is the lossless RGBA format used for all intermediate artifacts.
// The parent directory is created if missing.
func Encode(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".webp":
		err = webp.Encode(f, img, &webp.Options{Lossless: true})
	default:
		return fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
