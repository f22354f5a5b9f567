package imaging

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	src.SetRGBA(3, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	path := filepath.Join(t.TempDir(), "nested", "dir", "img.png")

	if err := Encode(src, path); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	img, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("decoded is %dx%d, want 8x8", b.Dx(), b.Dy())
	}

	w, h, err := DecodeConfig(path)
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if w != 8 || h != 8 {
		t.Errorf("DecodeConfig = %dx%d, want 8x8", w, h)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-image.png")
	if err := os.WriteFile(path, []byte("definitely not a png"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Decode(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("want ErrUnsupportedFormat, got %v", err)
	}
}

func TestEncodeUnknownExtension(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	path := filepath.Join(t.TempDir(), "img.tiff")

	if err := Encode(src, path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("want ErrUnsupportedFormat, got %v", err)
	}
}
