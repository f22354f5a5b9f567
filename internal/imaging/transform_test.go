package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestCenterCropToSquare1920x1080(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	marker := color.RGBA{R: 200, G: 10, B: 30, A: 255}
	// The crop window starts at x=420, y=0.
	src.SetRGBA(420, 0, marker)

	dst, err := CenterCropToSquare(src)
	if err != nil {
		t.Fatalf("CenterCropToSquare failed: %v", err)
	}

	b := dst.Bounds()
	if b.Dx() != 1080 || b.Dy() != 1080 {
		t.Fatalf("crop is %dx%d, want 1080x1080", b.Dx(), b.Dy())
	}
	if got := dst.RGBAAt(0, 0); got != marker {
		t.Errorf("pixel (0,0) = %v, want marker from src (420,0)", got)
	}
}

func TestCenterCropOddDifference(t *testing.T) {
	// 11x10: offset floors to 0 on both axes after (11-10)/2 = 0.
	src := image.NewRGBA(image.Rect(0, 0, 11, 10))
	dst, err := CenterCropToSquare(src)
	if err != nil {
		t.Fatalf("CenterCropToSquare failed: %v", err)
	}
	if b := dst.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Errorf("crop is %dx%d, want 10x10", b.Dx(), b.Dy())
	}
}

func TestCenterCropDoesNotMutateInput(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 9, A: 255})

	if _, err := CenterCropToSquare(src); err != nil {
		t.Fatalf("CenterCropToSquare failed: %v", err)
	}
	if got := src.RGBAAt(0, 0); got != (color.RGBA{R: 9, A: 255}) {
		t.Errorf("input mutated: %v", got)
	}
}

func TestPadToSquare(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	fill := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	dst, err := PadToSquare(src, fill)
	if err != nil {
		t.Fatalf("PadToSquare failed: %v", err)
	}

	b := dst.Bounds()
	if b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("padded is %dx%d, want 100x100", b.Dx(), b.Dy())
	}
	// Above the centered original: fill. Inside it: the (transparent) source.
	if got := dst.RGBAAt(50, 10); got != fill {
		t.Errorf("pad area = %v, want fill %v", got, fill)
	}
	if got := dst.RGBAAt(50, 50); got.A != 0 {
		t.Errorf("source alpha not preserved: %v", got)
	}
}

func TestResizeTo(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 40))
	dst, err := ResizeTo(src, 64, 64)
	if err != nil {
		t.Fatalf("ResizeTo failed: %v", err)
	}
	if b := dst.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("resized is %dx%d, want 64x64", b.Dx(), b.Dy())
	}
}

func TestFitToResolution(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	dst, err := FitToResolution(src, 1024)
	if err != nil {
		t.Fatalf("FitToResolution failed: %v", err)
	}
	if b := dst.Bounds(); b.Dx() != 1024 || b.Dy() != 576 {
		t.Errorf("fitted is %dx%d, want 1024x576", b.Dx(), b.Dy())
	}
}

func TestZeroExtentRejected(t *testing.T) {
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))

	if _, err := CenterCropToSquare(empty); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("CenterCropToSquare: want ErrInvalidImage, got %v", err)
	}
	if _, err := PadToSquare(empty, color.White); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("PadToSquare: want ErrInvalidImage, got %v", err)
	}
	if _, err := ResizeTo(empty, 10, 10); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("ResizeTo: want ErrInvalidImage, got %v", err)
	}
	if _, err := FitToResolution(empty, 1024); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("FitToResolution: want ErrInvalidImage, got %v", err)
	}
}
