package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// ErrInvalidImage is returned when an input image has zero width or height.
var ErrInvalidImage = errors.New("image has zero extent")

// CenterCropToSquare crops an image to a centered square with side
// min(width, height). Odd differences bias toward the top-left (floor
// offsets). The input is never mutated; a new image is returned.
func CenterCropToSquare(src image.Image) (*image.RGBA, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, ErrInvalidImage
	}

	side := min(w, h)
	origin := image.Pt(b.Min.X+(w-side)/2, b.Min.Y+(h-side)/2)

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), src, origin, draw.Src)
	return dst, nil
}

// PadToSquare places an image centered on a square canvas with side
// max(width, height), filling the remainder with fill. The pasted region
// keeps the source's alpha channel.
func PadToSquare(src image.Image, fill color.Color) (*image.RGBA, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, ErrInvalidImage
	}

	side := max(w, h)
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	target := image.Rect((side-w)/2, (side-h)/2, (side-w)/2+w, (side-h)/2+h)
	draw.Draw(dst, target, src, b.Min, draw.Src)
	return dst, nil
}

// ResizeTo resamples an image to exactly width x height using Catmull-Rom
// interpolation. Aspect ratio is not preserved here; callers wanting
// proportional scaling use FitToResolution.
func ResizeTo(src image.Image, width, height int) (*image.RGBA, error) {
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || width < 1 || height < 1 {
		return nil, ErrInvalidImage
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst, nil
}

// FitToResolution scales both axes by resolution/max(width, height), so the
// longer side lands on resolution and the aspect ratio is preserved.
func FitToResolution(src image.Image, resolution int) (*image.RGBA, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || resolution < 1 {
		return nil, ErrInvalidImage
	}

	scale := float64(resolution) / float64(max(w, h))
	return ResizeTo(src, int(float64(w)*scale), int(float64(h)*scale))
}
