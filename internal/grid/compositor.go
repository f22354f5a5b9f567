package grid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ivlev/vid2sprite/internal/imaging"
)

// ErrEmptyInput is returned when Compose receives zero frames.
var ErrEmptyInput = errors.New("no frames provided")

// Mode selects the per-frame normalization and canvas fill for Compose.
type Mode int

const (
	// ModeReference builds the generation-service input from arbitrary-aspect
	// source frames: each frame is center-cropped to square, the canvas is
	// opaque white.
	ModeReference Mode = iota
	// ModeSheet assembles a sprite sheet from already-square cell images:
	// each frame is resized only, the canvas is fully transparent.
	ModeSheet
)

func (m Mode) String() string {
	if m == ModeSheet {
		return "sheet"
	}
	return "reference"
}

// Compose places frames into a square grid canvas in row-major order.
//
// The canvas side is CellSize(resolution, shape) * max(cols, rows), computed
// before any frame is touched so bad geometry fails fast. Frames beyond
// shape.Cells() are silently ignored; missing trailing cells stay background.
// The returned image is freshly allocated and owned by the caller.
func Compose(frames []image.Image, shape Shape, resolution int, mode Mode) (*image.RGBA, error) {
	if len(frames) == 0 {
		return nil, ErrEmptyInput
	}
	cell, err := CellSize(resolution, shape)
	if err != nil {
		return nil, err
	}

	side := cell * max(shape.Cols, shape.Rows)
	canvas := image.NewRGBA(image.Rect(0, 0, side, side))
	if mode == ModeReference {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	}

	n := min(len(frames), shape.Cells())
	for i := 0; i < n; i++ {
		var normalized *image.RGBA
		switch mode {
		case ModeSheet:
			normalized, err = imaging.ResizeTo(frames[i], cell, cell)
		default:
			var square *image.RGBA
			square, err = imaging.CenterCropToSquare(frames[i])
			if err == nil {
				normalized, err = imaging.ResizeTo(square, cell, cell)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}

		row, col := IndexToCell(i, shape.Cols)
		target := image.Rect(col*cell, row*cell, (col+1)*cell, (row+1)*cell)

		// Reference cells composite over the white background so the output
		// carries no transparency; sheet cells overwrite to keep their alpha.
		op := draw.Src
		if mode == ModeReference {
			op = draw.Over
		}
		draw.Draw(canvas, target, normalized, image.Point{}, op)
	}

	return canvas, nil
}

// ComposeFiles decodes frame images from disk and composes them. Order of
// paths is the row-major placement order.
func ComposeFiles(paths []string, shape Shape, resolution int, mode Mode) (*image.RGBA, error) {
	if len(paths) == 0 {
		return nil, ErrEmptyInput
	}
	frames := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := imaging.Decode(p)
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
	return Compose(frames, shape, resolution, mode)
}
