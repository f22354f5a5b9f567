package grid

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/ivlev/vid2sprite/internal/imaging"
)

// Slice splits a composite image into shape.Cells() cell images in row-major
// order, the exact inverse of Compose's placement. Cell dimensions are
// independent floor divisions of the composite's width and height, so the
// composite does not have to be square or evenly divisible. Cells keep their
// native cropped size; no resampling happens here.
func Slice(composite image.Image, shape Shape) ([]*image.RGBA, error) {
	if !shape.Valid() {
		return nil, ErrInvalidGrid
	}

	b := composite.Bounds()
	cellW := b.Dx() / shape.Cols
	cellH := b.Dy() / shape.Rows
	if cellW == 0 || cellH == 0 {
		return nil, fmt.Errorf("%w: %dx%d composite cannot hold a %dx%d grid",
			ErrInvalidGrid, b.Dx(), b.Dy(), shape.Cols, shape.Rows)
	}

	cells := make([]*image.RGBA, 0, shape.Cells())
	for i := 0; i < shape.Cells(); i++ {
		row, col := IndexToCell(i, shape.Cols)
		origin := image.Pt(b.Min.X+col*cellW, b.Min.Y+row*cellH)

		cell := image.NewRGBA(image.Rect(0, 0, cellW, cellH))
		draw.Draw(cell, cell.Bounds(), composite, origin, draw.Src)
		cells = append(cells, cell)
	}
	return cells, nil
}

// SliceToFiles slices a composite and writes each cell to outDir as
// frame_RR_CC.png, returning the paths in row-major order.
func SliceToFiles(composite image.Image, shape Shape, outDir string) ([]string, error) {
	cells, err := Slice(composite, shape)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(cells))
	for i, cell := range cells {
		row, col := IndexToCell(i, shape.Cols)
		p := filepath.Join(outDir, fmt.Sprintf("frame_%02d_%02d.png", row, col))
		if err := imaging.Encode(cell, p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// SliceFile decodes a composite from disk and slices it to outDir.
func SliceFile(compositePath string, shape Shape, outDir string) ([]string, error) {
	composite, err := imaging.Decode(compositePath)
	if err != nil {
		return nil, err
	}
	return SliceToFiles(composite, shape, outDir)
}
