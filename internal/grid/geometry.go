package grid

import "errors"

// ErrInvalidGrid is returned when a grid shape has fewer than one column or
// row, or the target resolution is not positive.
var ErrInvalidGrid = errors.New("invalid grid shape")

// Shape describes a sprite grid as columns x rows. Both must be >= 1.
type Shape struct {
	Cols int
	Rows int
}

// Valid reports whether the shape can address at least one cell.
func (s Shape) Valid() bool {
	return s.Cols >= 1 && s.Rows >= 1
}

// Cells returns the total number of addressable cells.
func (s Shape) Cells() int {
	return s.Cols * s.Rows
}

// CellSize calculates the side of one square grid cell for a target
// resolution. Floor division: the realized grid may come out up to
// max(cols,rows)-1 pixels smaller than the requested resolution. That loss is
// the accepted policy, not an error — the generation service only cares that
// cells are uniform squares.
func CellSize(resolution int, shape Shape) (int, error) {
	if !shape.Valid() || resolution < 1 {
		return 0, ErrInvalidGrid
	}
	return resolution / max(shape.Cols, shape.Rows), nil
}

// PixelSize calculates the realized grid dimensions from a cell size.
func PixelSize(cellSize int, shape Shape) (width, height int) {
	return cellSize * shape.Cols, cellSize * shape.Rows
}

// IndexToCell maps a row-major cell index to its (row, col) position.
// Defined for index >= 0; the caller bounds-checks against shape.Cells().
func IndexToCell(index, cols int) (row, col int) {
	return index / cols, index % cols
}

// CellToIndex is the exact inverse of IndexToCell.
func CellToIndex(row, col, cols int) int {
	return row*cols + col
}
