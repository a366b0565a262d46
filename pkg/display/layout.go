// Package display turns luminance frames into the on/off states of a grid
// of simulated seven-segment digits.
package display

import (
	"errors"
	"fmt"
	"image"
)

// Segment names one bar of a seven-segment digit.
type Segment uint8

const (
	A Segment = iota // top
	B                // upper right
	C                // lower right
	D                // bottom
	E                // lower left
	F                // upper left
	G                // middle
)

// Segments is the number of bars in a digit.
const Segments = 7

func (s Segment) String() string {
	if s >= Segments {
		return fmt.Sprintf("Segment(%d)", uint8(s))
	}
	return string(rune('A' + s))
}

// shape holds the position and size of every segment in thousandths of the
// cell width (x, w) and height (y, h).
var shape = [Segments]struct{ x, y, w, h int }{
	A: {200, 50, 600, 120},
	B: {780, 100, 120, 400},
	C: {780, 500, 120, 400},
	D: {200, 850, 600, 120},
	E: {100, 500, 120, 400},
	F: {100, 100, 120, 400},
	G: {200, 450, 600, 120},
}

var ErrBadDivisions = errors.New("grid divisions must be positive")

// Cell is one tile of the grid.
type Cell struct {
	Origin image.Point
	W, H   int
	// Regions are the sample rectangles of segments A..G in frame coordinates.
	// They are not clipped to the frame.
	Regions [Segments]image.Rectangle
}

func (c Cell) Bounds() image.Rectangle {
	return image.Rect(c.Origin.X, c.Origin.Y, c.Origin.X+c.W, c.Origin.Y+c.H)
}

// Layout is the grid geometry for a fixed resolution and division count.
// Cells are stored row by row, left to right.
type Layout struct {
	Size         image.Point
	Cols, Rows   int
	CellW, CellH int
	Cells        []Cell
}

// NewLayout tiles size into div.X columns and div.Y rows.
// Cell size is floored, so the pixels left over at the right and bottom
// edges are not covered by any cell.
func NewLayout(size, div image.Point) (*Layout, error) {
	if div.X <= 0 || div.Y <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDivisions, div.X, div.Y)
	}
	l := Layout{
		Size:  size,
		Cols:  div.X,
		Rows:  div.Y,
		CellW: max(size.X, 0) / div.X,
		CellH: max(size.Y, 0) / div.Y,
		Cells: make([]Cell, 0, div.X*div.Y),
	}
	for j := 0; j < l.Rows; j++ {
		for i := 0; i < l.Cols; i++ {
			l.Cells = append(l.Cells, newCell(image.Pt(i*l.CellW, j*l.CellH), l.CellW, l.CellH))
		}
	}
	return &l, nil
}

func newCell(origin image.Point, w, h int) Cell {
	c := Cell{Origin: origin, W: w, H: h}
	for s, k := range shape {
		x, y := origin.X+scale(k.x, w), origin.Y+scale(k.y, h)
		c.Regions[s] = image.Rect(x, y, x+scale(k.w, w), y+scale(k.h, h))
	}
	return c
}

// scale returns floor(k/1000 * n), but never less than one pixel.
func scale(k, n int) int {
	if v := k * n / 1000; v > 0 {
		return v
	}
	return 1
}

// Len returns the number of cells.
func (l *Layout) Len() int { return len(l.Cells) }
