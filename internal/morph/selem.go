// Package morph implements mathematical morphology on fields: structuring
// elements, Otsu binarization, binary and grayscale erosion/dilation and
// their compositions.
package morph

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"fp-artifacts/internal/field"
)

// ErrInvalidElement is returned when a structuring element cannot be built.
var ErrInvalidElement = errors.New("invalid structuring element")

// Shape names a generated structuring element.
type Shape int

const (
	Cross Shape = iota
	Circle
	Diamond
	Square
)

func (s Shape) String() string {
	switch s {
	case Circle:
		return "circle"
	case Diamond:
		return "diamond"
	case Square:
		return "square"
	default:
		return "cross"
	}
}

// ParseShape converts a name as printed by Shape.String.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cross":
		return Cross, nil
	case "circle", "disk":
		return Circle, nil
	case "diamond":
		return Diamond, nil
	case "square", "rect":
		return Square, nil
	}
	return Cross, fmt.Errorf("unknown structuring element shape %q", s)
}

// Offset is one position of an element relative to its anchor.
type Offset struct {
	DRow, DCol int
	Weight     float64
}

// Element is an immutable neighborhood used by the morphological operators.
// Flat elements carry weight 1 everywhere; non-flat elements carry weights in
// [0,1] that lower (erosion) or raise (dilation) the neighbors they cover.
type Element struct {
	offsets              []Offset
	width, height        int
	anchorRow, anchorCol int
	flat                 bool
}

// NewFlat builds a flat element from a boolean grid. True cells belong to
// the element; the anchor is given in grid coordinates.
func NewFlat(grid [][]bool, anchorRow, anchorCol int) (*Element, error) {
	w, h, err := gridDims(len(grid), func(j int) int { return len(grid[j]) })
	if err != nil {
		return nil, err
	}
	e := &Element{width: w, height: h, anchorRow: anchorRow, anchorCol: anchorCol, flat: true}
	for j, row := range grid {
		for i, in := range row {
			if in {
				e.offsets = append(e.offsets, Offset{DRow: j - anchorRow, DCol: i - anchorCol, Weight: 1})
			}
		}
	}
	return e, e.validate()
}

// NewWeighted builds a non-flat element from a weight grid. Cells with a
// positive weight belong to the element; weights above 1 are clamped.
func NewWeighted(grid [][]float64, anchorRow, anchorCol int) (*Element, error) {
	w, h, err := gridDims(len(grid), func(j int) int { return len(grid[j]) })
	if err != nil {
		return nil, err
	}
	e := &Element{width: w, height: h, anchorRow: anchorRow, anchorCol: anchorCol}
	for j, row := range grid {
		for i, v := range row {
			if v > 0 {
				e.offsets = append(e.offsets, Offset{DRow: j - anchorRow, DCol: i - anchorCol, Weight: math.Min(v, 1)})
			}
		}
	}
	return e, e.validate()
}

// NewShape builds a (2*size+1) square element anchored at its center.
// Non-flat weights fall linearly from 1 at the center to 0 at the farthest
// member, measured with the shape's own distance.
func NewShape(shape Shape, size int, flat bool) (*Element, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrInvalidElement, size)
	}
	n := 2*size + 1
	e := &Element{width: n, height: n, anchorRow: size, anchorCol: size, flat: flat}

	var dmax float64
	for dr := -size; dr <= size; dr++ {
		for dc := -size; dc <= size; dc++ {
			d, in := shapeDistance(shape, dr, dc, size)
			if !in {
				continue
			}
			dmax = math.Max(dmax, d)
			e.offsets = append(e.offsets, Offset{DRow: dr, DCol: dc, Weight: d})
		}
	}
	for k := range e.offsets {
		if flat || dmax == 0 {
			e.offsets[k].Weight = 1
			continue
		}
		e.offsets[k].Weight = clamp01(1 - e.offsets[k].Weight/dmax)
	}
	return e, nil
}

// shapeDistance returns the distance of (dr, dc) from the center in the
// metric of shape and whether the position belongs to it.
func shapeDistance(shape Shape, dr, dc, size int) (float64, bool) {
	ar, ac := abs(dr), abs(dc)
	switch shape {
	case Circle:
		d := math.Hypot(float64(dr), float64(dc))
		return d, d <= float64(size)
	case Diamond:
		return float64(ar + ac), ar+ac <= size
	case Square:
		return float64(max(ar, ac)), true
	default:
		return float64(ar + ac), dr == 0 || dc == 0
	}
}

func gridDims(rows int, cols func(int) int) (int, int, error) {
	if rows == 0 || cols(0) == 0 {
		return 0, 0, fmt.Errorf("%w: empty grid", ErrInvalidElement)
	}
	w := cols(0)
	for j := 1; j < rows; j++ {
		if cols(j) != w {
			return 0, 0, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidElement, j, cols(j), w)
		}
	}
	return w, rows, nil
}

func (e *Element) validate() error {
	if e.anchorRow < 0 || e.anchorRow >= e.height || e.anchorCol < 0 || e.anchorCol >= e.width {
		return fmt.Errorf("%w: anchor (%d,%d) outside %dx%d grid", ErrInvalidElement, e.anchorRow, e.anchorCol, e.width, e.height)
	}
	if len(e.offsets) == 0 {
		return fmt.Errorf("%w: no cell selected", ErrInvalidElement)
	}
	return nil
}

// Width returns the width of the element's grid.
func (e *Element) Width() int { return e.width }

// Height returns the height of the element's grid.
func (e *Element) Height() int { return e.height }

// Anchor returns the grid position of the origin.
func (e *Element) Anchor() (row, col int) { return e.anchorRow, e.anchorCol }

// Flat reports whether every weight is 1.
func (e *Element) Flat() bool { return e.flat }

// Size returns the number of positions in the element.
func (e *Element) Size() int { return len(e.offsets) }

// Offsets returns a copy of the element's positions.
func (e *Element) Offsets() []Offset {
	return append([]Offset(nil), e.offsets...)
}

// Contains reports whether every position of other is also a position of e.
func (e *Element) Contains(other *Element) bool {
	own := make(map[[2]int]bool, len(e.offsets))
	for _, o := range e.offsets {
		own[[2]int{o.DRow, o.DCol}] = true
	}
	for _, o := range other.offsets {
		if !own[[2]int{o.DRow, o.DCol}] {
			return false
		}
	}
	return true
}

// Include reports whether every position of the element, placed at
// (row, col), lands on foreground (a false, dark pixel). Positions outside
// the mask are ignored. Erosion keeps the pixel dark exactly when Include
// holds.
func (e *Element) Include(m *field.Mask, row, col int) bool {
	for _, o := range e.offsets {
		r, c := row+o.DRow, col+o.DCol
		if m.InBounds(r, c) && m.Value(r, c) {
			return false
		}
	}
	return true
}

// Hit reports whether at least one position of the element, placed at
// (row, col), lands on foreground. Positions outside the mask are ignored.
// Dilation turns the pixel dark exactly when Hit holds.
func (e *Element) Hit(m *field.Mask, row, col int) bool {
	for _, o := range e.offsets {
		r, c := row+o.DRow, col+o.DCol
		if m.InBounds(r, c) && !m.Value(r, c) {
			return true
		}
	}
	return false
}

// Min returns the grayscale erosion of f at (row, col): the minimum of
// f(p) - (1 - weight) over the covered pixels, clamped to [0,1]. Positions
// outside f or on missing (negative) pixels are skipped. A missing pixel, or
// one with no usable neighbor, is returned unchanged.
func (e *Element) Min(f *field.Field, row, col int) float64 {
	if self := f.Value(row, col); self < 0 {
		return self
	}
	v, found := math.Inf(1), false
	for _, o := range e.offsets {
		r, c := row+o.DRow, col+o.DCol
		if !known(f, r, c) {
			continue
		}
		v = math.Min(v, f.Value(r, c)-(1-o.Weight))
		found = true
	}
	if !found {
		return f.Value(row, col)
	}
	return clamp01(v)
}

// Max returns the grayscale dilation of f at (row, col): the maximum of
// f(p) + (1 - weight) over the covered pixels, clamped to [0,1]. Missing
// pixels are handled as in Min.
func (e *Element) Max(f *field.Field, row, col int) float64 {
	if self := f.Value(row, col); self < 0 {
		return self
	}
	v, found := math.Inf(-1), false
	for _, o := range e.offsets {
		r, c := row+o.DRow, col+o.DCol
		if !known(f, r, c) {
			continue
		}
		v = math.Max(v, f.Value(r, c)+(1-o.Weight))
		found = true
	}
	if !found {
		return f.Value(row, col)
	}
	return clamp01(v)
}

// Field rasterizes the element: each cell holds its weight and cells outside
// the element are 0. Members of weight 0 are written as 0.001 so they stay
// visible; NewWeighted on the result gives back the same positions.
func (e *Element) Field() *field.Field {
	f, err := field.New(e.width, e.height)
	if err != nil {
		panic(err)
	}
	for _, o := range e.offsets {
		_ = f.Set(e.anchorRow+o.DRow, e.anchorCol+o.DCol, math.Max(o.Weight, 1e-3))
	}
	return f
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// known reports whether (row, col) is inside f and not missing.
func known(f *field.Field, row, col int) bool {
	return f.InBounds(row, col) && f.Value(row, col) >= 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
