// Package field provides the dense grayscale pixel field every transform
// reads from and writes to, plus the boolean mask produced by binarization.
package field

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"fp-artifacts/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// Field is a dense W x H grid of intensities, 0 is black and 1 is white.
// Negative values mark unknown pixels (for instance gaps opened by a warp)
// and are skipped by the metrics and the threshold.
//
// The backing store is a single row-major buffer. Dimensions never change
// after construction.
type Field struct {
	data *mat.Dense
	w, h int

	// Path is the file the field was decoded from, if any.
	Path string
}

// New creates a black field.
func New(w, h int) (*Field, error) {
	if err := checkDims(w, h); err != nil {
		return nil, err
	}
	return &Field{data: mat.NewDense(h, w, nil), w: w, h: h}, nil
}

// NewUniform creates a field where every pixel holds v.
func NewUniform(w, h int, v float64) (*Field, error) {
	f, err := New(w, h)
	if err != nil {
		return nil, err
	}
	raw := f.data.RawMatrix().Data
	for i := range raw {
		raw[i] = v
	}
	return f, nil
}

// FromSlice builds a field over a row-major slice of w*h values.
// With share set the field keeps using data, so later writes to the slice are
// visible through the field; otherwise the values are copied.
func FromSlice(data []float64, w, h int, share bool) (*Field, error) {
	if err := checkDims(w, h); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: nil data", ErrConstruction)
	}
	if len(data) != w*h {
		return nil, fmt.Errorf("%w: %d values for a %dx%d field", ErrConstruction, len(data), w, h)
	}
	if !share {
		data = append([]float64(nil), data...)
	}
	return &Field{data: mat.NewDense(h, w, data), w: w, h: h}, nil
}

// FromRows copies a slice of equal-length rows into a new field.
func FromRows(rows [][]float64) (*Field, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrConstruction)
	}
	w := len(rows[0])
	if err := checkDims(w, len(rows)); err != nil {
		return nil, err
	}
	buf := make([]float64, 0, w*len(rows))
	for j, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrConstruction, j, len(row), w)
		}
		buf = append(buf, row...)
	}
	return &Field{data: mat.NewDense(len(rows), w, buf), w: w, h: len(rows)}, nil
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.w }

// Height returns the number of rows.
func (f *Field) Height() int { return f.h }

// InBounds reports whether (row, col) addresses a pixel of the field.
func (f *Field) InBounds(row, col int) bool {
	return row >= 0 && row < f.h && col >= 0 && col < f.w
}

// At returns the pixel at (row, col).
func (f *Field) At(row, col int) (float64, error) {
	if !f.InBounds(row, col) {
		return 0, f.boundsError(row, col)
	}
	return f.data.At(row, col), nil
}

// Value returns the pixel at (row, col) and panics with a *BoundsError when
// the position is outside the field. Callers check InBounds first.
func (f *Field) Value(row, col int) float64 {
	if !f.InBounds(row, col) {
		panic(f.boundsError(row, col))
	}
	return f.data.At(row, col)
}

// Set stores v at (row, col).
func (f *Field) Set(row, col int, v float64) error {
	if !f.InBounds(row, col) {
		return f.boundsError(row, col)
	}
	f.data.Set(row, col, v)
	return nil
}

func (f *Field) set(row, col int, v float64) {
	f.data.Set(row, col, v)
}

func (f *Field) boundsError(row, col int) error {
	return &BoundsError{Row: row, Col: col, Width: f.w, Height: f.h}
}

// Matrix returns a read-only view of the pixels, rows by columns.
func (f *Field) Matrix() mat.Matrix {
	return view{f.data}
}

// view hides the mutators of the backing matrix.
type view struct{ m *mat.Dense }

func (v view) Dims() (r, c int)   { return v.m.Dims() }
func (v view) At(i, j int) float64 { return v.m.At(i, j) }
func (v view) T() mat.Matrix       { return mat.Transpose{Matrix: v} }

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	return &Field{data: mat.DenseCopyOf(f.data), w: f.w, h: f.h, Path: f.Path}
}

// SameSize reports whether both fields have the same dimensions.
func (f *Field) SameSize(other *Field) bool {
	return f.w == other.w && f.h == other.h
}

// Rows returns a copy of the pixels as ordered rows.
func (f *Field) Rows() [][]float64 {
	rows := make([][]float64, f.h)
	for j := range rows {
		rows[j] = mat.Row(nil, j, f.data)
	}
	return rows
}

// Dump writes the pixels as text, one row per line.
func (f *Field) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for j := 0; j < f.h; j++ {
		for i := 0; i < f.w; i++ {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatFloat(f.data.At(j, i), 'g', 6, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Add returns the pixel-wise sum, capped at 1.
func (f *Field) Add(other *Field) (*Field, error) {
	return f.combine(other, func(a, b float64) float64 { return clamp01(a + b) })
}

// Sub returns the pixel-wise difference, floored at 0.
func (f *Field) Sub(other *Field) (*Field, error) {
	return f.combine(other, func(a, b float64) float64 { return clamp01(a - b) })
}

func (f *Field) combine(other *Field, op func(a, b float64) float64) (*Field, error) {
	if !f.SameSize(other) {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, f.w, f.h, other.w, other.h)
	}
	out := &Field{data: mat.NewDense(f.h, f.w, nil), w: f.w, h: f.h}
	out.data.Apply(func(j, i int, _ float64) float64 {
		return op(f.data.At(j, i), other.data.At(j, i))
	}, out.data)
	return out, nil
}

// RectangleFill paints the rectangle with corners (xA, yA) and (xB, yB),
// both inclusive, with intensity. The rectangle is clipped to the field.
func (f *Field) RectangleFill(xA, yA, xB, yB int, intensity float64) {
	if xA > xB {
		xA, xB = xB, xA
	}
	if yA > yB {
		yA, yB = yB, yA
	}
	x0, x1 := max(xA, 0), min(xB, f.w-1)
	y0, y1 := max(yA, 0), min(yB, f.h-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			f.set(y, x, intensity)
		}
	}
}

// Barycenter returns the intensity-weighted centroid (X column, Y row).
// Negative pixels carry no weight. A field with no weight at all returns its
// geometric center.
func (f *Field) Barycenter() geometry.Point2D {
	var sum, sx, sy float64
	for j := 0; j < f.h; j++ {
		for i := 0; i < f.w; i++ {
			v := f.data.At(j, i)
			if v <= 0 {
				continue
			}
			sum += v
			sx += v * float64(i)
			sy += v * float64(j)
		}
	}
	if sum == 0 {
		return geometry.Point2D{X: float64(f.w-1) / 2, Y: float64(f.h-1) / 2}
	}
	return geometry.Point2D{X: sx / sum, Y: sy / sum}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
