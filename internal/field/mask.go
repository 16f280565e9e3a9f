package field

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Mask is the binary counterpart of Field. A true pixel is light (at or above
// the binarization threshold); ridges and ink are false.
type Mask struct {
	bits []bool
	w, h int
}

// NewMask creates an all-false mask.
func NewMask(w, h int) (*Mask, error) {
	if err := checkDims(w, h); err != nil {
		return nil, err
	}
	return &Mask{bits: make([]bool, w*h), w: w, h: h}, nil
}

// MaskFromRows copies equal-length boolean rows into a new mask.
func MaskFromRows(rows [][]bool) (*Mask, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrConstruction)
	}
	m, err := NewMask(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for j, row := range rows {
		if len(row) != m.w {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrConstruction, j, len(row), m.w)
		}
		copy(m.bits[j*m.w:], row)
	}
	return m, nil
}

// Width returns the number of columns.
func (m *Mask) Width() int { return m.w }

// Height returns the number of rows.
func (m *Mask) Height() int { return m.h }

// InBounds reports whether (row, col) addresses a pixel of the mask.
func (m *Mask) InBounds(row, col int) bool {
	return row >= 0 && row < m.h && col >= 0 && col < m.w
}

// At returns the bit at (row, col).
func (m *Mask) At(row, col int) (bool, error) {
	if !m.InBounds(row, col) {
		return false, &BoundsError{Row: row, Col: col, Width: m.w, Height: m.h}
	}
	return m.bits[row*m.w+col], nil
}

// Value returns the bit at (row, col) and panics when out of bounds.
func (m *Mask) Value(row, col int) bool {
	if !m.InBounds(row, col) {
		panic(&BoundsError{Row: row, Col: col, Width: m.w, Height: m.h})
	}
	return m.bits[row*m.w+col]
}

// Set stores v at (row, col).
func (m *Mask) Set(row, col int, v bool) error {
	if !m.InBounds(row, col) {
		return &BoundsError{Row: row, Col: col, Width: m.w, Height: m.h}
	}
	m.bits[row*m.w+col] = v
	return nil
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	return &Mask{bits: append([]bool(nil), m.bits...), w: m.w, h: m.h}
}

// Equal reports whether both masks hold the same bits.
func (m *Mask) Equal(other *Mask) bool {
	if m.w != other.w || m.h != other.h {
		return false
	}
	for i, b := range m.bits {
		if other.bits[i] != b {
			return false
		}
	}
	return true
}

// Count returns the number of true pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// ToField maps true to 1 and false to 0.
func (m *Mask) ToField() *Field {
	out := &Field{data: mat.NewDense(m.h, m.w, nil), w: m.w, h: m.h}
	for i, b := range m.bits {
		if b {
			out.set(i/m.w, i%m.w, 1)
		}
	}
	return out
}
