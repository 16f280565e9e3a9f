package field

import (
	"errors"
	"fmt"
)

var (
	// ErrConstruction is returned when a field or mask cannot be built from
	// the given dimensions or data.
	ErrConstruction = errors.New("invalid field construction")

	// ErrBounds is matched by every *BoundsError.
	ErrBounds = errors.New("pixel out of bounds")

	// ErrDimensionMismatch is returned when two fields must share dimensions.
	ErrDimensionMismatch = errors.New("field dimensions differ")
)

// BoundsError reports an access outside [0,Width)x[0,Height).
type BoundsError struct {
	Row, Col      int
	Width, Height int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("pixel (row %d, col %d) outside %dx%d field", e.Row, e.Col, e.Width, e.Height)
}

// Is lets errors.Is(err, ErrBounds) match.
func (e *BoundsError) Is(target error) bool {
	return target == ErrBounds
}

func checkDims(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrConstruction, w, h)
	}
	return nil
}
