package morph

import (
	"fmt"
	"math"

	"fp-artifacts/internal/field"
	"fp-artifacts/pkg/geometry"
)

// CenteredOptions configures Centered.
type CenteredOptions struct {
	// MaxSize is the element size reached at the strongest point: the
	// farthest corner for erosion, the barycenter for dilation.
	MaxSize int
}

// DefaultCenteredOptions returns the options used by the CLI.
func DefaultCenteredOptions() CenteredOptions {
	return CenteredOptions{MaxSize: 3}
}

// WithMaxSize returns a copy with a different maximal element size.
func (o CenteredOptions) WithMaxSize(n int) CenteredOptions {
	o.MaxSize = n
	return o
}

// Centered runs a grayscale erosion or dilation whose element grows or
// shrinks with the distance to the barycenter of f. With r the distance of a
// pixel to the barycenter divided by the distance of the farthest corner,
// erosion uses size round(r*MaxSize) and dilation round((1-r)*MaxSize).
func Centered(f *field.Field, op Op, shape Shape, flat bool, opts CenteredOptions) (*field.Field, error) {
	if op != Erosion && op != Dilation {
		return nil, fmt.Errorf("centered filter supports erosion and dilation, got %s", op)
	}
	if opts.MaxSize < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrInvalidElement, opts.MaxSize)
	}

	elements := make([]*Element, opts.MaxSize+1)
	for size := range elements {
		se, err := NewShape(shape, size, flat)
		if err != nil {
			return nil, err
		}
		elements[size] = se
	}

	center := f.Barycenter()
	reach := farthestCorner(f, center)

	w, h := f.Width(), f.Height()
	out := make([]float64, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			r := 0.0
			if reach > 0 {
				r = math.Min(1, center.Distance(geometry.NewPoint2D(float64(col), float64(row)))/reach)
			}
			if op == Erosion {
				out[row*w+col] = elements[sizeFor(r, opts.MaxSize)].Min(f, row, col)
			} else {
				out[row*w+col] = elements[sizeFor(1-r, opts.MaxSize)].Max(f, row, col)
			}
		}
	}
	return field.FromSlice(out, w, h, true)
}

func sizeFor(r float64, maxSize int) int {
	return int(math.Round(r * float64(maxSize)))
}

func farthestCorner(f *field.Field, c geometry.Point2D) float64 {
	right, bottom := float64(f.Width()-1), float64(f.Height()-1)
	var d float64
	for _, p := range []geometry.Point2D{{X: 0, Y: 0}, {X: right, Y: 0}, {X: 0, Y: bottom}, {X: right, Y: bottom}} {
		d = math.Max(d, c.Distance(p))
	}
	return d
}
