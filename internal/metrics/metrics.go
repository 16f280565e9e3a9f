// Package metrics scores how close two fields are, ignoring pixels that
// either field marks as missing (negative).
package metrics

import (
	"errors"
	"fmt"
	"math"

	"fp-artifacts/internal/field"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrDegenerate is returned when a metric has nothing to measure: no pixel
// pair is valid, or the correlation has fewer than two pairs or a constant
// side.
var ErrDegenerate = errors.New("degenerate metric")

// Score groups both metrics computed over the same pixel pairs.
// Correlation is NaN when CorrelationErr is set.
type Score struct {
	MSE            float64
	Correlation    float64
	CorrelationErr error
	Pairs          int
}

// MeanSquaredError averages the squared differences of a and b over the
// pixel pairs where both values are non-negative, looking at every
// stride-th row and column.
func MeanSquaredError(a, b *field.Field, stride int) (float64, error) {
	x, y, err := pairs(a, b, stride)
	if err != nil {
		return 0, err
	}
	return mse(x, y), nil
}

// CorrelationRate is the Pearson correlation of a and b over the same pixel
// pairs as MeanSquaredError.
func CorrelationRate(a, b *field.Field, stride int) (float64, error) {
	x, y, err := pairs(a, b, stride)
	if err != nil {
		return 0, err
	}
	return correlation(x, y)
}

// Compare computes both metrics in one pass over the fields. It fails only
// when no pair is usable; a degenerate correlation is reported through
// Score.CorrelationErr.
func Compare(a, b *field.Field, stride int) (Score, error) {
	x, y, err := pairs(a, b, stride)
	if err != nil {
		return Score{}, err
	}
	score := Score{MSE: mse(x, y), Pairs: len(x)}
	if score.Correlation, err = correlation(x, y); err != nil {
		score.Correlation = math.NaN()
		score.CorrelationErr = err
	}
	return score, nil
}

func mse(x, y []float64) float64 {
	d := make([]float64, len(x))
	floats.SubTo(d, x, y)
	return floats.Dot(d, d) / float64(len(d))
}

func correlation(x, y []float64) (float64, error) {
	if len(x) < 2 {
		return 0, fmt.Errorf("%w: %d pair, correlation needs two", ErrDegenerate, len(x))
	}
	if !spread(x) || !spread(y) {
		return 0, fmt.Errorf("%w: constant field over %d pairs", ErrDegenerate, len(x))
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, fmt.Errorf("%w: undefined correlation over %d pairs", ErrDegenerate, len(x))
	}
	return r, nil
}

func spread(v []float64) bool {
	s := stat.Variance(v, nil)
	return s > 0 && !math.IsInf(s, 0)
}

func pairs(a, b *field.Field, stride int) ([]float64, []float64, error) {
	if !a.SameSize(b) {
		return nil, nil, fmt.Errorf("%w: %dx%d vs %dx%d", field.ErrDimensionMismatch,
			a.Width(), a.Height(), b.Width(), b.Height())
	}
	if stride < 1 {
		return nil, nil, fmt.Errorf("invalid stride %d", stride)
	}

	var x, y []float64
	for row := 0; row < a.Height(); row += stride {
		for col := 0; col < a.Width(); col += stride {
			va, vb := a.Value(row, col), b.Value(row, col)
			if va < 0 || vb < 0 {
				continue
			}
			x = append(x, va)
			y = append(y, vb)
		}
	}
	if len(x) == 0 {
		return nil, nil, fmt.Errorf("%w: no valid pixel pair", ErrDegenerate)
	}
	return x, y, nil
}
