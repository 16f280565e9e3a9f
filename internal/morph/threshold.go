package morph

import (
	"errors"
	"math"
	"sort"

	"fp-artifacts/internal/field"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bins is the histogram resolution used by Threshold.
const Bins = 256

// ErrNoSamples is returned by Threshold when the field holds no
// non-negative value.
var ErrNoSamples = errors.New("no valid sample to threshold")

// Threshold computes Otsu's threshold of f on the [0,1] scale. Negative
// values mark missing pixels and are ignored. When several split points
// reach the maximal between-class variance the middle one is used, so a
// two-level image is split halfway between its levels.
func Threshold(f *field.Field) (float64, error) {
	hist, n := histogram(f)
	if n == 0 {
		return 0, ErrNoSamples
	}

	var total float64
	for i, c := range hist {
		total += float64(i) * c
	}

	var (
		best        = -1.0
		first, last = -1, -1
		w0, sum0    float64
	)
	for k := 0; k < Bins-1; k++ {
		w0 += hist[k]
		sum0 += float64(k) * hist[k]
		w1 := n - w0
		if w0 == 0 || w1 == 0 {
			continue
		}
		mu0, mu1 := sum0/w0, (total-sum0)/w1
		v := (w0 / n) * (w1 / n) * (mu0 - mu1) * (mu0 - mu1)
		switch {
		case v > best*(1+1e-12):
			best, first, last = v, k, k
		case v >= best*(1-1e-12) && last == k-1:
			last = k
		}
	}
	if first < 0 {
		// Single level: everything is background.
		for k, c := range hist {
			if c > 0 {
				return float64(k) / Bins, nil
			}
		}
	}
	k := (first + last) / 2
	return float64(k+1) / Bins, nil
}

// histogram counts the non-negative values of f in Bins equal bins over
// [0,1]. Values above 1 land in the last bin.
func histogram(f *field.Field) ([]float64, float64) {
	values := make([]float64, 0, f.Width()*f.Height())
	for row := 0; row < f.Height(); row++ {
		for col := 0; col < f.Width(); col++ {
			if v := f.Value(row, col); v >= 0 {
				values = append(values, math.Min(v, 1))
			}
		}
	}
	if len(values) == 0 {
		return make([]float64, Bins), 0
	}
	sort.Float64s(values)

	dividers := floats.Span(make([]float64, Bins+1), 0, 1)
	dividers[Bins] = math.Nextafter(1, 2)
	return stat.Histogram(nil, dividers, values, nil), float64(len(values))
}

// Binarize thresholds f with Otsu's method. Pixels at or above the
// threshold are light (true); missing pixels are light as well.
func Binarize(f *field.Field) (*field.Mask, float64, error) {
	t, err := Threshold(f)
	if err != nil {
		return nil, 0, err
	}
	return BinarizeAt(f, t), t, nil
}

// BinarizeAt thresholds f at t.
func BinarizeAt(f *field.Field, t float64) *field.Mask {
	m := newMaskLike(f.Width(), f.Height())
	for row := 0; row < f.Height(); row++ {
		for col := 0; col < f.Width(); col++ {
			v := f.Value(row, col)
			_ = m.Set(row, col, v < 0 || v >= t)
		}
	}
	return m
}

func newMaskLike(w, h int) *field.Mask {
	m, err := field.NewMask(w, h)
	if err != nil {
		panic(err)
	}
	return m
}
