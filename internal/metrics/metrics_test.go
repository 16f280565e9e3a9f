package metrics

import (
	"math"
	"testing"

	"fp-artifacts/internal/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(t *testing.T) *field.Field {
	t.Helper()
	f, err := field.FromRows([][]float64{
		{0.0, 0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6, 0.7},
		{0.8, 0.9, 1.0, 0.25},
	})
	require.NoError(t, err)
	return f
}

func inverse(t *testing.T, f *field.Field) *field.Field {
	t.Helper()
	out := f.Clone()
	for row := 0; row < f.Height(); row++ {
		for col := 0; col < f.Width(); col++ {
			require.NoError(t, out.Set(row, col, 1-f.Value(row, col)))
		}
	}
	return out
}

func TestSelfComparison(t *testing.T) {
	f := gradient(t)

	mse, err := MeanSquaredError(f, f, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mse)

	r, err := CorrelationRate(f, f.Clone(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 1, r, 1e-12)
}

func TestInverseComparison(t *testing.T) {
	f := gradient(t)
	g := inverse(t, f)

	var want float64
	for _, row := range f.Rows() {
		for _, v := range row {
			want += (1 - 2*v) * (1 - 2*v)
		}
	}
	want /= 12

	mse, err := MeanSquaredError(f, g, 1)
	require.NoError(t, err)
	assert.InDelta(t, want, mse, 1e-12)

	r, err := CorrelationRate(f, g, 1)
	require.NoError(t, err)
	assert.InDelta(t, -1, r, 1e-12)
}

func TestMissingPixelsAreSkipped(t *testing.T) {
	f := gradient(t)
	g := f.Clone()
	require.NoError(t, g.Set(0, 1, -1))
	require.NoError(t, f.Set(2, 3, -1))
	require.NoError(t, g.Set(1, 1, 0.9))

	score, err := Compare(f, g, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, score.Pairs)
	assert.InDelta(t, 0.16/10, score.MSE, 1e-12)
}

func TestStrideSubsamples(t *testing.T) {
	f := gradient(t)
	g := f.Clone()
	require.NoError(t, g.Set(1, 1, 0))

	mse, err := MeanSquaredError(f, g, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mse)

	score, err := Compare(f, gradient(t), 2)
	require.NoError(t, err)
	assert.Equal(t, 4, score.Pairs)
}

func TestDegenerateInputs(t *testing.T) {
	missing, err := field.NewUniform(4, 3, -1)
	require.NoError(t, err)
	_, err = MeanSquaredError(gradient(t), missing, 1)
	assert.ErrorIs(t, err, ErrDegenerate)

	flat, err := field.NewUniform(4, 3, 0.5)
	require.NoError(t, err)
	_, err = CorrelationRate(gradient(t), flat, 1)
	assert.ErrorIs(t, err, ErrDegenerate)

	small, err := field.New(2, 2)
	require.NoError(t, err)
	_, err = MeanSquaredError(gradient(t), small, 1)
	assert.ErrorIs(t, err, field.ErrDimensionMismatch)

	_, err = MeanSquaredError(gradient(t), gradient(t), 0)
	assert.Error(t, err)

	single, err := field.NewUniform(4, 3, -1)
	require.NoError(t, err)
	require.NoError(t, single.Set(1, 2, 0.3))
	_, err = CorrelationRate(single, gradient(t), 1)
	assert.ErrorIs(t, err, ErrDegenerate)

	score, err := Compare(single, single, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, score.Pairs)
	assert.Equal(t, 0.0, score.MSE)
	assert.True(t, math.IsNaN(score.Correlation))
	assert.ErrorIs(t, score.CorrelationErr, ErrDegenerate)
}

func TestCompareReportsMSEForConstantFields(t *testing.T) {
	white, err := field.NewUniform(3, 3, 1)
	require.NoError(t, err)
	gray, err := field.NewUniform(3, 3, 0.5)
	require.NoError(t, err)

	score, err := Compare(white, white, 1)
	require.NoError(t, err)
	assert.Equal(t, 9, score.Pairs)
	assert.Equal(t, 0.0, score.MSE)
	assert.ErrorIs(t, score.CorrelationErr, ErrDegenerate)

	score, err = Compare(white, gray, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.25, score.MSE)
	assert.True(t, math.IsNaN(score.Correlation))

	score, err = Compare(gradient(t), gradient(t), 1)
	require.NoError(t, err)
	assert.NoError(t, score.CorrelationErr)
	assert.InDelta(t, 1, score.Correlation, 1e-12)
}
