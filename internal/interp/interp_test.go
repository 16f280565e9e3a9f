package interp

import (
	"testing"

	"fp-artifacts/internal/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(t *testing.T) *field.Field {
	t.Helper()
	f, err := field.FromRows([][]float64{
		{0.1, 0.2, 0.3, 0.4},
		{0.5, 0.6, 0.7, 0.8},
		{0.9, 1.0, 0.0, 0.3},
		{0.4, 0.2, 0.6, 0.8},
	})
	require.NoError(t, err)
	return f
}

func TestKernelsAgreeOnIntegerCoordinates(t *testing.T) {
	f := grid(t)
	for _, m := range []Method{Nearest, Bilinear, Bicubic} {
		for row := 0; row < f.Height(); row++ {
			for col := 0; col < f.Width(); col++ {
				got := Sample(f, float64(col), float64(row), -1, m)
				assert.Equal(t, f.Value(row, col), got, "%s at row %d col %d", m, row, col)
			}
		}
	}
}

func TestNearestRoundsAndFallsBack(t *testing.T) {
	f := grid(t)
	assert.Equal(t, 0.7, SampleNearest(f, 1.6, 1.4, -1))
	assert.Equal(t, 0.1, SampleNearest(f, -0.4, -0.4, -1))
	assert.Equal(t, -1.0, SampleNearest(f, -0.6, 0, -1))
	assert.Equal(t, 0.5, SampleNearest(f, 3.5, 0, 0.5))
}

func TestBilinearBlendsNeighbors(t *testing.T) {
	f := grid(t)
	// Halfway between 0.1, 0.2, 0.5 and 0.6.
	assert.InDelta(t, 0.35, SampleBilinear(f, 0.5, 0.5, -1), 1e-12)
	// A quarter of the way along the first row.
	assert.InDelta(t, 0.125, SampleBilinear(f, 0.25, 0, -1), 1e-12)
}

func TestBilinearFallsBackPerCorner(t *testing.T) {
	f, err := field.NewUniform(2, 2, 1)
	require.NoError(t, err)

	// Two of the four corners are outside, each contributes the default.
	got := SampleBilinear(f, 1.5, 0.5, 0)
	assert.InDelta(t, 0.5, got, 1e-12)

	// Only one corner is outside.
	got = SampleBilinear(f, 1.5, 1.5, 0.2)
	assert.InDelta(t, 0.25*1+0.25*0.2+0.25*0.2+0.25*0.2, got, 1e-12)

	// Fully outside returns the default.
	assert.InDelta(t, -1, SampleBilinear(f, 10.5, -4.5, -1), 1e-12)
}

func TestBicubicOnConstantField(t *testing.T) {
	f, err := field.NewUniform(6, 6, 0.4)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, SampleBicubic(f, 2.3, 2.7, -1), 1e-12)
}

func TestBicubicSentinelStaysNegative(t *testing.T) {
	f, err := field.NewUniform(3, 3, 0)
	require.NoError(t, err)
	got := SampleBicubic(f, -0.5, 1, -1)
	assert.Less(t, got, 0.0)
	assert.GreaterOrEqual(t, got, -1.0)
}

func TestBicubicClampsOvershoot(t *testing.T) {
	f, err := field.FromRows([][]float64{
		{0, 0, 1, 1, 1},
		{0, 0, 1, 1, 1},
		{0, 0, 1, 1, 1},
		{0, 0, 1, 1, 1},
	})
	require.NoError(t, err)
	for x := 0.0; x <= 4; x += 0.1 {
		v := SampleBicubic(f, x, 1.5, 0)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestBicubicUndershootOnValidDataStaysValid(t *testing.T) {
	rows := make([][]float64, 5)
	for i := range rows {
		rows[i] = []float64{1, 0, 0, 0, 0}
	}
	f, err := field.FromRows(rows)
	require.NoError(t, err)

	assert.Equal(t, 0.0, SampleBicubic(f, 1.5, 2, -1))
	for i := 10; i <= 30; i++ {
		for j := 4; j <= 12; j++ {
			x, y := float64(i)/10, float64(j)/4
			v := SampleBicubic(f, x, y, -1)
			assert.GreaterOrEqual(t, v, 0.0, "x=%g y=%g", x, y)
			assert.LessOrEqual(t, v, 1.0, "x=%g y=%g", x, y)
		}
	}
}

func TestBicubicMissingSourcePixelPropagates(t *testing.T) {
	f, err := field.NewUniform(5, 5, 0.5)
	require.NoError(t, err)
	require.NoError(t, f.Set(2, 2, -1))
	assert.Equal(t, -1.0, SampleBicubic(f, 2, 2, 0))
	assert.Equal(t, 0.5, SampleBicubic(f, 1, 2, 0))
}

func TestCoefficientsPartitionUnity(t *testing.T) {
	for _, tt := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		assert.InDelta(t, 1, C0(tt)+C1(tt)+C2(tt)+C3(tt), 1e-12)
	}
	assert.Equal(t, 1.0, C1(0))
	assert.Equal(t, 1.0, C2(1))
}

func TestParseMethod(t *testing.T) {
	for _, m := range []Method{Nearest, Bilinear, Bicubic} {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := ParseMethod("3")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Order())

	_, err = ParseMethod("lanczos")
	assert.Error(t, err)
}
