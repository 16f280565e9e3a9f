package morph

import (
	"testing"

	"fp-artifacts/internal/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spot(t *testing.T) *field.Field {
	t.Helper()
	f, err := field.NewUniform(7, 7, 0.5)
	require.NoError(t, err)
	require.NoError(t, f.Set(3, 3, 0.9))
	return f
}

func TestCenteredErosionKeepsBarycenter(t *testing.T) {
	f := spot(t)
	out, err := Centered(f, Erosion, Square, true, DefaultCenteredOptions())
	require.NoError(t, err)

	assert.Equal(t, 0.9, out.Value(3, 3))
	assert.Equal(t, 0.5, out.Value(3, 4))
	assert.Equal(t, 0.5, out.Value(0, 0))
}

func TestCenteredDilationStrongestAtBarycenter(t *testing.T) {
	f := spot(t)
	out, err := Centered(f, Dilation, Square, true, DefaultCenteredOptions())
	require.NoError(t, err)

	assert.Equal(t, 0.9, out.Value(3, 3))
	assert.Equal(t, 0.9, out.Value(3, 4))
	assert.Equal(t, 0.5, out.Value(0, 0))
}

func TestCenteredKeepsMissingCorners(t *testing.T) {
	f := spot(t)
	for _, p := range [][2]int{{0, 0}, {0, 6}, {6, 0}, {6, 6}} {
		require.NoError(t, f.Set(p[0], p[1], -1))
	}
	for _, op := range []Op{Erosion, Dilation} {
		out, err := Centered(f, op, Square, true, DefaultCenteredOptions())
		require.NoError(t, err)
		assert.Equal(t, -1.0, out.Value(0, 0), op.String())
		assert.Equal(t, -1.0, out.Value(6, 6), op.String())
		assert.Equal(t, 0.5, out.Value(0, 1), op.String())
		assert.Equal(t, 0.5, out.Value(1, 1), op.String())
	}
}

func TestCenteredRejectsCompositeOps(t *testing.T) {
	f := spot(t)
	for _, op := range []Op{None, Opening, Closing} {
		_, err := Centered(f, op, Cross, true, DefaultCenteredOptions())
		assert.Error(t, err, op.String())
	}
	_, err := Centered(f, Erosion, Cross, true, DefaultCenteredOptions().WithMaxSize(-1))
	assert.ErrorIs(t, err, ErrInvalidElement)
}
