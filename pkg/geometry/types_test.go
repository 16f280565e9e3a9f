package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInverseUndoesTransform(t *testing.T) {
	transforms := []AffineTransform{
		Identity(),
		Translation(3, -7.5),
		Rotation(math.Pi / 5),
		RotationAbout(1.2, NewPoint2D(10, 4)),
		Translation(2, 1).Compose(Rotation(-0.3)),
	}
	p := NewPoint2D(12.5, -3)
	for _, tr := range transforms {
		inv, ok := tr.Inverse()
		require.True(t, ok)
		back := inv.Apply(tr.Apply(p))
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}
}

func TestSingularTransformHasNoInverse(t *testing.T) {
	_, ok := AffineTransform{A: 1, B: 2, C: 2, D: 4}.Inverse()
	assert.False(t, ok)
}

func TestRotationAboutKeepsCenterFixed(t *testing.T) {
	c := NewPoint2D(5, 9)
	got := RotationAbout(2.1, c).Apply(c)
	assert.InDelta(t, c.X, got.X, 1e-12)
	assert.InDelta(t, c.Y, got.Y, 1e-12)
}

func TestRotationQuarterTurn(t *testing.T) {
	got := Rotation(math.Pi / 2).Apply(NewPoint2D(1, 0))
	assert.InDelta(t, 0, got.X, 1e-12)
	assert.InDelta(t, 1, got.Y, 1e-12)
}

func TestRound(t *testing.T) {
	assert.Equal(t, PointInt{X: 3, Y: -2}, NewPoint2D(2.5, -1.5).Round())
	assert.Equal(t, PointInt{X: 0, Y: 1}, NewPoint2D(0.49, 0.51).Round())
}

func TestPointArithmetic(t *testing.T) {
	p := NewPoint2D(4, -1.5)
	q := NewPoint2D(0.5, 2)
	assert.Equal(t, NewPoint2D(4.5, 0.5), p.Add(q))
	assert.Equal(t, NewPoint2D(3.5, -3.5), p.Sub(q))
	assert.Equal(t, p, p.Sub(q).Add(q))
	assert.Equal(t, NewPoint2D(-3, 7), PointInt{X: -3, Y: 7}.ToFloat())
}
