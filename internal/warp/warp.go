// Package warp applies geometric transforms to fields by inverse mapping:
// every destination pixel is filled by sampling the source at the position
// the forward transform would have moved to it.
package warp

import (
	"fmt"
	"math"

	"fp-artifacts/internal/field"
	"fp-artifacts/internal/interp"
	"fp-artifacts/pkg/geometry"
)

// Options configures a warp.
type Options struct {
	Method interp.Method

	// DefaultIntensity fills destination pixels whose source lies outside
	// the field. Negative values mark them as unknown.
	DefaultIntensity float64
}

// DefaultOptions returns bilinear sampling with unknown (-1) gaps.
func DefaultOptions() Options {
	return Options{
		Method:           interp.Bilinear,
		DefaultIntensity: -1,
	}
}

// WithMethod returns a copy of o using method m.
func (o Options) WithMethod(m interp.Method) Options {
	o.Method = m
	return o
}

// WithDefault returns a copy of o filling gaps with intensity v.
func (o Options) WithDefault(v float64) Options {
	o.DefaultIntensity = v
	return o
}

// InverseRotation maps destination pixel (k, l) (column, row) back to its
// source position for a rotation of theta radians about center. Positive
// theta turns the image counter-clockwise as displayed.
func InverseRotation(k, l int, center geometry.Point2D, theta float64) geometry.Point2D {
	cos, sin := math.Cos(theta), math.Sin(theta)
	d := geometry.PointInt{X: k, Y: l}.ToFloat().Sub(center)
	return geometry.Point2D{
		X: cos*d.X - sin*d.Y,
		Y: sin*d.X + cos*d.Y,
	}.Add(center)
}

// InverseTranslation maps destination pixel (k, l) back to its source
// position for a shift of (dx, dy).
func InverseTranslation(k, l int, dx, dy float64) geometry.Point2D {
	return geometry.PointInt{X: k, Y: l}.ToFloat().Sub(geometry.NewPoint2D(dx, dy))
}

// RotationTransform returns the forward transform matching Rotate.
func RotationTransform(theta float64, center geometry.Point2D) geometry.AffineTransform {
	return geometry.RotationAbout(-theta, center)
}

// Rotate turns f by theta radians about center. The center may lie outside
// the image.
func Rotate(f *field.Field, theta float64, center geometry.Point2D, opts Options) *field.Field {
	return remap(f, opts, func(k, l int) geometry.Point2D {
		return InverseRotation(k, l, center, theta)
	})
}

// Translate shifts f by (dx, dy) pixels.
func Translate(f *field.Field, dx, dy float64, opts Options) *field.Field {
	return remap(f, opts, func(k, l int) geometry.Point2D {
		return InverseTranslation(k, l, dx, dy)
	})
}

// Affine applies the forward transform t (source to destination).
func Affine(f *field.Field, t geometry.AffineTransform, opts Options) (*field.Field, error) {
	inv, ok := t.Inverse()
	if !ok {
		return nil, fmt.Errorf("transform %v is not invertible", t.ToMatrix())
	}
	return remap(f, opts, func(k, l int) geometry.Point2D {
		return inv.Apply(geometry.Point2D{X: float64(k), Y: float64(l)})
	}), nil
}

// Center returns the geometric center of f, the usual rotation pivot.
func Center(f *field.Field) geometry.Point2D {
	return geometry.Point2D{X: float64(f.Width()-1) / 2, Y: float64(f.Height()-1) / 2}
}

func remap(f *field.Field, opts Options, source func(k, l int) geometry.Point2D) *field.Field {
	w, h := f.Width(), f.Height()
	out := make([]float64, w*h)
	for l := 0; l < h; l++ {
		for k := 0; k < w; k++ {
			p := source(k, l)
			out[l*w+k] = interp.Sample(f, p.X, p.Y, opts.DefaultIntensity, opts.Method)
		}
	}
	// Dimensions come from a valid field, construction cannot fail.
	dst, err := field.FromSlice(out, w, h, true)
	if err != nil {
		panic(err)
	}
	return dst
}
