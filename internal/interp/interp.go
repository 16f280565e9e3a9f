// Package interp samples a field at fractional coordinates.
//
// x is the column and y the row. Samples that land outside the field take
// the caller's default intensity; a negative default marks the result as
// unknown for the metrics.
package interp

import (
	"fmt"
	"math"
	"strings"

	"fp-artifacts/internal/field"
	"fp-artifacts/pkg/geometry"
)

// Method selects the interpolation kernel.
type Method int

const (
	Nearest  Method = iota // order 0
	Bilinear               // order 1
	Bicubic                // order 3
)

// Order returns the polynomial order of the kernel.
func (m Method) Order() int {
	switch m {
	case Bilinear:
		return 1
	case Bicubic:
		return 3
	default:
		return 0
	}
}

func (m Method) String() string {
	switch m {
	case Bilinear:
		return "bilinear"
	case Bicubic:
		return "bicubic"
	default:
		return "nearest"
	}
}

// ParseMethod accepts a method name or its order ("0", "1", "3").
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest", "0":
		return Nearest, nil
	case "bilinear", "linear", "1":
		return Bilinear, nil
	case "bicubic", "cubic", "3":
		return Bicubic, nil
	}
	return Nearest, fmt.Errorf("unknown interpolation method %q", s)
}

// Sample dispatches to the kernel selected by m.
func Sample(f *field.Field, x, y, def float64, m Method) float64 {
	switch m {
	case Bilinear:
		return SampleBilinear(f, x, y, def)
	case Bicubic:
		return SampleBicubic(f, x, y, def)
	default:
		return SampleNearest(f, x, y, def)
	}
}

// SampleNearest returns the pixel closest to (x, y).
func SampleNearest(f *field.Field, x, y, def float64) float64 {
	p := geometry.NewPoint2D(x, y).Round()
	if !f.InBounds(p.Y, p.X) {
		return def
	}
	return f.Value(p.Y, p.X)
}

// SampleBilinear blends the four pixels around (x, y). Each corner outside
// the field contributes def on its own; the sample is never rejected.
func SampleBilinear(f *field.Field, x, y, def float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	dx := x - x0
	dy := y - y0
	col, row := int(x0), int(y0)

	top := (1-dx)*pixel(f, row, col, def) + dx*pixel(f, row, col+1, def)
	bottom := (1-dx)*pixel(f, row+1, col, def) + dx*pixel(f, row+1, col+1, def)
	return (1-dy)*top + dy*bottom
}

// SampleBicubic runs the Catmull-Rom kernel over the 4x4 neighborhood of
// (x, y), with the same per-pixel fallback as SampleBilinear. The result is
// clamped to [0, 1]; the lower bound drops to the smallest negative
// neighbor (def included) only when such a neighbor carries weight.
func SampleBicubic(f *field.Field, x, y, def float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	tx := x - x0
	ty := y - y0
	col, row := int(x0), int(y0)

	cx := [4]float64{C0(tx), C1(tx), C2(tx), C3(tx)}
	cy := [4]float64{C0(ty), C1(ty), C2(ty), C3(ty)}

	var v, lo float64
	for j := 0; j < 4; j++ {
		if cy[j] == 0 {
			continue
		}
		var line float64
		for i := 0; i < 4; i++ {
			if cx[i] == 0 {
				continue
			}
			s := pixel(f, row-1+j, col-1+i, def)
			lo = math.Min(lo, s)
			line += cx[i] * s
		}
		v += cy[j] * line
	}

	return math.Max(lo, math.Min(1, v))
}

func pixel(f *field.Field, row, col int, def float64) float64 {
	if !f.InBounds(row, col) {
		return def
	}
	return f.Value(row, col)
}

// C0 is the Catmull-Rom weight of the sample one step before the cell.
func C0(t float64) float64 {
	return (-t*t*t + 2*t*t - t) / 2
}

// C1 is the weight of the cell's own sample.
func C1(t float64) float64 {
	return (3*t*t*t - 5*t*t + 2) / 2
}

// C2 is the weight of the next sample.
func C2(t float64) float64 {
	return (-3*t*t*t + 4*t*t + t) / 2
}

// C3 is the weight of the sample two steps after the cell.
func C3(t float64) float64 {
	return (t*t*t - t*t) / 2
}
