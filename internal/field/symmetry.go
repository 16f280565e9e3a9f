package field

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Axis selects the mirror used by Symmetry.
type Axis int

const (
	AxisNone  Axis = iota
	AxisX          // mirror top and bottom
	AxisY          // mirror left and right
	AxisDiag1      // transpose along the top-left/bottom-right diagonal
	AxisDiag2      // transpose along the top-right/bottom-left diagonal
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisDiag1:
		return "diag1"
	case AxisDiag2:
		return "diag2"
	default:
		return "none"
	}
}

// ParseAxis converts a name as printed by Axis.String.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AxisNone, nil
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "diag1":
		return AxisDiag1, nil
	case "diag2":
		return AxisDiag2, nil
	}
	return AxisNone, fmt.Errorf("unknown symmetry axis %q", s)
}

// Symmetry returns the mirror image of the field. Diagonal axes swap the
// width and the height.
func (f *Field) Symmetry(axis Axis) *Field {
	w, h := f.w, f.h
	if axis == AxisDiag1 || axis == AxisDiag2 {
		w, h = h, w
	}
	out := &Field{data: mat.NewDense(h, w, nil), w: w, h: h}
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			var sj, si int
			switch axis {
			case AxisX:
				sj, si = f.h-1-j, i
			case AxisY:
				sj, si = j, f.w-1-i
			case AxisDiag1:
				sj, si = i, j
			case AxisDiag2:
				sj, si = f.h-1-i, f.w-1-j
			default:
				sj, si = j, i
			}
			out.set(j, i, f.data.At(sj, si))
		}
	}
	return out
}
