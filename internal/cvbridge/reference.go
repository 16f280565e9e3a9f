package cvbridge

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"fp-artifacts/internal/field"
	"fp-artifacts/internal/interp"
	"fp-artifacts/internal/morph"
	"fp-artifacts/pkg/geometry"

	"gocv.io/x/gocv"
)

// OtsuReference returns OpenCV's Otsu threshold of f on the same [0,1]
// scale as morph.Threshold. Missing pixels count as black.
func OtsuReference(f *field.Field) (float64, error) {
	src, err := ToMat(f)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	t := gocv.Threshold(src, &dst, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	// OpenCV keeps values strictly above t.
	return (float64(t) + 1) / 256, nil
}

// WarpReference warps f with OpenCV. forward maps source to destination
// coordinates; gaps are filled with def (clamped to [0,1]).
func WarpReference(f *field.Field, forward geometry.AffineTransform, method interp.Method, def float64) (*field.Field, error) {
	src, err := ToMat(f)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	transformMat := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer transformMat.Close()
	m := forward.ToMatrix()
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			transformMat.SetDoubleAt(row, col, m[row][col])
		}
	}

	border := uint8(math.Round(math.Max(0, math.Min(1, def)) * 255))
	dst := gocv.NewMat()
	defer dst.Close()
	gocv.WarpAffineWithParams(src, &dst, transformMat, image.Point{X: f.Width(), Y: f.Height()},
		interpolationFlag(method), gocv.BorderConstant, color.RGBA{R: border, G: border, B: border, A: 255})

	return FromMat(dst)
}

func interpolationFlag(m interp.Method) gocv.InterpolationFlags {
	switch m {
	case interp.Nearest:
		return gocv.InterpolationNearestNeighbor
	case interp.Bicubic:
		return gocv.InterpolationCubic
	default:
		return gocv.InterpolationLinear
	}
}

// MorphReference runs op on f with OpenCV's flat grayscale morphology, using
// the positions of se as kernel. Weights are ignored.
func MorphReference(f *field.Field, op morph.Op, se *morph.Element) (*field.Field, error) {
	src, err := ToMat(f)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ar, ac := se.Anchor()
	if 2*ar+1 != se.Height() || 2*ac+1 != se.Width() {
		return nil, fmt.Errorf("reference needs a centered anchor, got (%d,%d) in %dx%d", ar, ac, se.Width(), se.Height())
	}
	kernel := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), se.Height(), se.Width(), gocv.MatTypeCV8U)
	defer kernel.Close()
	for _, o := range se.Offsets() {
		kernel.SetUCharAt(ar+o.DRow, ac+o.DCol, 1)
	}

	dst := gocv.NewMat()
	defer dst.Close()
	switch op {
	case morph.Erosion:
		gocv.Erode(src, &dst, kernel)
	case morph.Dilation:
		gocv.Dilate(src, &dst, kernel)
	case morph.Opening:
		gocv.MorphologyEx(src, &dst, gocv.MorphOpen, kernel)
	case morph.Closing:
		gocv.MorphologyEx(src, &dst, gocv.MorphClose, kernel)
	default:
		return nil, fmt.Errorf("no reference for %s", op)
	}
	return FromMat(dst)
}
