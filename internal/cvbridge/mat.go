// Package cvbridge connects fields to OpenCV through gocv. It provides an
// OpenCV-backed codec, a display window and reference implementations used
// to cross-check the native warp, threshold and morphology.
package cvbridge

import (
	"fmt"
	"math"

	"fp-artifacts/internal/field"
	"fp-artifacts/internal/imgio"

	"gocv.io/x/gocv"
)

// ToMat converts f to a single channel 8-bit Mat. Negative values become 0.
// The caller owns the returned Mat.
func ToMat(f *field.Field) (gocv.Mat, error) {
	img := imgio.ToGray(f)
	borrowed, err := gocv.NewMatFromBytes(f.Height(), f.Width(), gocv.MatTypeCV8UC1, img.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to create mat: %w", err)
	}
	defer borrowed.Close()
	// borrowed points into img.Pix.
	return borrowed.Clone(), nil
}

// FromMat converts an 8-bit Mat to a field. Three channel images are
// converted to gray first.
func FromMat(mat gocv.Mat) (*field.Field, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("empty mat")
	}

	gray := mat
	if mat.Channels() == 3 {
		gray = gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
	}
	if gray.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("unsupported mat type %v", gray.Type())
	}

	h, w := gray.Rows(), gray.Cols()
	data := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			data[y*w+x] = float64(gray.GetUCharAt(y, x)) / math.MaxUint8
		}
	}
	return field.FromSlice(data, w, h, true)
}
