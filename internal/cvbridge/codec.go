package cvbridge

import (
	"errors"

	"fp-artifacts/internal/field"
	"fp-artifacts/internal/imgio"

	"gocv.io/x/gocv"
)

// Codec reads and writes images with OpenCV, which also handles the
// netpbm formats the pure Go codec lacks.
type Codec struct{}

var _ imgio.Codec = Codec{}

// Decode reads path as a grayscale image.
func (Codec) Decode(path string) (*field.Field, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer mat.Close()
	if mat.Empty() {
		return nil, &imgio.DecodeError{Path: path, Err: errors.New("opencv could not read image")}
	}

	f, err := FromMat(mat)
	if err != nil {
		return nil, &imgio.DecodeError{Path: path, Err: err}
	}
	f.Path = path
	return f, nil
}

// Encode writes f to path; OpenCV picks the format from the extension.
func (Codec) Encode(path string, f *field.Field) error {
	mat, err := ToMat(f)
	if err != nil {
		return &imgio.EncodeError{Path: path, Err: err}
	}
	defer mat.Close()

	if !gocv.IMWrite(path, mat) {
		return &imgio.EncodeError{Path: path, Err: errors.New("opencv could not write image")}
	}
	return nil
}

// Show opens a window titled title with f and blocks until a key is pressed.
func Show(f *field.Field, title string) error {
	mat, err := ToMat(f)
	if err != nil {
		return err
	}
	defer mat.Close()

	window := gocv.NewWindow(title)
	defer window.Close()
	window.IMShow(mat)
	window.WaitKey(0)
	return nil
}
