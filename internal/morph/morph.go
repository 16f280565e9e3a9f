package morph

import (
	"fmt"
	"strings"

	"fp-artifacts/internal/field"
)

// Op selects a morphological operation.
type Op int

const (
	None Op = iota
	Erosion
	Dilation
	Opening
	Closing
)

func (o Op) String() string {
	switch o {
	case Erosion:
		return "erosion"
	case Dilation:
		return "dilation"
	case Opening:
		return "opening"
	case Closing:
		return "closing"
	default:
		return "none"
	}
}

// ParseOp converts an operation name. Short forms erode, dilate, open and
// close are accepted.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "erosion", "erode":
		return Erosion, nil
	case "dilation", "dilate":
		return Dilation, nil
	case "opening", "open":
		return Opening, nil
	case "closing", "close":
		return Closing, nil
	}
	return None, fmt.Errorf("unknown morphological operation %q", s)
}

// Erode shrinks the foreground (dark pixels) of m: a pixel stays dark only
// when the element placed on it covers dark pixels exclusively. Positions
// past the border are not checked, so foreground touching the border
// survives erosion there.
func Erode(m *field.Mask, se *Element) *field.Mask {
	out := newMaskLike(m.Width(), m.Height())
	for row := 0; row < m.Height(); row++ {
		for col := 0; col < m.Width(); col++ {
			_ = out.Set(row, col, !se.Include(m, row, col))
		}
	}
	return out
}

// Dilate grows the foreground of m: a pixel turns dark when the element
// placed on it touches any dark pixel.
func Dilate(m *field.Mask, se *Element) *field.Mask {
	out := newMaskLike(m.Width(), m.Height())
	for row := 0; row < m.Height(); row++ {
		for col := 0; col < m.Width(); col++ {
			_ = out.Set(row, col, !se.Hit(m, row, col))
		}
	}
	return out
}

// Open is an erosion followed by a dilation.
func Open(m *field.Mask, se *Element) *field.Mask {
	return Dilate(Erode(m, se), se)
}

// Close is a dilation followed by an erosion.
func Close(m *field.Mask, se *Element) *field.Mask {
	return Erode(Dilate(m, se), se)
}

// ErodeGray is the grayscale erosion of f: each pixel takes the weighted
// minimum of its neighborhood. Ridges are dark, so they widen.
func ErodeGray(f *field.Field, se *Element) *field.Field {
	return grayPass(f, se.Min)
}

// DilateGray is the grayscale dilation of f: each pixel takes the weighted
// maximum of its neighborhood.
func DilateGray(f *field.Field, se *Element) *field.Field {
	return grayPass(f, se.Max)
}

// OpenGray is a grayscale erosion followed by a grayscale dilation.
func OpenGray(f *field.Field, se *Element) *field.Field {
	return DilateGray(ErodeGray(f, se), se)
}

// CloseGray is a grayscale dilation followed by a grayscale erosion.
func CloseGray(f *field.Field, se *Element) *field.Field {
	return ErodeGray(DilateGray(f, se), se)
}

func grayPass(f *field.Field, reduce func(*field.Field, int, int) float64) *field.Field {
	w, h := f.Width(), f.Height()
	out := make([]float64, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			out[row*w+col] = reduce(f, row, col)
		}
	}
	res, err := field.FromSlice(out, w, h, true)
	if err != nil {
		panic(err)
	}
	return res
}

// ApplyMask runs op on a binary mask. None returns a copy.
func ApplyMask(m *field.Mask, op Op, se *Element) *field.Mask {
	switch op {
	case Erosion:
		return Erode(m, se)
	case Dilation:
		return Dilate(m, se)
	case Opening:
		return Open(m, se)
	case Closing:
		return Close(m, se)
	default:
		return m.Clone()
	}
}

// FilterBinary binarizes f with Otsu's threshold, runs op and converts the
// result back to a 0/1 field.
func FilterBinary(f *field.Field, op Op, se *Element) (*field.Field, error) {
	m, _, err := Binarize(f)
	if err != nil {
		return nil, fmt.Errorf("binarize: %w", err)
	}
	return ApplyMask(m, op, se).ToField(), nil
}

// FilterGray runs op on f without thresholding. None returns a copy.
func FilterGray(f *field.Field, op Op, se *Element) *field.Field {
	switch op {
	case Erosion:
		return ErodeGray(f, se)
	case Dilation:
		return DilateGray(f, se)
	case Opening:
		return OpenGray(f, se)
	case Closing:
		return CloseGray(f, se)
	default:
		return f.Clone()
	}
}
