package imgio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"fp-artifacts/internal/field"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Std is the pure Go codec. It needs no native library.
type Std struct {
	// JPEGQuality is used for .jpg output; zero means jpeg.DefaultQuality.
	JPEGQuality int
}

// Decode reads the image at path. Color images are reduced to their
// luminance; intensities are normalized to [0,1].
func (s Std) Decode(path string) (*field.Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer file.Close()

	f, err := decode(file)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	f.Path = path
	return f, nil
}

// DecodeBytes reads an in-memory image.
func DecodeBytes(data []byte) (*field.Field, error) {
	f, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Path: "<memory>", Err: err}
	}
	return f, nil
}

func decode(r io.Reader) (*field.Field, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(img)
}

// FromImage converts any image to a field of normalized luminance.
func FromImage(img image.Image) (*field.Field, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]float64, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			data = append(data, float64(g.Y)/math.MaxUint16)
		}
	}
	return field.FromSlice(data, w, h, true)
}

// ToGray16 renders f as a 16-bit image. Negative values become black and
// values above 1 white.
func ToGray16(f *field.Field) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, f.Width(), f.Height()))
	for row := 0; row < f.Height(); row++ {
		for col := 0; col < f.Width(); col++ {
			img.SetGray16(col, row, color.Gray16{Y: uint16(math.Round(level(f.Value(row, col)) * math.MaxUint16))})
		}
	}
	return img
}

// ToGray renders f as an 8-bit image.
func ToGray(f *field.Field) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width(), f.Height()))
	for row := 0; row < f.Height(); row++ {
		for col := 0; col < f.Width(); col++ {
			img.SetGray(col, row, color.Gray{Y: uint8(math.Round(level(f.Value(row, col)) * math.MaxUint8))})
		}
	}
	return img
}

func level(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Encode writes f to path in the format given by its extension.
func (s Std) Encode(path string, f *field.Field) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupportedFormat(path) {
		return &EncodeError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}

	file, err := os.Create(path)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	if err := s.write(file, ext, f); err != nil {
		file.Close()
		return &EncodeError{Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}

func (s Std) write(w io.Writer, ext string, f *field.Field) error {
	switch ext {
	case ".png":
		return png.Encode(w, ToGray16(f))
	case ".tif", ".tiff":
		return tiff.Encode(w, ToGray16(f), &tiff.Options{Compression: tiff.Deflate})
	case ".jpg", ".jpeg":
		q := s.JPEGQuality
		if q == 0 {
			q = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, ToGray(f), &jpeg.Options{Quality: q})
	default:
		return bmp.Encode(w, ToGray(f))
	}
}
