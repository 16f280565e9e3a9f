// Package imgio converts between image files and fields.
package imgio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fp-artifacts/internal/field"
)

// ErrUnsupportedFormat is wrapped by an EncodeError when the output
// extension has no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Codec reads and writes fields as grayscale images.
type Codec interface {
	Decode(path string) (*field.Field, error)
	Encode(path string, f *field.Field) error
}

// DecodeError reports a file that could not be read as an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a field that could not be written.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// SupportedFormats returns the extensions the pure Go codec writes.
func SupportedFormats() []string {
	return []string{".png", ".tiff", ".tif", ".jpg", ".jpeg", ".bmp"}
}

// IsSupportedFormat checks the extension of path against SupportedFormats.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
