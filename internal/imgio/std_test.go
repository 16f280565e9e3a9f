package imgio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"fp-artifacts/internal/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *field.Field {
	t.Helper()
	f, err := field.FromRows([][]float64{
		{0, 0.25, 0.5},
		{0.75, 1, -1},
	})
	require.NoError(t, err)
	return f
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		delta float64
	}{
		{"out.png", 1e-4},
		{"out.tiff", 1e-4},
		{"out.bmp", 3e-3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, Std{}.Encode(path, sample(t)))

			got, err := Std{}.Decode(path)
			require.NoError(t, err)
			assert.Equal(t, path, got.Path)
			want := [][]float64{{0, 0.25, 0.5}, {0.75, 1, 0}}
			for j, row := range want {
				for i, v := range row {
					assert.InDelta(t, v, got.Value(j, i), tt.delta, "row %d col %d", j, i)
				}
			}
		})
	}
}

func TestDecodeBytesUsesLuminance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.White)
	img.Set(1, 0, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	f, err := DecodeBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}}, f.Rows())
}

func TestDecodeErrors(t *testing.T) {
	_, err := Std{}.Decode(filepath.Join(t.TempDir(), "missing.png"))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = Std{}.Decode(garbage)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, garbage, de.Path)

	_, err = DecodeBytes(nil)
	assert.ErrorAs(t, err, &de)
}

func TestEncodeErrors(t *testing.T) {
	dir := t.TempDir()
	err := Std{}.Encode(filepath.Join(dir, "out.xyz"), sample(t))
	var ee *EncodeError
	require.ErrorAs(t, err, &ee)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	err = Std{}.Encode(filepath.Join(dir, "missing", "out.png"), sample(t))
	assert.ErrorAs(t, err, &ee)
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("a/b/print.PNG"))
	assert.True(t, IsSupportedFormat("print.tif"))
	assert.False(t, IsSupportedFormat("print.pgm"))
}
