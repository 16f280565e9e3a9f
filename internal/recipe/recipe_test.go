package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"fp-artifacts/internal/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlRecipe = `
input: in.png
output: out.png
steps:
  - rotate:
      theta_deg: 90
      method: nearest
      default: 0
  - translate: {dx: 1, dy: 0}
  - morph: {op: erode, mode: binary, shape: square, size: 1}
  - fill: {x0: 0, y0: 0, x1: 1, y1: 1, intensity: 0.5}
  - symmetry: {axis: x}
`

const jsonRecipe = `{
  "input": "in.png",
  "output": "out.png",
  "steps": [
    {"rotate": {"theta_deg": 90, "method": "nearest", "default": 0}},
    {"translate": {"dx": 1, "dy": 0}},
    {"morph": {"op": "erode", "mode": "binary", "shape": "square", "size": 1}},
    {"fill": {"x0": 0, "y0": 0, "x1": 1, "y1": 1, "intensity": 0.5}},
    {"symmetry": {"axis": "x"}}
  ]
}`

func TestYAMLAndJSONAgree(t *testing.T) {
	fromYAML, err := Parse([]byte(yamlRecipe), ".yaml")
	require.NoError(t, err)
	fromJSON, err := Parse([]byte(jsonRecipe), "json")
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromJSON)
	require.Len(t, fromYAML.Steps, 5)
	assert.Equal(t, 90.0, fromYAML.Steps[0].Rotate.ThetaDeg)
	assert.Nil(t, fromYAML.Steps[0].Rotate.CenterX)
	assert.Equal(t, "x", fromYAML.Steps[4].Symmetry.Axis)
}

func TestValidateReportsFirstBadStep(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"two operations", "steps:\n  - {fill: {x1: 1}, symmetry: {axis: x}}\n"},
		{"empty step", "steps:\n  - {}\n"},
		{"bad method", "steps:\n  - rotate: {theta_deg: 1, method: lanczos}\n"},
		{"bad op", "steps:\n  - morph: {op: tophat, size: 1}\n"},
		{"bad mode", "steps:\n  - morph: {op: erosion, mode: fuzzy}\n"},
		{"centered opening", "steps:\n  - morph: {op: opening, mode: centered}\n"},
		{"negative size", "steps:\n  - morph: {op: erosion, size: -2}\n"},
		{"bad axis", "steps:\n  - symmetry: {axis: z}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), "yml")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidStep)
			assert.Contains(t, err.Error(), "step 1")
		})
	}

	_, err := Parse([]byte("codec: magick\nsteps: []\n"), "yaml")
	assert.Error(t, err)
	_, err = Parse([]byte("steps: []"), "toml")
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	f, err := field.FromRows([][]float64{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
	})
	require.NoError(t, err)

	r := &Recipe{Steps: []Step{
		{Symmetry: &SymmetryStep{Axis: "y"}},
		{Fill: &FillStep{X0: 0, Y0: 0, X1: 0, Y1: 1, Intensity: 1}},
		{Translate: &TranslateStep{DX: 0, DY: 0, Method: "bicubic"}},
	}}
	out, err := r.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0.2, 0.1}, {1, 0.5, 0.4}}, out.Rows())
	assert.Equal(t, 0.1, f.Value(0, 0), "input left untouched")
}

func TestApplyMorphModes(t *testing.T) {
	f, err := field.FromRows([][]float64{
		{0.9, 0.9, 0.9, 0.9},
		{0.9, 0.1, 0.9, 0.9},
		{0.9, 0.9, 0.9, 0.9},
	})
	require.NoError(t, err)

	gray := &Recipe{Steps: []Step{{Morph: &MorphStep{Op: "erosion", Shape: "cross", Size: 1}}}}
	out, err := gray.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, 0.1, out.Value(0, 1))
	assert.Equal(t, 0.9, out.Value(0, 0))

	binary := &Recipe{Steps: []Step{{Morph: &MorphStep{Op: "none", Mode: "binary"}}}}
	out, err = binary.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Value(1, 1))
	assert.Equal(t, 1.0, out.Value(0, 0))

	centered := &Recipe{Steps: []Step{{Morph: &MorphStep{Op: "dilation", Mode: "centered", Shape: "square"}}}}
	out, err = centered.Apply(f)
	require.NoError(t, err)
	assert.True(t, out.SameSize(f))
}

func TestApplyRotateAroundGivenCenter(t *testing.T) {
	f, err := field.FromRows([][]float64{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
		{0.7, 0.8, 0.9},
	})
	require.NoError(t, err)

	one, zero := 1.0, 0.0
	r := &Recipe{Steps: []Step{
		{Rotate: &RotateStep{ThetaDeg: 90, CenterX: &one, CenterY: &one, Method: "nearest", Default: &zero}},
	}}
	out, err := r.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.3, 0.6, 0.9}, {0.2, 0.5, 0.8}, {0.1, 0.4, 0.7}}, out.Rows())
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"sample.yaml", "sample.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Default().Save(path))

		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Default(), got)
	}

	require.Error(t, Default().Save(filepath.Join(dir, "sample.txt")))

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
