// Package recipe describes an artifact run as an ordered list of steps
// loaded from YAML or JSON.
package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidStep is wrapped by every validation failure.
var ErrInvalidStep = errors.New("invalid recipe step")

// Recipe is one artifact run.
type Recipe struct {
	Input  string `yaml:"input,omitempty" json:"input,omitempty"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
	Codec  string `yaml:"codec,omitempty" json:"codec,omitempty"` // std (default) or cv
	Steps  []Step `yaml:"steps" json:"steps"`
}

// Step holds exactly one operation.
type Step struct {
	Rotate    *RotateStep    `yaml:"rotate,omitempty" json:"rotate,omitempty"`
	Translate *TranslateStep `yaml:"translate,omitempty" json:"translate,omitempty"`
	Morph     *MorphStep     `yaml:"morph,omitempty" json:"morph,omitempty"`
	Fill      *FillStep      `yaml:"fill,omitempty" json:"fill,omitempty"`
	Symmetry  *SymmetryStep  `yaml:"symmetry,omitempty" json:"symmetry,omitempty"`
}

// RotateStep rotates counter-clockwise by ThetaDeg degrees around the
// given center, or the image center when unset.
type RotateStep struct {
	ThetaDeg float64  `yaml:"theta_deg" json:"theta_deg"`
	CenterX  *float64 `yaml:"center_x,omitempty" json:"center_x,omitempty"`
	CenterY  *float64 `yaml:"center_y,omitempty" json:"center_y,omitempty"`
	Method   string   `yaml:"method,omitempty" json:"method,omitempty"`
	Default  *float64 `yaml:"default,omitempty" json:"default,omitempty"`
}

// TranslateStep shifts the image by (DX, DY) pixels.
type TranslateStep struct {
	DX      float64  `yaml:"dx" json:"dx"`
	DY      float64  `yaml:"dy" json:"dy"`
	Method  string   `yaml:"method,omitempty" json:"method,omitempty"`
	Default *float64 `yaml:"default,omitempty" json:"default,omitempty"`
}

// MorphStep runs a morphological filter. In centered mode Size is the
// largest element size, zero meaning the default.
type MorphStep struct {
	Op    string `yaml:"op" json:"op"`
	Mode  string `yaml:"mode,omitempty" json:"mode,omitempty"` // binary, gray (default) or centered
	Shape string `yaml:"shape,omitempty" json:"shape,omitempty"`
	Size  int    `yaml:"size" json:"size"`
	Flat  *bool  `yaml:"flat,omitempty" json:"flat,omitempty"`
}

// FillStep paints the inclusive rectangle (X0,Y0)-(X1,Y1).
type FillStep struct {
	X0        int     `yaml:"x0" json:"x0"`
	Y0        int     `yaml:"y0" json:"y0"`
	X1        int     `yaml:"x1" json:"x1"`
	Y1        int     `yaml:"y1" json:"y1"`
	Intensity float64 `yaml:"intensity" json:"intensity"`
}

// SymmetryStep mirrors the image about Axis (x, y, diag1, diag2).
type SymmetryStep struct {
	Axis string `yaml:"axis" json:"axis"`
}

// Load reads a recipe file. The format follows the extension: .yaml/.yml
// or .json.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	r, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a recipe. format is a file extension.
func Parse(data []byte, format string) (*Recipe, error) {
	var r Recipe
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("failed to parse recipe: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("failed to parse recipe: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown recipe format %q", format)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Save writes r to path, in YAML or JSON by extension.
func (r *Recipe) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(r)
	case ".json":
		data, err = json.MarshalIndent(r, "", "  ")
	default:
		return fmt.Errorf("unknown recipe format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to encode recipe: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns a sample recipe: a slight rotation, ridge thickening and
// a smudge.
func Default() *Recipe {
	flat := false
	return &Recipe{
		Input:  "print.png",
		Output: "print_artifact.png",
		Codec:  "std",
		Steps: []Step{
			{Rotate: &RotateStep{ThetaDeg: 8, Method: "bicubic"}},
			{Morph: &MorphStep{Op: "erosion", Mode: "gray", Shape: "circle", Size: 1, Flat: &flat}},
			{Morph: &MorphStep{Op: "dilation", Mode: "centered", Shape: "diamond", Size: 3}},
			{Fill: &FillStep{X0: 10, Y0: 10, X1: 24, Y1: 18, Intensity: 1}},
		},
	}
}
