package recipe

import (
	"fmt"
	"log"
	"math"

	"fp-artifacts/internal/field"
	"fp-artifacts/internal/interp"
	"fp-artifacts/internal/morph"
	"fp-artifacts/internal/warp"
	"fp-artifacts/pkg/geometry"
)

// Validate checks the codec and every step, reporting the first problem.
func (r *Recipe) Validate() error {
	switch r.Codec {
	case "", "std", "cv":
	default:
		return fmt.Errorf("unknown codec %q", r.Codec)
	}
	for i, s := range r.Steps {
		if err := s.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	n := 0
	for _, set := range []bool{s.Rotate != nil, s.Translate != nil, s.Morph != nil, s.Fill != nil, s.Symmetry != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("%w: want exactly one operation, got %d", ErrInvalidStep, n)
	}

	switch {
	case s.Rotate != nil:
		_, err := warpOptions(s.Rotate.Method, s.Rotate.Default)
		return err
	case s.Translate != nil:
		_, err := warpOptions(s.Translate.Method, s.Translate.Default)
		return err
	case s.Morph != nil:
		_, err := s.Morph.resolve()
		return err
	case s.Symmetry != nil:
		if _, err := field.ParseAxis(s.Symmetry.Axis); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidStep, err)
		}
	}
	return nil
}

// String describes the step for logs.
func (s Step) String() string {
	switch {
	case s.Rotate != nil:
		return fmt.Sprintf("rotate %.2f deg", s.Rotate.ThetaDeg)
	case s.Translate != nil:
		return fmt.Sprintf("translate (%.2f, %.2f)", s.Translate.DX, s.Translate.DY)
	case s.Morph != nil:
		mode := s.Morph.Mode
		if mode == "" {
			mode = "gray"
		}
		return fmt.Sprintf("%s %s %s size %d", mode, s.Morph.Op, s.Morph.Shape, s.Morph.Size)
	case s.Fill != nil:
		return fmt.Sprintf("fill (%d,%d)-(%d,%d) with %.2f", s.Fill.X0, s.Fill.Y0, s.Fill.X1, s.Fill.Y1, s.Fill.Intensity)
	case s.Symmetry != nil:
		return "symmetry " + s.Symmetry.Axis
	}
	return "empty step"
}

// Apply runs the steps on a copy of f and returns the result.
func (r *Recipe) Apply(f *field.Field) (*field.Field, error) {
	out := f.Clone()
	for i, s := range r.Steps {
		log.Printf("Step %d/%d: %s", i+1, len(r.Steps), s)
		next, err := s.apply(out)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, s, err)
		}
		out = next
	}
	return out, nil
}

func (s Step) apply(f *field.Field) (*field.Field, error) {
	switch {
	case s.Rotate != nil:
		opts, err := warpOptions(s.Rotate.Method, s.Rotate.Default)
		if err != nil {
			return nil, err
		}
		return warp.Rotate(f, s.Rotate.ThetaDeg*math.Pi/180, s.Rotate.Center(f), opts), nil

	case s.Translate != nil:
		opts, err := warpOptions(s.Translate.Method, s.Translate.Default)
		if err != nil {
			return nil, err
		}
		return warp.Translate(f, s.Translate.DX, s.Translate.DY, opts), nil

	case s.Morph != nil:
		return s.Morph.apply(f)

	case s.Fill != nil:
		out := f.Clone()
		out.RectangleFill(s.Fill.X0, s.Fill.Y0, s.Fill.X1, s.Fill.Y1, s.Fill.Intensity)
		return out, nil

	case s.Symmetry != nil:
		axis, err := field.ParseAxis(s.Symmetry.Axis)
		if err != nil {
			return nil, err
		}
		return f.Symmetry(axis), nil
	}
	return nil, fmt.Errorf("%w: no operation", ErrInvalidStep)
}

func warpOptions(method string, def *float64) (warp.Options, error) {
	opts := warp.DefaultOptions()
	if method != "" {
		m, err := interp.ParseMethod(method)
		if err != nil {
			return opts, fmt.Errorf("%w: %v", ErrInvalidStep, err)
		}
		opts = opts.WithMethod(m)
	}
	if def != nil {
		opts = opts.WithDefault(*def)
	}
	return opts, nil
}

// morphPlan is a MorphStep with its names resolved.
type morphPlan struct {
	op    morph.Op
	mode  string
	shape morph.Shape
	flat  bool
}

func (m *MorphStep) resolve() (morphPlan, error) {
	op, err := morph.ParseOp(m.Op)
	if err != nil {
		return morphPlan{}, fmt.Errorf("%w: %v", ErrInvalidStep, err)
	}
	p := morphPlan{op: op, mode: m.Mode, flat: m.Flat == nil || *m.Flat}
	if p.mode == "" {
		p.mode = "gray"
	}
	if m.Shape != "" {
		if p.shape, err = morph.ParseShape(m.Shape); err != nil {
			return morphPlan{}, fmt.Errorf("%w: %v", ErrInvalidStep, err)
		}
	}
	if m.Size < 0 {
		return morphPlan{}, fmt.Errorf("%w: negative size %d", ErrInvalidStep, m.Size)
	}
	switch p.mode {
	case "binary", "gray":
	case "centered":
		if op != morph.Erosion && op != morph.Dilation {
			return morphPlan{}, fmt.Errorf("%w: centered mode supports erosion and dilation only", ErrInvalidStep)
		}
	default:
		return morphPlan{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidStep, m.Mode)
	}
	return p, nil
}

func (m *MorphStep) apply(f *field.Field) (*field.Field, error) {
	p, err := m.resolve()
	if err != nil {
		return nil, err
	}
	if p.mode == "centered" {
		opts := morph.DefaultCenteredOptions()
		if m.Size > 0 {
			opts = opts.WithMaxSize(m.Size)
		}
		return morph.Centered(f, p.op, p.shape, p.flat, opts)
	}

	se, err := morph.NewShape(p.shape, m.Size, p.flat)
	if err != nil {
		return nil, err
	}
	if p.mode == "binary" {
		return morph.FilterBinary(f, p.op, se)
	}
	return morph.FilterGray(f, p.op, se), nil
}

// Center returns the rotation pivot of the step for f.
func (s *RotateStep) Center(f *field.Field) geometry.Point2D {
	c := warp.Center(f)
	if s.CenterX != nil {
		c.X = *s.CenterX
	}
	if s.CenterY != nil {
		c.Y = *s.CenterY
	}
	return c
}
