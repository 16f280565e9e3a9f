package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"fp-artifacts/internal/cvbridge"
	"fp-artifacts/internal/field"
	"fp-artifacts/internal/interp"
	"fp-artifacts/internal/metrics"
	"fp-artifacts/internal/morph"
	"fp-artifacts/internal/recipe"
	"fp-artifacts/internal/warp"
	"fp-artifacts/pkg/geometry"
)

func runWarp(e *env, args []string) error {
	fs := flag.NewFlagSet("warp", flag.ExitOnError)
	in := fs.String("in", "", "Input image")
	out := fs.String("out", "", "Output image")
	rotate := fs.Float64("rotate", 0, "Rotation in degrees, counter-clockwise")
	dx := fs.Float64("dx", 0, "Horizontal shift in pixels (when -rotate is 0)")
	dy := fs.Float64("dy", 0, "Vertical shift in pixels (when -rotate is 0)")
	cx := fs.Float64("cx", math.NaN(), "Rotation center column (default: image center)")
	cy := fs.Float64("cy", math.NaN(), "Rotation center row (default: image center)")
	method := fs.String("method", "bilinear", "Interpolation: nearest, bilinear or bicubic (or 0, 1, 3)")
	def := fs.Float64("default", -1, "Intensity of uncovered pixels; negative marks them missing")
	verify := fs.Bool("verify", false, "Compare with OpenCV's warpAffine")
	fs.Parse(args)

	m, err := interp.ParseMethod(*method)
	if err != nil {
		return err
	}
	f, err := e.decode(*in)
	if err != nil {
		return err
	}
	opts := warp.DefaultOptions().WithMethod(m).WithDefault(*def)

	var (
		result  *field.Field
		forward geometry.AffineTransform
	)
	if *rotate != 0 {
		center := warp.Center(f)
		if !math.IsNaN(*cx) {
			center.X = *cx
		}
		if !math.IsNaN(*cy) {
			center.Y = *cy
		}
		theta := *rotate * math.Pi / 180
		log.Printf("Rotating %s by %.2f° around (%.1f, %.1f), %s", *in, *rotate, center.X, center.Y, m)
		result = warp.Rotate(f, theta, center, opts)
		forward = warp.RotationTransform(theta, center)
	} else {
		log.Printf("Translating %s by (%.2f, %.2f), %s", *in, *dx, *dy, m)
		result = warp.Translate(f, *dx, *dy, opts)
		forward = geometry.Translation(*dx, *dy)
	}

	if *verify {
		ref, err := cvbridge.WarpReference(f, forward, m, *def)
		if err != nil {
			return fmt.Errorf("opencv reference: %w", err)
		}
		logAgreement("warpAffine", result, ref)
	}
	return e.finish(*out, result)
}

func runMorph(e *env, args []string) error {
	fs := flag.NewFlagSet("morph", flag.ExitOnError)
	in := fs.String("in", "", "Input image")
	out := fs.String("out", "", "Output image")
	opName := fs.String("op", "erosion", "Operation: erosion, dilation, opening, closing")
	mode := fs.String("mode", "gray", "Mode: binary (Otsu), gray or centered")
	shapeName := fs.String("shape", "cross", "Element shape: cross, circle, diamond, square")
	size := fs.Int("size", 1, "Element size; the grid is 2*size+1 wide (largest size in centered mode)")
	flat := fs.Bool("flat", true, "Use a flat element")
	verify := fs.Bool("verify", false, "Compare with OpenCV's threshold and morphology")
	fs.Parse(args)

	op, err := morph.ParseOp(*opName)
	if err != nil {
		return err
	}
	shape, err := morph.ParseShape(*shapeName)
	if err != nil {
		return err
	}
	f, err := e.decode(*in)
	if err != nil {
		return err
	}
	log.Printf("%s %s on %s with %s size %d (flat=%v)", *mode, op, *in, shape, *size, *flat)

	var result *field.Field
	switch *mode {
	case "centered":
		opts := morph.DefaultCenteredOptions().WithMaxSize(*size)
		result, err = morph.Centered(f, op, shape, *flat, opts)
		if err != nil {
			return err
		}
	case "binary", "gray":
		se, err := morph.NewShape(shape, *size, *flat)
		if err != nil {
			return err
		}
		if *mode == "binary" {
			if result, err = morph.FilterBinary(f, op, se); err != nil {
				return err
			}
		} else {
			result = morph.FilterGray(f, op, se)
		}
		if *verify {
			if err := verifyMorph(f, result, *mode, op, se); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}
	return e.finish(*out, result)
}

func verifyMorph(f, result *field.Field, mode string, op morph.Op, se *morph.Element) error {
	if mode == "binary" {
		native, err := morph.Threshold(f)
		if err != nil {
			return err
		}
		ref, err := cvbridge.OtsuReference(f)
		if err != nil {
			return fmt.Errorf("opencv reference: %w", err)
		}
		log.Printf("Otsu threshold: native %.4f, OpenCV %.4f", native, ref)
		return nil
	}
	if !se.Flat() {
		log.Printf("OpenCV morphology is flat only; skipping comparison")
		return nil
	}
	ref, err := cvbridge.MorphReference(f, op, se)
	if err != nil {
		return fmt.Errorf("opencv reference: %w", err)
	}
	logAgreement(op.String(), result, ref)
	return nil
}

func logAgreement(what string, native, ref *field.Field) {
	score, err := metrics.Compare(native, ref, 1)
	if err != nil {
		log.Printf("OpenCV %s: cannot compare: %v", what, err)
		return
	}
	if score.CorrelationErr != nil {
		log.Printf("OpenCV %s: MSE %.6f over %d pixels, no correlation: %v", what, score.MSE, score.Pairs, score.CorrelationErr)
		return
	}
	log.Printf("OpenCV %s: MSE %.6f, correlation %.4f over %d pixels", what, score.MSE, score.Correlation, score.Pairs)
}

func runScore(e *env, args []string) error {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	a := fs.String("a", "", "First image")
	b := fs.String("b", "", "Second image")
	stride := fs.Int("stride", 1, "Compare every stride-th row and column")
	fs.Parse(args)

	fa, err := e.decode(*a)
	if err != nil {
		return err
	}
	fb, err := e.decode(*b)
	if err != nil {
		return err
	}
	score, err := metrics.Compare(fa, fb, *stride)
	if err != nil {
		return err
	}
	fmt.Printf("pairs:       %d\n", score.Pairs)
	fmt.Printf("mse:         %.6f\n", score.MSE)
	if score.CorrelationErr != nil {
		fmt.Printf("correlation: n/a (%v)\n", score.CorrelationErr)
		return nil
	}
	fmt.Printf("correlation: %.6f\n", score.Correlation)
	return nil
}

func runSelem(e *env, args []string) error {
	fs := flag.NewFlagSet("selem", flag.ExitOnError)
	shapeName := fs.String("shape", "circle", "Element shape: cross, circle, diamond, square")
	size := fs.Int("size", 2, "Element size")
	flat := fs.Bool("flat", true, "Flat element")
	out := fs.String("out", "", "Write the element as an image instead of printing it")
	fs.Parse(args)

	shape, err := morph.ParseShape(*shapeName)
	if err != nil {
		return err
	}
	se, err := morph.NewShape(shape, *size, *flat)
	if err != nil {
		return err
	}
	grid := se.Field()
	if *out == "" && !e.show {
		return grid.Dump(os.Stdout)
	}
	return e.finish(*out, grid)
}

func runRecipe(e *env, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	path := fs.String("recipe", "", "Recipe file (.yaml, .yml or .json)")
	initOnly := fs.Bool("init", false, "Write a sample recipe to -recipe and exit")
	in := fs.String("in", "", "Override the recipe input")
	out := fs.String("out", "", "Override the recipe output")
	fs.Parse(args)

	if *path == "" {
		return fmt.Errorf("missing -recipe")
	}
	if *initOnly {
		if err := recipe.Default().Save(*path); err != nil {
			return err
		}
		log.Printf("Wrote sample recipe to %s", *path)
		return nil
	}

	r, err := recipe.Load(*path)
	if err != nil {
		return err
	}
	if *in != "" {
		r.Input = *in
	}
	if *out != "" {
		r.Output = *out
	}
	if r.Codec != "" {
		if e.codec, err = codecByName(r.Codec); err != nil {
			return err
		}
	}

	f, err := e.decode(r.Input)
	if err != nil {
		return err
	}
	log.Printf("Running %s on %s (%d steps)", *path, r.Input, len(r.Steps))
	result, err := r.Apply(f)
	if err != nil {
		return err
	}
	return e.finish(r.Output, result)
}

func runDump(e *env, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	in := fs.String("in", "", "Input image")
	fs.Parse(args)

	f, err := e.decode(*in)
	if err != nil {
		return err
	}
	return f.Dump(os.Stdout)
}
