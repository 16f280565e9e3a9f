// Command fpartifact applies artifacts (warps, morphology, smudges) to
// fingerprint images and scores the result.
//
// Usage:
//
//	fpartifact [-codec std|cv] [-show] <command> [flags]
//
// Commands: warp, morph, score, selem, run, dump.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"fp-artifacts/internal/cvbridge"
	"fp-artifacts/internal/field"
	"fp-artifacts/internal/imgio"
	"fp-artifacts/internal/version"
)

type command struct {
	run   func(env *env, args []string) error
	usage string
}

var commands = map[string]command{
	"warp":  {runWarp, "rotate or translate an image"},
	"morph": {runMorph, "erode, dilate, open or close an image"},
	"score": {runScore, "compare two images (MSE and correlation)"},
	"selem": {runSelem, "write or print a structuring element"},
	"run":   {runRecipe, "apply a recipe file"},
	"dump":  {runDump, "print the raw intensities of an image"},
}

// env carries the global flags to the commands.
type env struct {
	codec imgio.Codec
	show  bool
}

func (e *env) decode(path string) (*field.Field, error) {
	if path == "" {
		return nil, fmt.Errorf("missing input image")
	}
	return e.codec.Decode(path)
}

// finish writes f to path when given and opens a window when -show is set.
func (e *env) finish(path string, f *field.Field) error {
	if path != "" {
		if err := e.codec.Encode(path, f); err != nil {
			return err
		}
		log.Printf("Wrote %s (%dx%d)", path, f.Width(), f.Height())
	}
	if e.show {
		title := path
		if title == "" {
			title = "fpartifact"
		}
		return cvbridge.Show(f, title)
	}
	return nil
}

func codecByName(name string) (imgio.Codec, error) {
	switch name {
	case "", "std":
		return imgio.Std{}, nil
	case "cv":
		return cvbridge.Codec{}, nil
	}
	return nil, fmt.Errorf("unknown codec %q (want std or cv)", name)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: fpartifact [-codec std|cv] [-show] <command> [flags]\n\nCommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-6s %s\n", name, commands[name].usage)
	}
	fmt.Fprintf(os.Stderr, "\nGlobal flags:\n")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	codecName := flag.String("codec", "std", "Image codec: std (pure Go) or cv (OpenCV)")
	show := flag.Bool("show", false, "Display the result in an OpenCV window")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("fpartifact"))
		return
	}
	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(1)
	}

	codec, err := codecByName(strings.ToLower(*codecName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fpartifact: %v\n", err)
		os.Exit(1)
	}

	if err := cmd.run(&env{codec: codec, show: *show}, flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fpartifact %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
}
