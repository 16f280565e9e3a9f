// Command fpview shows a fingerprint image next to the output of a recipe.
package main

import (
	"flag"
	"fmt"
	"log"

	"fp-artifacts/internal/cvbridge"
	"fp-artifacts/internal/imgio"
	"fp-artifacts/internal/version"
	"fp-artifacts/ui/mainwindow"
	"fp-artifacts/ui/prefs"

	"fyne.io/fyne/v2/app"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	useCV := flag.Bool("cv", false, "Decode and encode with OpenCV")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("fpview"))
		return
	}
	log.Printf("Starting %s", version.String("fpview"))

	var codec imgio.Codec = imgio.Std{}
	if *useCV {
		codec = cvbridge.Codec{}
	}

	appPrefs := prefs.Load()
	if flag.NArg() > 0 {
		appPrefs.SetString(prefs.KeyLastImage, flag.Arg(0))
	}
	if flag.NArg() > 1 {
		appPrefs.SetString(prefs.KeyLastRecipe, flag.Arg(1))
	}

	fyneApp := app.NewWithID("fp-artifacts.viewer")
	fyneApp.Settings().SetTheme(&mainwindow.Theme{})
	win := mainwindow.New(fyneApp, appPrefs, codec)
	win.ShowAndRun()
}
