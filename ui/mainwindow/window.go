// Package mainwindow provides the viewer window: the original print next to
// the same print after a recipe.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"fp-artifacts/internal/field"
	"fp-artifacts/internal/imgio"
	"fp-artifacts/internal/recipe"
	"fp-artifacts/internal/version"
	"fp-artifacts/internal/watch"
	"fp-artifacts/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the viewer window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	prefs *prefs.Prefs
	codec imgio.Codec

	recipe     *recipe.Recipe
	recipePath string
	imagePath  string
	result     *field.Field
	watcher    *watch.Watcher

	original  *canvas.Image
	processed *canvas.Image
	statusBar *widget.Label
}

// New creates the viewer window and restores the last image and recipe.
func New(fyneApp fyne.App, p *prefs.Prefs, codec imgio.Codec) *MainWindow {
	mw := &MainWindow{
		Window: fyneApp.NewWindow("Fingerprint Artifacts"),
		app:    fyneApp,
		prefs:  p,
		codec:  codec,
		recipe: recipe.Default(),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.Resize(fyne.NewSize(
		float32(p.Float(prefs.KeyWindowWidth, 1000)),
		float32(p.Float(prefs.KeyWindowHeight, 600)),
	))
	mw.SetOnClosed(mw.onClosed)

	watcher, err := watch.New(300*time.Millisecond, mw.onFileChanged)
	if err != nil {
		log.Printf("Auto reload disabled: %v", err)
	} else {
		mw.watcher = watcher
	}
	mw.restore()

	return mw
}

func (mw *MainWindow) setupUI() {
	mw.original = canvas.NewImageFromImage(nil)
	mw.original.FillMode = canvas.ImageFillContain
	mw.processed = canvas.NewImageFromImage(nil)
	mw.processed.FillMode = canvas.ImageFillContain

	mw.statusBar = widget.NewLabel("Open a fingerprint image to start")

	toolbar := container.NewHBox(
		widget.NewButton("Open Image", mw.onOpenImage),
		widget.NewButton("Open Recipe", mw.onOpenRecipe),
		widget.NewButton("Reload", mw.onReload),
		widget.NewButton("Save Result", mw.onSaveResult),
	)

	pair := container.NewGridWithColumns(2,
		container.NewBorder(widget.NewLabel("Original"), nil, nil, nil, mw.original),
		container.NewBorder(widget.NewLabel("Processed"), nil, nil, nil, mw.processed),
	)

	mw.SetContent(container.NewBorder(
		toolbar,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		pair,
	))
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Open Recipe...", mw.onOpenRecipe),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reload", mw.onReload),
		fyne.NewMenuItem("Save Result...", mw.onSaveResult),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// restore reloads the recipe and image from the previous session.
func (mw *MainWindow) restore() {
	if path := mw.prefs.String(prefs.KeyLastRecipe); path != "" {
		if err := mw.loadRecipe(path); err != nil {
			mw.updateStatus(fmt.Sprintf("Previous recipe not loaded: %v", err))
		}
	}
	if path := mw.prefs.String(prefs.KeyLastImage); path != "" {
		mw.follow("", path)
		mw.imagePath = path
		mw.onReload()
	}
}

func (mw *MainWindow) onClosed() {
	mw.SavePreferences()
	if mw.watcher != nil {
		mw.watcher.Close()
	}
}

// follow reports future changes of path through onFileChanged.
func (mw *MainWindow) follow(old, path string) {
	if mw.watcher == nil {
		return
	}
	if old != "" && old != path {
		mw.watcher.Remove(old)
	}
	if err := mw.watcher.Add(path); err != nil {
		log.Printf("Not watching %s: %v", path, err)
	}
}

// onFileChanged reruns the recipe when the image or the recipe is saved.
func (mw *MainWindow) onFileChanged(path string) {
	log.Printf("%s changed, reloading", path)
	if mw.recipePath != "" && sameFile(path, mw.recipePath) {
		if err := mw.loadRecipe(mw.recipePath); err != nil {
			mw.updateStatus(fmt.Sprintf("Recipe not reloaded: %v", err))
			return
		}
	}
	mw.onReload()
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// SavePreferences stores the window size and the last paths.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	mw.prefs.SetString(prefs.KeyLastImage, mw.imagePath)
	mw.prefs.SetString(prefs.KeyLastRecipe, mw.recipePath)
	if err := mw.prefs.Save(); err != nil {
		fmt.Printf("Failed to save preferences: %v\n", err)
	}
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// lastDir returns the directory of path as a ListableURI, or nil.
func lastDir(path string) fyne.ListableURI {
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(filepath.Dir(path)))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.follow(mw.imagePath, path)
		mw.imagePath = path
		mw.onReload()
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(imgio.SupportedFormats()))
	if loc := lastDir(mw.imagePath); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenRecipe() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		if err := mw.loadRecipe(reader.URI().Path()); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.onReload()
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".yaml", ".yml", ".json"}))
	if loc := lastDir(mw.recipePath); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) loadRecipe(path string) error {
	r, err := recipe.Load(path)
	if err != nil {
		return err
	}
	mw.follow(mw.recipePath, path)
	mw.recipe = r
	mw.recipePath = path
	return nil
}

// onReload decodes the current image again and reruns the recipe.
func (mw *MainWindow) onReload() {
	if mw.imagePath == "" {
		mw.updateStatus("No image loaded")
		return
	}
	f, err := mw.codec.Decode(mw.imagePath)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	result, err := mw.recipe.Apply(f)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.result = result

	mw.original.Image = imgio.ToGray(f)
	mw.original.Refresh()
	mw.processed.Image = imgio.ToGray(result)
	mw.processed.Refresh()

	name := filepath.Base(mw.imagePath)
	mw.SetTitle("Fingerprint Artifacts - " + name)
	mw.updateStatus(fmt.Sprintf("%s: %dx%d, %d steps", name, f.Width(), f.Height(), len(mw.recipe.Steps)))
}

func (mw *MainWindow) onSaveResult() {
	if mw.result == nil {
		mw.updateStatus("Nothing to save")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !imgio.IsSupportedFormat(path) {
			path += ".png"
		}
		if err := mw.codec.Encode(path, mw.result); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Saved " + path)
	}, mw.Window)
	fd.SetFileName("artifact.png")
	if loc := lastDir(mw.imagePath); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Fingerprint Artifacts",
		fmt.Sprintf("Fingerprint Artifacts v%s\n\n"+
			"Applies warps, morphology and smudges to fingerprint images.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
