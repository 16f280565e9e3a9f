package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndReload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	p := LoadFrom(dir)
	assert.Equal(t, "", p.String(KeyLastImage))
	assert.Equal(t, 800.0, p.Float(KeyWindowWidth, 800))

	p.SetString(KeyLastImage, "/prints/a.png")
	p.SetFloat(KeyWindowWidth, 1024)
	require.NoError(t, p.Save())

	q := LoadFrom(dir)
	assert.Equal(t, "/prints/a.png", q.String(KeyLastImage))
	assert.Equal(t, 1024.0, q.Float(KeyWindowWidth, 800))
	assert.Equal(t, filepath.Join(dir, "preferences.json"), q.Path())
}

func TestBrokenFileIsIgnored(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "preferences.json"), []byte("{"), 0o644))

	p := LoadFrom(dir)
	assert.Equal(t, "", p.String(KeyLastRecipe))
	p.SetString(KeyLastRecipe, "r.yaml")
	assert.Equal(t, "r.yaml", p.String(KeyLastRecipe))
}
