package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindFilesByExtension_LexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.hcl"))
	writeFile(t, filepath.Join(dir, "a.hcl"))
	writeFile(t, filepath.Join(dir, "sub", "c.hcl"))
	writeFile(t, filepath.Join(dir, "notes.txt"))

	files, err := FindFilesByExtension(dir, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "sub", "c.hcl"),
	}, files)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.hcl")
	doc := filepath.Join(dir, "doc.txt")
	writeFile(t, a)
	writeFile(t, doc)

	files, err := CollectFiles([]string{dir, a, doc, filepath.Join(dir, "missing")}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{a, doc}, files)
}
