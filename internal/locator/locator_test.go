package locator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestSourceFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", strings.Repeat("x", 200))
	writeFile(t, root, "sub/app.py", strings.Repeat("x", 200))
	writeFile(t, root, "README.md", strings.Repeat("x", 200))
	writeFile(t, root, ".git/config", strings.Repeat("x", 200))
	writeFile(t, root, "node_modules/dep/index.js", strings.Repeat("x", 200))

	files, err := SourceFiles(root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "sub/app.py"}, files)
}

func TestSourceFilesSizeFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tiny.go", "x")
	writeFile(t, root, "ok.go", strings.Repeat("x", 500))
	writeFile(t, root, "huge.go", strings.Repeat("x", 2000))

	files, err := SourceFiles(root, Options{MinSize: 100, MaxSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok.go"}, files)
}

func TestSourceFilesMaxFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "b.go", "package b\n")
	writeFile(t, root, "c.go", "package c\n")

	files, err := SourceFiles(root, Options{MaxFiles: 2})
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, []string{"a.go", "b.go"}, files, "cap applies after sorting")
}

func TestIsSourceFile(t *testing.T) {
	assert.True(t, IsSourceFile("x/y/z.go"))
	assert.True(t, IsSourceFile("APP.PY"))
	assert.False(t, IsSourceFile("notes.txt"))
	assert.False(t, IsSourceFile("Dockerfile"))
}
