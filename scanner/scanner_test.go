package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func names(files []FileInfo) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"), Options{})
	assert.Error(t, err)
}

func TestScan_RootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	mustWrite(t, path, "content")

	_, err := Scan(path, Options{})
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestScan_EmptyDirectory(t *testing.T) {
	files, err := Scan(t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScan_OnlySupportedFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "keep.txt"), "text")
	mustWrite(t, filepath.Join(dir, "keep.py"), "code")
	mustWrite(t, filepath.Join(dir, "skip.png"), "binary")
	mustWrite(t, filepath.Join(dir, "skip"), "no extension")

	files, err := Scan(dir, Options{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"keep.txt", "keep.py"}, names(files))
}

func TestScan_SkipsIgnoredDirectories(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "top.txt"), "top")
	mustWrite(t, filepath.Join(dir, "node_modules", "dep.js"), "dep")
	mustWrite(t, filepath.Join(dir, ".git", "config.txt"), "git")
	mustWrite(t, filepath.Join(dir, "__pycache__", "mod.py"), "pyc")
	mustWrite(t, filepath.Join(dir, "src", "main.py"), "src")

	files, err := Scan(dir, Options{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"top.txt", "main.py"}, names(files))
}

func TestScan_MaxDepth(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "root.txt"), "0")
	mustWrite(t, filepath.Join(dir, "sub", "one.txt"), "1")
	mustWrite(t, filepath.Join(dir, "sub", "deeper", "two.txt"), "2")

	files, err := Scan(dir, Options{MaxDepth: 1})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"root.txt", "one.txt"}, names(files))

	files, err = Scan(dir, Options{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"root.txt", "one.txt", "two.txt"}, names(files),
		"zero depth means unlimited")
}

func TestScan_MaxFileSize(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "small.txt"), "ok")
	mustWrite(t, filepath.Join(dir, "large.txt"), "this one is too big")

	files, err := Scan(dir, Options{MaxFileSize: 5})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"small.txt"}, names(files))
}

func TestScan_SkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	mustWrite(t, target, "content")
	if err := os.Symlink(target, filepath.Join(dir, "link.txt")); err != nil {
		t.Skip("symlinks not supported on this platform")
	}

	files, err := Scan(dir, Options{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"real.txt"}, names(files))
}

func TestScan_ReturnsSizeAndAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), "12345")

	files, err := Scan(dir, Options{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, int64(5), files[0].Size)
	assert.True(t, filepath.IsAbs(files[0].Path))
}

func TestScan_WalkOrderIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "c.txt"), "c")
	mustWrite(t, filepath.Join(dir, "a.txt"), "a")
	mustWrite(t, filepath.Join(dir, "b.txt"), "b")

	files, err := Scan(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, names(files))
}
