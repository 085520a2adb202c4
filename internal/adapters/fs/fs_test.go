package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bonsai/internal/adapters/fs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_Files(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "b", "two.txt"), "2")
	writeFile(t, filepath.Join(tmpDir, "a.txt"), "1")
	writeFile(t, filepath.Join(tmpDir, "b", "c", "three.txt"), "3")

	files, err := fs.NewWalker().Files(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b/c/three.txt", "b/two.txt"}, files)
}

func TestWalker_FilesMissingRoot(t *testing.T) {
	files, err := fs.NewWalker().Files(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestWalker_DirsDeepestFirst(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "a", "bb", "ccc"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "d"), 0o750))

	dirs, err := fs.NewWalker().Dirs(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a", "bb", "ccc"),
		filepath.Join(tmpDir, "a", "bb"),
		filepath.Join(tmpDir, "a"),
		filepath.Join(tmpDir, "d"),
	}, dirs)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "file.txt")

	require.NoError(t, fs.WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, fs.WriteFileAtomic(path, []byte("second"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files should not be left behind")
}

func TestMoveFile(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src.txt")
	dst := filepath.Join(tmpDir, "out", "dst.txt")
	writeFile(t, src, "payload")

	require.NoError(t, fs.MoveFile(src, dst, 0o644))

	assert.False(t, fs.Exists(src))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestCopier_CopyDirectoryMerges(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dst := filepath.Join(tmpDir, "dst")
	writeFile(t, filepath.Join(src, "same.txt"), "same")
	writeFile(t, filepath.Join(src, "sub", "changed.txt"), "new")
	writeFile(t, filepath.Join(dst, "same.txt"), "same")
	writeFile(t, filepath.Join(dst, "sub", "changed.txt"), "old")
	writeFile(t, filepath.Join(dst, "kept.txt"), "kept")

	copier := fs.NewCopier(fs.NewWalker(), fs.NewHasher())
	require.NoError(t, copier.CopyDirectory(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "sub", "changed.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.True(t, fs.Exists(filepath.Join(dst, "kept.txt")))
	assert.True(t, fs.Exists(filepath.Join(dst, "same.txt")))
}

func TestCopier_CopyDirectoryMissingSource(t *testing.T) {
	tmpDir := t.TempDir()
	copier := fs.NewCopier(fs.NewWalker(), fs.NewHasher())
	require.NoError(t, copier.CopyDirectory(filepath.Join(tmpDir, "missing"), filepath.Join(tmpDir, "dst")))
	assert.False(t, fs.Exists(filepath.Join(tmpDir, "dst")))
}

func TestCleanup_RemoveEmptyDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "Extensions")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o750))
	writeFile(t, filepath.Join(root, "c", "keep.cs"), "class C {}")

	cleanup := fs.NewCleanup(fs.NewWalker())
	assert.True(t, cleanup.RemoveEmptyDirectories(root))

	assert.False(t, fs.Exists(filepath.Join(root, "a")))
	assert.True(t, fs.Exists(filepath.Join(root, "c", "keep.cs")))
	assert.True(t, fs.Exists(root))
}

func TestCleanup_RemoveEmptyDirectoriesRemovesEmptyRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Extensions")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o750))

	cleanup := fs.NewCleanup(fs.NewWalker())
	assert.True(t, cleanup.RemoveEmptyDirectories(root))
	assert.False(t, fs.Exists(root))
}

func TestCleanup_TryRemove(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "file.txt")
	writeFile(t, path, "x")

	cleanup := fs.NewCleanup(fs.NewWalker())
	assert.True(t, cleanup.TryRemove(path))
	assert.True(t, cleanup.TryRemove(path), "missing file counts as removed")
	assert.False(t, cleanup.TryCopyFile(path, filepath.Join(tmpDir, "copy.txt")))
}
