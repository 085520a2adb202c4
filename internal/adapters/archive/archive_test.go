package archive_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bonsai/internal/adapters/archive"
	"go.trai.ch/bonsai/internal/core/domain"
)

func TestEntriesAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Foo.1.0.0.nupkg")
	require.NoError(t, archive.Create(path, map[string][]byte{
		"Foo.nuspec":         []byte("<package/>"),
		"lib/net472/Foo.dll": []byte("MZ"),
	}))

	entries, err := archive.Entries(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo.nuspec", "lib/net472/Foo.dll"}, entries)

	data, err := archive.ReadFile(path, "LIB/net472/foo.dll")
	require.NoError(t, err)
	assert.Equal(t, "MZ", string(data))

	_, err = archive.Open(path, "missing.txt")
	require.Error(t, err)
}

func TestExtract(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "release.zip")
	require.NoError(t, archive.Create(path, map[string][]byte{
		"Bonsai.exe":   []byte("launcher"),
		"NuGet.config": []byte("<configuration/>"),
		"skip/me.txt":  []byte("x"),
	}))

	dst := filepath.Join(tmpDir, "out")
	extracted, err := archive.Extract(path, dst, func(name string) bool { return filepath.Dir(name) == "skip" })
	require.NoError(t, err)
	assert.Equal(t, []string{"Bonsai.exe", "NuGet.config"}, extracted)

	rc, err := os.Open(filepath.Join(dst, "Bonsai.exe"))
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "launcher", string(data))

	_, err = os.Stat(filepath.Join(dst, "skip"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtract_RejectsEscapingEntries(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "evil.zip")
	require.NoError(t, archive.Create(path, map[string][]byte{
		"a.txt":         []byte("a"),
		"../escape.txt": []byte("x"),
	}))

	dst := filepath.Join(tmpDir, "out")
	_, err := archive.Extract(path, dst, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrUnsafeArchivePath.Error())

	_, statErr := os.Stat(filepath.Join(dst, "a.txt"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written when an entry escapes")
	_, statErr = os.Stat(filepath.Join(tmpDir, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSafeJoin(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")

	got, err := archive.SafeJoin(root, "lib/net472/Foo.dll")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "lib", "net472", "Foo.dll"), got)

	for _, name := range []string{"../x", "a/../../x", "/etc/passwd"} {
		_, err := archive.SafeJoin(root, name)
		assert.Error(t, err, name)
	}
}
