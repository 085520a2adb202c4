package fs_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bonsai/internal/adapters/fs"
)

const helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func TestChecksum(t *testing.T) {
	sum, err := fs.Checksum(strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, helloSHA256, sum)
}

func TestHasher_SameContent(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.txt")
	b := filepath.Join(tmpDir, "b.txt")
	c := filepath.Join(tmpDir, "c.txt")
	writeFile(t, a, "content")
	writeFile(t, b, "content")
	writeFile(t, c, "CONTENT")

	hasher := fs.NewHasher()
	assert.True(t, hasher.SameContent(a, b))
	assert.False(t, hasher.SameContent(a, c))
	assert.False(t, hasher.SameContent(a, filepath.Join(tmpDir, "missing.txt")))
}

func TestVerifier_Verify(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "Bonsai.exe")
	writeFile(t, path, "hello")

	verifier := fs.NewVerifier(fs.NewHasher())

	exists, valid, err := verifier.Verify(path, strings.ToUpper(helloSHA256))
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, valid)

	exists, valid, err = verifier.Verify(path, "deadbeef")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.False(t, valid)

	exists, valid, err = verifier.Verify(filepath.Join(tmpDir, "missing.exe"), helloSHA256)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.False(t, valid)
}
