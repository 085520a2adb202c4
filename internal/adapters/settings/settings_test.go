package settings_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bonsai/internal/adapters/settings"
	"go.trai.ch/bonsai/internal/core/domain"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	s, err := settings.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, s.BaseDir)
	assert.Equal(t, filepath.Join(dir, "Packages"), s.RepositoryPath)
	assert.Equal(t, []string{filepath.Join(dir, "Gallery")}, s.PackageSources)
	assert.Equal(t, domain.DefaultReleaseURL, s.ReleaseURL)
	assert.Equal(t, domain.DefaultFramework, s.Framework)
	assert.Equal(t, domain.LauncherPackageID, s.LauncherPackageID)
	assert.Equal(t, 3, s.RetryMax)
	assert.False(t, s.LogJSON)
	assert.NotEmpty(t, s.DownloadCache)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	content := `
packageSources:
  - feed
  - /abs/feed
repositoryPath: repo
httpTimeout: 10s
retryMax: 5
framework: net48
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SettingsFileName), []byte(content), 0o600))
	t.Setenv("BONSAI_RETRY_MAX", "7")
	t.Setenv("BONSAI_LOG_JSON", "true")

	s, err := settings.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "feed"), "/abs/feed"}, s.PackageSources)
	assert.Equal(t, filepath.Join(dir, "repo"), s.RepositoryPath)
	assert.Equal(t, 10*time.Second, s.HTTPTimeout)
	assert.Equal(t, 7, s.RetryMax, "environment overrides the file")
	assert.Equal(t, "net48", s.Framework)
	assert.True(t, s.LogJSON)
	assert.Equal(t, domain.DefaultReleaseURL, s.ReleaseURL, "unset keys keep their default")
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SettingsFileName), []byte("retryMax: [oops"), 0o600))

	_, err := settings.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrSettingsLoadFailed.Error())
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("BONSAI_RETRY_MAX", "many")

	_, err := settings.Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrSettingsLoadFailed.Error())
}
