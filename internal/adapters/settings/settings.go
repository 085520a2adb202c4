// Package settings loads the application settings from bonsai.yaml and the environment.
package settings

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding settings.
const EnvPrefix = "BONSAI"

const (
	defaultHTTPTimeout = 5 * time.Minute
	defaultRetryMax    = 3
	cacheDirectoryName = "bonsai"
)

// Settings holds the application settings.
type Settings struct {
	// BaseDir is the launcher directory. Relative paths below resolve against it.
	BaseDir string `yaml:"-" ignored:"true"`

	PackageSources    []string      `yaml:"packageSources" envconfig:"PACKAGE_SOURCES"`
	RepositoryPath    string        `yaml:"repositoryPath" envconfig:"REPOSITORY_PATH"`
	ReleaseURL        string        `yaml:"releaseURL" envconfig:"RELEASE_URL"`
	HTTPTimeout       time.Duration `yaml:"httpTimeout" envconfig:"HTTP_TIMEOUT"`
	RetryMax          int           `yaml:"retryMax" envconfig:"RETRY_MAX"`
	Framework         string        `yaml:"framework" envconfig:"FRAMEWORK"`
	LauncherPackageID string        `yaml:"launcherPackageID" envconfig:"LAUNCHER_PACKAGE_ID"`
	LogJSON           bool          `yaml:"logJSON" envconfig:"LOG_JSON"`
	DownloadCache     string        `yaml:"downloadCache" envconfig:"DOWNLOAD_CACHE"`
}

// Defaults returns the settings used when neither the file nor the environment set a value.
func Defaults(baseDir string) *Settings {
	return &Settings{
		BaseDir:           baseDir,
		PackageSources:    []string{filepath.Join(baseDir, domain.GalleryDirectory)},
		RepositoryPath:    filepath.Join(baseDir, domain.PackagesDirectory),
		ReleaseURL:        domain.DefaultReleaseURL,
		HTTPTimeout:       defaultHTTPTimeout,
		RetryMax:          defaultRetryMax,
		Framework:         domain.DefaultFramework,
		LauncherPackageID: domain.LauncherPackageID,
		DownloadCache:     filepath.Join(xdg.CacheHome, cacheDirectoryName),
	}
}

// Load reads <baseDir>/bonsai.yaml when present and applies BONSAI_* environment overrides
// on top of the defaults. Relative paths are resolved against baseDir.
func Load(baseDir string) (*Settings, error) {
	s := Defaults(baseDir)

	path := filepath.Join(baseDir, domain.SettingsFileName)
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the launcher location
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error()), "path", path)
		}
	case !os.IsNotExist(err):
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error()), "path", path)
	}

	if err := envconfig.Process(EnvPrefix, s); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error())
	}

	s.BaseDir = baseDir
	s.RepositoryPath = s.resolve(s.RepositoryPath)
	s.DownloadCache = s.resolve(s.DownloadCache)
	for i, source := range s.PackageSources {
		s.PackageSources[i] = s.resolve(source)
	}
	return s, nil
}

func (s *Settings) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.BaseDir, p)
}

// ExecutableDir returns the directory of the running executable with symbolic links resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error())
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
