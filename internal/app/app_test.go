package app_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bonsai/internal/adapters/archive"
	"go.trai.ch/bonsai/internal/adapters/config"
	bfs "go.trai.ch/bonsai/internal/adapters/fs"
	"go.trai.ch/bonsai/internal/adapters/loader"
	"go.trai.ch/bonsai/internal/adapters/nuget"
	"go.trai.ch/bonsai/internal/adapters/settings"
	"go.trai.ch/bonsai/internal/adapters/telemetry"
	"go.trai.ch/bonsai/internal/app"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports/mocks"
	"go.trai.ch/bonsai/internal/engine/environment"
	"go.uber.org/mock/gomock"
)

func writePackage(t *testing.T, dir, id, version string, files map[string]string) {
	t.Helper()
	entries := map[string][]byte{
		id + ".nuspec": fmt.Appendf(nil, `<?xml version="1.0" encoding="utf-8"?>
<package>
  <metadata>
    <id>%s</id>
    <version>%s</version>
    <tags>Bonsai</tags>
  </metadata>
</package>
`, id, version),
	}
	for name, content := range files {
		entries[name] = []byte(content)
	}
	require.NoError(t, archive.Create(filepath.Join(dir, id+"."+version+".nupkg"), entries))
}

type fixture struct {
	app        *app.App
	settings   *settings.Settings
	store      *config.Store
	feedDir    string
	launcher   string
	searchPath *mocks.MockLibrarySearchPath
	executor   *mocks.MockExecutor
	logger     *mocks.MockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tmpDir := t.TempDir()
	ctrl := gomock.NewController(t)

	baseDir := filepath.Join(tmpDir, "app")
	feedDir := filepath.Join(tmpDir, "feed")
	require.NoError(t, os.MkdirAll(baseDir, 0o750))
	require.NoError(t, os.MkdirAll(feedDir, 0o750))

	launcher := filepath.Join(baseDir, domain.LauncherFileName)
	require.NoError(t, os.WriteFile(launcher, []byte("launcher"), 0o600))

	s := settings.Defaults(baseDir)
	s.PackageSources = []string{feedDir}
	s.DownloadCache = filepath.Join(tmpDir, "cache")

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	searchPath := mocks.NewMockLibrarySearchPath(ctrl)
	executor := mocks.NewMockExecutor(ctrl)

	store := config.NewStore(baseDir)
	manager := nuget.NewManager(
		nuget.NewRepository(s.RepositoryPath),
		nuget.NewFeed(s.PackageSources...),
		bfs.NewCleanup(bfs.NewWalker()),
		log,
	)
	selector := environment.New(
		environment.WithCurrent(domain.BootstrapperInfo{Path: launcher, Version: "2.9.0"}),
		environment.WithCacheDir(s.DownloadCache),
	)

	return &fixture{
		app:        app.New(s, store, manager, selector, loader.New(), searchPath, executor, telemetry.NewNoop(), log),
		settings:   s,
		store:      store,
		feedDir:    feedDir,
		launcher:   launcher,
		searchPath: searchPath,
		executor:   executor,
		logger:     log,
	}
}

func (f *fixture) load(t *testing.T) *domain.PackageConfiguration {
	t.Helper()
	cfg, err := f.store.Load("")
	require.NoError(t, err)
	return cfg
}

func TestApp_InstallAndUninstall(t *testing.T) {
	f := newFixture(t)
	writePackage(t, f.feedDir, "Foo", "1.0.0", map[string]string{"lib/net472/Foo.dll": "foo"})

	require.NoError(t, f.app.Install(context.Background(), "", "Foo", ""))

	cfg := f.load(t)
	ref, ok := cfg.Packages.Get("Foo")
	require.True(t, ok)
	assert.Equal(t, "1.0.0", ref.Version)
	assert.True(t, cfg.AssemblyReferences.Contains("Foo"))

	require.NoError(t, f.app.Uninstall(context.Background(), "", "Foo"))

	cfg = f.load(t)
	assert.False(t, cfg.Packages.Contains("Foo"))
	assert.Equal(t, 0, cfg.AssemblyLocations.Len())
	assert.NoDirExists(t, filepath.Join(f.settings.RepositoryPath, "Foo.1.0.0"))
}

func TestApp_InstallUnknownPackage(t *testing.T) {
	f := newFixture(t)

	err := f.app.Install(context.Background(), "", "Nope", "1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrPackageNotFound.Error())
	assert.NoFileExists(t, f.store.DefaultPath())
}

func TestApp_Bootstrap(t *testing.T) {
	f := newFixture(t)
	writePackage(t, f.feedDir, "Foo", "1.0.0", map[string]string{"lib/net472/Foo.dll": "foo"})
	writePackage(t, f.feedDir, domain.LauncherPackageID, "2.9.0", map[string]string{"tools/Bonsai.exe": "launcher 2.9.0"})

	cfg := f.load(t)
	cfg.UpsertPackage("Foo", "1.0.0")
	require.NoError(t, f.store.Save(cfg, ""))

	require.NoError(t, f.app.Bootstrap(context.Background(), app.BootstrapOptions{}))

	cfg = f.load(t)
	assert.True(t, cfg.AssemblyLocations.Contains(domain.AssemblyLocationKey{AssemblyName: "Foo", Architecture: domain.ArchMSIL}))
	ref, ok := cfg.Packages.Get(domain.LauncherPackageID)
	require.True(t, ok)
	assert.Equal(t, "2.9.0", ref.Version)
}

func TestApp_BootstrapKeepGoing(t *testing.T) {
	f := newFixture(t)
	writePackage(t, f.feedDir, domain.LauncherPackageID, "2.9.0", map[string]string{"tools/Bonsai.exe": "launcher 2.9.0"})
	f.logger.EXPECT().Error(gomock.Any()).Times(1)

	cfg := f.load(t)
	cfg.UpsertPackage("Missing", "1.0.0")
	require.NoError(t, f.store.Save(cfg, ""))

	require.NoError(t, f.app.Bootstrap(context.Background(), app.BootstrapOptions{KeepGoing: true}))
	assert.True(t, f.load(t).Packages.Contains(domain.LauncherPackageID))

	err := f.app.Bootstrap(context.Background(), app.BootstrapOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrPackageNotFound.Error())
}

func TestApp_EnvWithoutPin(t *testing.T) {
	f := newFixture(t)

	path, err := f.app.Env(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, f.launcher, path)
}

func TestApp_EnvUnsupportedPin(t *testing.T) {
	f := newFixture(t)
	project := t.TempDir()
	pin := domain.ProjectConfigurationPath(project)
	require.NoError(t, os.MkdirAll(filepath.Dir(pin), 0o750))
	require.NoError(t, os.WriteFile(pin, []byte(`<PackageConfiguration><Packages><Package id="Bonsai" version="1.0.0" /></Packages></PackageConfiguration>`), 0o600))

	_, err := f.app.Env(context.Background(), project)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrUnsupportedBootstrapperVersion.Error())
}

func TestApp_EnvCopiesRunningLauncher(t *testing.T) {
	f := newFixture(t)
	project := t.TempDir()
	pin := domain.ProjectConfigurationPath(project)
	require.NoError(t, os.MkdirAll(filepath.Dir(pin), 0o750))
	require.NoError(t, os.WriteFile(pin, []byte(`<PackageConfiguration><Packages><Package id="Bonsai" version="2.9.0" /></Packages></PackageConfiguration>`), 0o600))

	path, err := f.app.Env(context.Background(), project)
	require.NoError(t, err)
	assert.Equal(t, domain.LauncherPathFor(pin), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "launcher", string(data))
}

func TestApp_Resolve(t *testing.T) {
	f := newFixture(t)
	writePackage(t, f.feedDir, "Foo", "1.0.0", map[string]string{
		"lib/net472/Foo.dll":                  "foo",
		"build/native/bin/x64/foo_native.dll": "native",
		"build/native/bin/x86/foo_native.dll": "native",
	})
	require.NoError(t, f.app.Install(context.Background(), "", "Foo", "1.0.0"))

	f.searchPath.EXPECT().
		Add(filepath.Join(f.settings.BaseDir, "Packages", "Foo.1.0.0", "build", "native", "bin", domain.CurrentPlatform())).
		Return(nil).
		AnyTimes()

	res, err := f.app.Resolve("", "Foo")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.settings.BaseDir, "Packages", "Foo.1.0.0", "lib", "net472", "Foo.dll"), res.Location)
	assert.Equal(t, domain.PackageReference{ID: "Foo", Version: "1.0.0"}, res.Package)

	_, err = f.app.Resolve("", "Bar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrModuleNotFound.Error())
}

func TestApp_LaunchRunsPinnedLauncher(t *testing.T) {
	f := newFixture(t)
	project := t.TempDir()
	pin := domain.ProjectConfigurationPath(project)
	require.NoError(t, os.MkdirAll(filepath.Dir(pin), 0o750))
	require.NoError(t, os.WriteFile(pin, []byte(`<PackageConfiguration><Packages><Package id="Bonsai" version="2.9.0" /></Packages></PackageConfiguration>`), 0o600))

	f.executor.EXPECT().
		Run(gomock.Any(), domain.Process{Path: domain.LauncherPathFor(pin), Args: []string{"--no-editor", "Demo.bonsai"}}).
		Return(3, nil)

	code, err := f.app.Launch(context.Background(), project, []string{"--no-editor", "Demo.bonsai"})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestApp_LaunchStopsOnUnsupportedPin(t *testing.T) {
	f := newFixture(t)
	project := t.TempDir()
	pin := domain.ProjectConfigurationPath(project)
	require.NoError(t, os.MkdirAll(filepath.Dir(pin), 0o750))
	require.NoError(t, os.WriteFile(pin, []byte(`<PackageConfiguration><Packages><Package id="Bonsai" version="1.0.0" /></Packages></PackageConfiguration>`), 0o600))

	code, err := f.app.Launch(context.Background(), project, nil)
	require.Error(t, err)
	assert.Equal(t, -1, code)
	assert.Contains(t, err.Error(), domain.ErrUnsupportedBootstrapperVersion.Error())
}

func TestApp_ResolveLooseExtension(t *testing.T) {
	f := newFixture(t)
	extensions := filepath.Join(f.settings.BaseDir, domain.ExtensionsDirectory)
	require.NoError(t, os.MkdirAll(extensions, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(extensions, "Local.dll"), []byte("local"), 0o600))
	f.searchPath.EXPECT().Add(extensions).Return(nil)

	res, err := f.app.Resolve("", "Local")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(extensions, "Local.dll"), res.Location)
	assert.Empty(t, res.Package.ID)
}
