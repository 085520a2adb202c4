package nuget_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bonsai/internal/adapters/archive"
	bfs "go.trai.ch/bonsai/internal/adapters/fs"
	"go.trai.ch/bonsai/internal/adapters/nuget"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/bonsai/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type dependency struct{ id, version string }

func nuspec(id, version, tags string, deps ...dependency) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="utf-8"?>
<package xmlns="http://schemas.microsoft.com/packaging/2013/05/nuspec.xsd">
  <metadata>
    <id>%s</id>
    <version>%s</version>
    <tags>%s</tags>
    <dependencies>
      <group targetFramework=".NETFramework4.7.2">
`, id, version, tags)
	for _, d := range deps {
		fmt.Fprintf(&b, "        <dependency id=%q version=%q />\n", d.id, d.version)
	}
	b.WriteString("      </group>\n    </dependencies>\n  </metadata>\n</package>\n")
	return []byte(b.String())
}

func writePackage(t *testing.T, dir, id, version string, files map[string]string, deps ...dependency) string {
	t.Helper()
	entries := map[string][]byte{
		id + ".nuspec":        nuspec(id, version, "Bonsai", deps...),
		"[Content_Types].xml": []byte("<Types/>"),
		"_rels/.rels":         []byte("<Relationships/>"),
	}
	for name, content := range files {
		entries[name] = []byte(content)
	}
	path := filepath.Join(dir, id+"."+version+".nupkg")
	require.NoError(t, archive.Create(path, entries))
	return path
}

type fixture struct {
	feedDir string
	repoDir string
	manager *nuget.Manager
	logger  *mocks.MockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tmpDir := t.TempDir()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	f := &fixture{
		feedDir: filepath.Join(tmpDir, "feed"),
		repoDir: filepath.Join(tmpDir, "Packages"),
		logger:  log,
	}
	require.NoError(t, os.MkdirAll(f.feedDir, 0o750))
	f.manager = nuget.NewManager(
		nuget.NewRepository(f.repoDir),
		nuget.NewFeed(f.feedDir),
		bfs.NewCleanup(bfs.NewWalker()),
		log,
	)
	return f
}

func TestParseManifest(t *testing.T) {
	m, err := nuget.ParseManifest(nuspec("Foo", "1.2.0", "Bonsai Rx", dependency{"Bar", "[1.0,2.0)"}, dependency{"Baz", "3.0"}))
	require.NoError(t, err)

	assert.Equal(t, "Foo", m.ID)
	assert.Equal(t, "1.2.0", m.Version)
	assert.Equal(t, []string{"Bonsai", "Rx"}, m.Tags)
	assert.Equal(t, []domain.PackageReference{{ID: "Bar", Version: "1.0"}, {ID: "Baz", Version: "3.0"}}, m.Dependencies)

	_, err = nuget.ParseManifest([]byte("<package><metadata><id>Foo</id></metadata></package>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInvalidPackage.Error())
}

func TestMinVersion(t *testing.T) {
	assert.Equal(t, "1.0", nuget.MinVersion("1.0"))
	assert.Equal(t, "1.0", nuget.MinVersion("[1.0,2.0)"))
	assert.Equal(t, "1.0", nuget.MinVersion("[1.0]"))
	assert.Empty(t, nuget.MinVersion("(,2.0]"))
}

func TestReadPackage(t *testing.T) {
	dir := t.TempDir()
	path := writePackage(t, dir, "Foo", "1.0.0", map[string]string{"lib/net472/Foo.dll": "MZ"})

	pkg, err := nuget.ReadPackage(path)
	require.NoError(t, err)
	assert.Equal(t, domain.PackageIdentity{ID: "Foo", Version: "1.0.0"}, pkg.Identity())
	assert.Equal(t, []string{"lib/net472/Foo.dll"}, pkg.Files())
	assert.Equal(t, path, pkg.ArchivePath())
}

func TestFeed_FindAndResolve(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir, "Foo", "1.0.0", nil)
	writePackage(t, dir, "Foo", "1.2.0", nil)
	writePackage(t, dir, "Foo", "2.0.0", nil)
	writePackage(t, dir, "Foo.Design", "9.0.0", nil)
	feed := nuget.NewFeed(dir)

	latest, err := feed.Find("foo", "")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", latest.Identity().Version)

	exact, err := feed.Find("Foo", "1.2.0")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", exact.Identity().Version)

	lowest, err := feed.Resolve("Foo", "1.1.0")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", lowest.Identity().Version)

	_, err = feed.Find("Foo", "3.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrPackageNotFound.Error())
}

func TestManager_InstallExtractsAndNotifies(t *testing.T) {
	f := newFixture(t)
	writePackage(t, f.feedDir, "Foo", "1.0.0", map[string]string{"lib/net472/Foo.dll": "MZ"}, dependency{"Bar", "1.0.0"})
	writePackage(t, f.feedDir, "Bar", "1.0.0", map[string]string{"lib/net472/Bar.dll": "MZ"})

	ctrl := gomock.NewController(t)
	plugin := mocks.NewMockPackagePlugin(ctrl)
	f.manager.AddPlugin(plugin)

	barPath := filepath.Join(f.repoDir, "Bar.1.0.0")
	fooPath := filepath.Join(f.repoDir, "Foo.1.0.0")
	gomock.InOrder(
		plugin.EXPECT().OnInstalling(gomock.Any(), gomock.Any(), barPath).Return(true, nil),
		plugin.EXPECT().OnInstalled(gomock.Any(), gomock.Any(), barPath).Return(nil),
		plugin.EXPECT().OnInstalling(gomock.Any(), gomock.Any(), fooPath).Return(true, nil),
		plugin.EXPECT().OnInstalled(gomock.Any(), gomock.Any(), fooPath).Return(nil),
	)

	pkg, err := f.manager.InstallPackage(context.Background(), "Foo", "", false)
	require.NoError(t, err)
	assert.Equal(t, "Foo.1.0.0", pkg.Identity().String())

	assert.FileExists(t, filepath.Join(fooPath, "lib", "net472", "Foo.dll"))
	assert.FileExists(t, filepath.Join(fooPath, "Foo.1.0.0.nupkg"))
	assert.NoFileExists(t, filepath.Join(fooPath, "Foo.nuspec"))
	assert.True(t, f.manager.LocalRepository().Exists("Bar", "1.0.0"))

	// Installed packages are returned without notifying plugins again.
	again, err := f.manager.InstallPackage(context.Background(), "Foo", "1.0.0", false)
	require.NoError(t, err)
	assert.Equal(t, pkg.Identity(), again.Identity())
}

func TestManager_InstallSkippedByPlugin(t *testing.T) {
	f := newFixture(t)
	writePackage(t, f.feedDir, "Demo", "1.0.0", map[string]string{"content/Demo.bonsai": "<WorkflowBuilder/>"})

	ctrl := gomock.NewController(t)
	plugin := mocks.NewMockPackagePlugin(ctrl)
	plugin.EXPECT().OnInstalling(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	f.manager.AddPlugin(plugin)

	pkg, err := f.manager.InstallPackage(context.Background(), "Demo", "", true)
	require.NoError(t, err)
	assert.Equal(t, "Demo", pkg.Identity().ID)
	assert.False(t, f.manager.LocalRepository().Exists("Demo", "1.0.0"))
}

func TestManager_InstallRollsBackFilesWhenPluginFails(t *testing.T) {
	f := newFixture(t)
	writePackage(t, f.feedDir, "Foo", "1.0.0", map[string]string{"lib/net472/Foo.dll": "MZ"})

	ctrl := gomock.NewController(t)
	plugin := mocks.NewMockPackagePlugin(ctrl)
	plugin.EXPECT().OnInstalling(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	plugin.EXPECT().OnInstalled(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrAssemblyLocationMismatch)
	f.manager.AddPlugin(plugin)

	_, err := f.manager.InstallPackage(context.Background(), "Foo", "", true)
	require.Error(t, err)
	assert.NoDirExists(t, filepath.Join(f.repoDir, "Foo.1.0.0"))
}

func TestManager_RemovePlugin(t *testing.T) {
	f := newFixture(t)
	writePackage(t, f.feedDir, "Foo", "1.0.0", nil)

	ctrl := gomock.NewController(t)
	plugin := mocks.NewMockPackagePlugin(ctrl)
	f.manager.AddPlugin(plugin)
	f.manager.RemovePlugin(plugin)

	_, err := f.manager.InstallPackage(context.Background(), "Foo", "", true)
	require.NoError(t, err)
}

func TestManager_Uninstall(t *testing.T) {
	f := newFixture(t)
	writePackage(t, f.feedDir, "Foo", "1.0.0", map[string]string{"lib/net472/Foo.dll": "MZ"}, dependency{"Bar", "1.0.0"})
	writePackage(t, f.feedDir, "Bar", "1.0.0", map[string]string{"lib/net472/Bar.dll": "MZ"})

	ctx := context.Background()
	_, err := f.manager.InstallPackage(ctx, "Foo", "", false)
	require.NoError(t, err)

	err = f.manager.UninstallPackage(ctx, "Bar", "", false)
	require.Error(t, err, "Bar is required by Foo")
	assert.Contains(t, err.Error(), domain.ErrPackageUninstallFailed.Error())

	ctrl := gomock.NewController(t)
	plugin := mocks.NewMockPackagePlugin(ctrl)
	plugin.EXPECT().OnUninstalled(gomock.Any(), gomock.Any(), filepath.Join(f.repoDir, "Foo.1.0.0")).
		DoAndReturn(func(_ context.Context, pkg ports.PackageReader, installPath string) error {
			assert.NoFileExists(t, filepath.Join(installPath, "lib", "net472", "Foo.dll"))
			return nil
		})
	plugin.EXPECT().OnUninstalled(gomock.Any(), gomock.Any(), filepath.Join(f.repoDir, "Bar.1.0.0")).Return(nil)
	f.manager.AddPlugin(plugin)

	require.NoError(t, f.manager.UninstallPackage(ctx, "Foo", "", true))
	assert.NoDirExists(t, filepath.Join(f.repoDir, "Foo.1.0.0"))
	assert.NoDirExists(t, filepath.Join(f.repoDir, "Bar.1.0.0"))
}

func TestManager_UninstallMissingWarns(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Warn(gomock.Any())

	require.NoError(t, f.manager.UninstallPackage(context.Background(), "Missing", "", false))
}

func TestManager_OverlayInstallsFlat(t *testing.T) {
	f := newFixture(t)
	writePackage(t, f.feedDir, "Pivot", "2.0.0", map[string]string{"build/native/bin/x64/pivot.dll": "MZ"})

	parent := filepath.Join(f.repoDir, "Parent.1.0.0")
	overlay := f.manager.Overlay(parent)

	pkg, err := overlay.InstallPackage(context.Background(), "Pivot", "2.0.0", true)
	require.NoError(t, err)
	assert.Equal(t, "Pivot", pkg.Identity().ID)
	assert.FileExists(t, filepath.Join(parent, "build", "native", "bin", "x64", "pivot.dll"))
	assert.FileExists(t, filepath.Join(parent, "Pivot.2.0.0.nupkg"))

	found, ok := overlay.LocalRepository().FindLocalPackage("Pivot")
	require.True(t, ok)
	assert.Equal(t, "2.0.0", found.Identity().Version)
	assert.Equal(t, parent, overlay.LocalRepository().InstallPath(found.Identity()))

	_, ok = f.manager.LocalRepository().FindLocalPackage("Pivot")
	assert.False(t, ok, "pivots are not packages of the parent repository")
}
