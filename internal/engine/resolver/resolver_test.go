package resolver_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports/mocks"
	"go.trai.ch/bonsai/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

func writeModule(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolve_PrefersNeutralLocation(t *testing.T) {
	root := t.TempDir()
	neutral := writeModule(t, root, "Packages/Foo.1.0.0/lib/net472/Foo.dll", "msil")
	writeModule(t, root, "Packages/Foo.1.0.0/build/net472/bin/x64/Foo.dll", "x64")

	cfg := domain.NewPackageConfiguration()
	require.NoError(t, cfg.RegisterAssemblyLocation("Foo", domain.ArchAmd64, "Packages/Foo.1.0.0/build/net472/bin/x64/Foo.dll"))
	require.NoError(t, cfg.RegisterAssemblyLocation("Foo", domain.ArchMSIL, "Packages/Foo.1.0.0/lib/net472/Foo.dll"))

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockModuleLoader(ctrl)
	module := mocks.NewMockModule(ctrl)
	loader.EXPECT().LoadFile("Foo", neutral).Return(module, nil)

	r := resolver.New(cfg, root, loader, resolver.WithArchitecture(domain.ArchAmd64))
	got, err := r.Resolve("Foo")
	require.NoError(t, err)
	assert.Same(t, module, got)
}

func TestResolve_FallsBackToProcessArchitecture(t *testing.T) {
	root := t.TempDir()
	x86 := writeModule(t, root, "x86/Foo.dll", "x86")
	writeModule(t, root, "x64/Foo.dll", "x64")

	cfg := domain.NewPackageConfiguration()
	require.NoError(t, cfg.RegisterAssemblyLocation("Foo", domain.ArchAmd64, "x64/Foo.dll"))
	require.NoError(t, cfg.RegisterAssemblyLocation("Foo", domain.ArchX86, "x86/Foo.dll"))

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockModuleLoader(ctrl)
	module := mocks.NewMockModule(ctrl)
	loader.EXPECT().LoadFile("Foo", x86).Return(module, nil)

	r := resolver.New(cfg, root, loader, resolver.WithArchitecture(domain.ArchX86))
	loc, ok := r.Location("Foo")
	require.True(t, ok)
	assert.Equal(t, "x86/Foo.dll", loc)

	got, err := r.Resolve("Foo")
	require.NoError(t, err)
	assert.Same(t, module, got)
}

func TestResolve_UnknownAndMissingAreCachedAsNil(t *testing.T) {
	root := t.TempDir()
	cfg := domain.NewPackageConfiguration()
	require.NoError(t, cfg.RegisterAssemblyLocation("Gone", domain.ArchMSIL, "lib/Gone.dll"))

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockModuleLoader(ctrl)

	r := resolver.New(cfg, root, loader)
	for range 2 {
		got, err := r.Resolve("Unknown")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = r.Resolve("Gone")
		require.NoError(t, err)
		assert.Nil(t, got)
	}

	writeModule(t, root, "lib/Gone.dll", "late")
	got, err := r.Resolve("Gone")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolve_WithoutLockLoadsImage(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "lib/Foo.dll", "image")

	cfg := domain.NewPackageConfiguration()
	require.NoError(t, cfg.RegisterAssemblyLocation("Foo", domain.ArchMSIL, "lib/Foo.dll"))

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockModuleLoader(ctrl)
	module := mocks.NewMockModule(ctrl)
	loader.EXPECT().LoadBytes("Foo", "lib/Foo.dll", []byte("image")).Return(module, nil)

	r := resolver.New(cfg, root, loader, resolver.WithAssemblyLock(false))
	got, err := r.Resolve("Foo")
	require.NoError(t, err)
	assert.Same(t, module, got)
}

func TestResolve_FileURILoadsImage(t *testing.T) {
	root := t.TempDir()
	path := writeModule(t, root, "ext/Foo.dll", "uri")
	location := "file://" + filepath.ToSlash(path)

	cfg := domain.NewPackageConfiguration()
	require.NoError(t, cfg.RegisterAssemblyLocation("Foo", domain.ArchMSIL, location))

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockModuleLoader(ctrl)
	module := mocks.NewMockModule(ctrl)
	loader.EXPECT().LoadBytes("Foo", location, []byte("uri")).Return(module, nil)

	r := resolver.New(cfg, "/elsewhere", loader)
	got, err := r.Resolve("Foo")
	require.NoError(t, err)
	assert.Same(t, module, got)
}

func TestResolve_ConcurrentCallsLoadOnce(t *testing.T) {
	root := t.TempDir()
	path := writeModule(t, root, "lib/Foo.dll", "once")

	cfg := domain.NewPackageConfiguration()
	require.NoError(t, cfg.RegisterAssemblyLocation("Foo", domain.ArchMSIL, "lib/Foo.dll"))

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockModuleLoader(ctrl)
	module := mocks.NewMockModule(ctrl)
	loader.EXPECT().LoadFile("Foo", path).Return(module, nil).Times(1)

	r := resolver.New(cfg, root, loader)

	var wg sync.WaitGroup
	results := make([]any, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.Resolve("Foo")
			assert.NoError(t, err)
			results[i] = got
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Same(t, module, got)
	}
}

func TestRegisterLibraryPaths(t *testing.T) {
	root := t.TempDir()
	cfg := domain.NewPackageConfiguration()
	require.NoError(t, cfg.RegisterLibraryFolder("Packages/Foo.1.0.0/build/native/bin/x64", "x64"))
	require.NoError(t, cfg.RegisterLibraryFolder("Packages/Foo.1.0.0/build/native/bin/x86", "x86"))
	require.NoError(t, cfg.RegisterLibraryFolder("/opt/native", "x64"))
	cfg.ExtensionFolders = []string{"/ext/first", "Extensions"}

	ctrl := gomock.NewController(t)
	searchPath := mocks.NewMockLibrarySearchPath(ctrl)
	gomock.InOrder(
		searchPath.EXPECT().Add(filepath.FromSlash("/opt/native")).Return(nil),
		searchPath.EXPECT().Add(filepath.Join(root, "Packages", "Foo.1.0.0", "build", "native", "bin", "x64")).Return(nil),
		searchPath.EXPECT().Add(filepath.Join(root, "Extensions")).Return(nil),
		searchPath.EXPECT().Add(filepath.FromSlash("/ext/first")).Return(nil),
	)

	require.NoError(t, resolver.RegisterLibraryPaths(cfg, root, searchPath, "x64"))
}
