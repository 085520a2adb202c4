package overlay_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports/mocks"
	"go.trai.ch/bonsai/internal/engine/overlay"
	"go.uber.org/mock/gomock"
)

func newPackage(t *testing.T, version string, files map[string]string) *mocks.MockPackageReader {
	t.Helper()
	ctrl := gomock.NewController(t)
	pkg := mocks.NewMockPackageReader(ctrl)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	pkg.EXPECT().Identity().Return(domain.PackageIdentity{ID: "Parent", Version: version}).AnyTimes()
	pkg.EXPECT().Files().Return(names).AnyTimes()
	pkg.EXPECT().Open(gomock.Any()).DoAndReturn(func(name string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(files[name])), nil
	}).AnyTimes()
	return pkg
}

func TestFindOverlayVersion(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    string
	}{
		{"single dash", "dotnet bonsai-overlay -Version 2.1.0 -Source x", "2.1.0"},
		{"double dash lower", "overlay --version 3.0.0-rc1", "3.0.0-rc1"},
		{"mixed case", "overlay -VERSION \"1.2.3\"", "1.2.3"},
		{"equals", "overlay --version=4.5.6", "4.5.6"},
		{"no flag", "overlay -Source feed", ""},
		{"dangling flag", "overlay -Version", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := newPackage(t, "1.0.0", map[string]string{"tools/Overlay.CMD": tt.command})
			got, err := overlay.FindOverlayVersion(pkg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindOverlayVersion_NoCommand(t *testing.T) {
	pkg := newPackage(t, "1.0.0", map[string]string{"lib/net472/Foo.dll": ""})
	got, err := overlay.FindOverlayVersion(pkg)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPivotVersion(t *testing.T) {
	pinned := newPackage(t, "1.0.0", map[string]string{"overlay.cmd": "-Version 2.0.0"})
	got, err := overlay.PivotVersion(pinned)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", got)

	unpinned := newPackage(t, "1.0.0", nil)
	got, err = overlay.PivotVersion(unpinned)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", got)
}

func TestFindPivots_FromPackage(t *testing.T) {
	pkg := newPackage(t, "1.0.0", map[string]string{
		"build/Pivots.txt": "# variants\nFoo.Win64\n\n  Foo.Win32  \n#Foo.Linux\n",
	})
	pivots, err := overlay.FindPivots(pkg, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo.Win64", "Foo.Win32"}, pivots)
}

func TestFindPivots_FromInstallPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.PivotManifestFileName), []byte("Foo.Arm64\r\n"), 0o600))

	pkg := newPackage(t, "1.0.0", nil)
	pivots, err := overlay.FindPivots(pkg, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo.Arm64"}, pivots)

	pivots, err = overlay.FindPivots(pkg, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, pivots)
}

func TestNewOverlayManager(t *testing.T) {
	ctrl := gomock.NewController(t)
	manager := mocks.NewMockPackageManager(ctrl)
	overlayManager := mocks.NewMockPackageManager(ctrl)
	manager.EXPECT().Overlay("/repo/Foo.1.0.0").Return(overlayManager)

	assert.Same(t, overlayManager, overlay.NewOverlayManager(manager, "/repo/Foo.1.0.0"))
}
