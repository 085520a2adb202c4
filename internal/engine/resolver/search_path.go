package resolver

import (
	"path/filepath"
	"slices"

	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
)

// RegisterLibraryPaths adds the library folders of cfg that match platform to the search path,
// followed by the extension folders in reverse registration order.
func RegisterLibraryPaths(cfg *domain.PackageConfiguration, root string, searchPath ports.LibrarySearchPath, platform string) error {
	for _, folder := range cfg.LibraryFolders.All() {
		if folder.Platform != platform {
			continue
		}
		if err := searchPath.Add(absolute(root, folder.Path)); err != nil {
			return err
		}
	}

	for _, dir := range slices.Backward(cfg.ExtensionFolders) {
		if err := searchPath.Add(absolute(root, dir)); err != nil {
			return err
		}
	}
	return nil
}

func absolute(root, path string) string {
	p := filepath.FromSlash(path)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
