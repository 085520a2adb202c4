package config

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/packaging"
	"go.trai.ch/zerr"
)

// PackageReferenceMap indexes the configured packages by their folder name in the local repository.
func PackageReferenceMap(cfg *domain.PackageConfiguration) map[string]domain.PackageReference {
	index := make(map[string]domain.PackageReference, cfg.Packages.Len())
	for _, p := range cfg.Packages.All() {
		index[domain.PackageIdentity{ID: p.ID, Version: p.Version}.String()] = p
	}
	return index
}

// AssemblyPackageReference returns the package that provides the module, when its location
// lies inside the local repository.
func AssemblyPackageReference(
	cfg *domain.PackageConfiguration,
	assemblyName string,
	index map[string]domain.PackageReference,
) (domain.PackageReference, bool) {
	loc, ok := cfg.FindAssemblyLocation(assemblyName, domain.Is64BitProcess())
	if !ok {
		return domain.PackageReference{}, false
	}

	elements := strings.Split(packaging.ToSlash(loc.Location), "/")
	if len(elements) > 1 && elements[0] == domain.PackagesDirectory {
		ref, ok := index[elements[1]]
		return ref, ok
	}
	return domain.PackageReference{}, false
}

// RelativePath expresses path relative to root with forward slashes. Paths outside root are
// returned unchanged.
func RelativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return packaging.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// RegisterPath registers a directory of loose extension assemblies. The directory is appended
// to the extension folders and each assembly whose neutral key is free becomes resolvable.
// A missing directory is ignored.
func RegisterPath(cfg *domain.PackageConfiguration, dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	cfg.ExtensionFolders = append(cfg.ExtensionFolders, dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to list extension folder"), "path", dir)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), domain.AssemblyExtension) {
			continue
		}
		name := packaging.AssemblyName(e.Name())
		key := domain.AssemblyLocationKey{AssemblyName: name, Architecture: domain.ArchMSIL}
		if cfg.AssemblyLocations.Contains(key) {
			continue
		}
		cfg.RegisterAssemblyReference(name)
		location, err := filepath.Abs(filepath.Join(dir, e.Name()))
		if err != nil {
			location = filepath.Join(dir, e.Name())
		}
		if err := cfg.RegisterAssemblyLocation(name, domain.ArchMSIL, location); err != nil {
			return err
		}
	}
	return nil
}
