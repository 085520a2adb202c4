package updater

import (
	"os"
	"path/filepath"

	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/packaging"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/zerr"
)

func (u *Updater) registerLibraryFolders(pkg ports.PackageReader, relativePath string) error {
	for _, folder := range packaging.LibraryFolders(pkg, relativePath) {
		if err := u.cfg.RegisterLibraryFolder(folder.Path, folder.Platform); err != nil {
			return zerr.With(err, "package", pkg.Identity().String())
		}
	}
	return nil
}

func (u *Updater) removeLibraryFolders(pkg ports.PackageReader, relativePath string) {
	for _, folder := range packaging.LibraryFolders(pkg, relativePath) {
		u.cfg.LibraryFolders.Remove(folder.Path)
	}
}

func (u *Updater) registerArchitectureAssemblies(pkg ports.PackageReader, relativePath string) error {
	for _, group := range packaging.ArchitectureSpecificAssemblies(pkg, u.framework) {
		if err := u.registerAssemblies(group.Paths, relativePath, group.Architecture, false); err != nil {
			return zerr.With(err, "package", pkg.Identity().String())
		}
	}
	return nil
}

func (u *Updater) removeArchitectureAssemblies(pkg ports.PackageReader, relativePath string) {
	for _, group := range packaging.ArchitectureSpecificAssemblies(pkg, u.framework) {
		for _, path := range group.Paths {
			u.cfg.RemoveAssemblyLocationsAt(packaging.CombinePath(relativePath, path), false)
		}
	}
}

func (u *Updater) registerAssemblies(paths []string, relativePath string, arch domain.ProcessorArchitecture, addReferences bool) error {
	for _, path := range paths {
		name := packaging.AssemblyName(path)
		if err := u.cfg.RegisterAssemblyLocation(name, arch, packaging.CombinePath(relativePath, path)); err != nil {
			return err
		}
		if addReferences {
			u.cfg.RegisterAssemblyReference(name)
		}
	}
	return nil
}

// addContent merges content/<folder> of an installed package into the launcher folder.
func (u *Updater) addContent(installPath, folder string) error {
	src := filepath.Join(installPath, packaging.ContentFolder, folder)
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return nil
	}
	dst := filepath.Join(u.bootstrapperDir, folder)
	if err := u.copier.CopyDirectory(src, dst); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrContentCopyFailed.Error()), "path", dst)
	}
	return nil
}

// removeContent deletes the files the package placed under content/<folder> from the
// launcher folder and prunes the folders left empty.
func (u *Updater) removeContent(pkg ports.PackageReader, folder string) {
	files := packaging.ContentFiles(pkg, folder)
	if len(files) == 0 {
		return
	}
	for _, file := range files {
		u.cleaner.TryRemove(filepath.Join(u.bootstrapperDir, filepath.FromSlash(contentPath(file))))
	}
	u.cleaner.RemoveEmptyDirectories(filepath.Join(u.bootstrapperDir, folder))
}
