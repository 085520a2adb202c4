package updater

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	bfs "go.trai.ch/bonsai/internal/adapters/fs"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/packaging"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/bonsai/internal/engine/overlay"
	"go.trai.ch/zerr"
)

// OnInstalling stages executable packages into the gallery instead of installing them, and
// installs the pivots of any other package ahead of it.
func (u *Updater) OnInstalling(ctx context.Context, pkg ports.PackageReader, installPath string) (bool, error) {
	if packaging.IsExecutable(pkg, u.framework) {
		return false, u.stageGalleryPackage(pkg)
	}

	pivots, err := overlay.FindPivots(pkg, installPath)
	if err != nil {
		return false, err
	}
	if len(pivots) == 0 {
		return true, nil
	}
	version, err := overlay.PivotVersion(pkg)
	if err != nil {
		return false, err
	}

	overlayManager := overlay.NewOverlayManager(u.manager, installPath)
	var installed []string
	for _, pivot := range pivots {
		if _, err := overlayManager.InstallPackage(ctx, pivot, version, true); err != nil {
			u.rollbackPivots(ctx, overlayManager, installed)
			return false, zerr.With(err, "pivot", pivot)
		}
		installed = append(installed, pivot)
	}
	return true, nil
}

func (u *Updater) stageGalleryPackage(pkg ports.PackageReader) error {
	src := pkg.ArchivePath()
	dst := filepath.Join(u.bootstrapperDir, domain.GalleryDirectory, filepath.Base(src))
	if bfs.Exists(dst) {
		return nil
	}
	if err := bfs.CopyFileAtomic(src, dst, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPackageInstallFailed.Error()), "id", pkg.Identity().String())
	}
	return nil
}

func (u *Updater) rollbackPivots(ctx context.Context, overlayManager ports.PackageManager, installed []string) {
	for _, pivot := range slices.Backward(installed) {
		if err := overlayManager.UninstallPackage(ctx, pivot, "", false); err != nil {
			u.warn(fmt.Sprintf("Failed to roll back pivot package '%s': %v", pivot, err))
		}
	}
}

// OnInstalled records the package, merges its extension content, registers its library folders
// and assembly locations together with those of its pivots, and saves the configuration.
// A newer version of the launcher package also replaces the launcher.
// The configuration is left untouched when registering or saving fails.
func (u *Updater) OnInstalled(ctx context.Context, pkg ports.PackageReader, installPath string) error {
	snapshot := u.cfg.Snapshot()
	if err := u.register(pkg, installPath); err != nil {
		u.cfg.Restore(snapshot)
		return err
	}
	if err := u.store.Save(u.cfg, ""); err != nil {
		u.cfg.Restore(snapshot)
		return err
	}

	if u.isNewerBootstrapper(pkg.Identity()) {
		return u.replaceBootstrapper(pkg)
	}
	return nil
}

func (u *Updater) register(pkg ports.PackageReader, installPath string) error {
	identity := pkg.Identity()
	relativePath := u.relativePath(installPath)

	u.cfg.UpsertPackage(identity.ID, identity.Version)

	if err := u.registerLibraryFolders(pkg, relativePath); err != nil {
		return err
	}
	if err := u.registerArchitectureAssemblies(pkg, relativePath); err != nil {
		return err
	}

	pivots, err := u.localPivots(pkg, installPath, true)
	if err != nil {
		return err
	}
	for _, pivot := range pivots {
		if err := u.registerLibraryFolders(pivot, relativePath); err != nil {
			return err
		}
		if err := u.registerArchitectureAssemblies(pivot, relativePath); err != nil {
			return err
		}
	}

	references := packaging.CompatibleReferences(pkg, u.framework)
	if err := u.registerAssemblies(references, relativePath, domain.ArchMSIL, packaging.IsLibrary(pkg)); err != nil {
		return err
	}
	return u.addContent(installPath, domain.ExtensionsDirectory)
}

// OnUninstalled removes everything OnInstalled registered for the package and its pivots,
// saves the configuration and uninstalls the pivots.
func (u *Updater) OnUninstalled(ctx context.Context, pkg ports.PackageReader, installPath string) error {
	identity := pkg.Identity()
	relativePath := u.relativePath(installPath)
	removeReferences := packaging.IsLibrary(pkg)

	u.cfg.Packages.Remove(identity.ID)

	u.removeContent(pkg, domain.ExtensionsDirectory)
	u.removeLibraryFolders(pkg, relativePath)
	u.removeArchitectureAssemblies(pkg, relativePath)

	pivots, err := u.localPivots(pkg, installPath, false)
	if err != nil {
		return err
	}
	for _, pivot := range pivots {
		u.removeLibraryFolders(pivot, relativePath)
		u.removeArchitectureAssemblies(pivot, relativePath)
	}

	for _, path := range packaging.CompatibleReferences(pkg, u.framework) {
		u.cfg.RemoveAssemblyLocationsAt(packaging.CombinePath(relativePath, path), removeReferences)
	}

	if err := u.store.Save(u.cfg, ""); err != nil {
		return err
	}

	if len(pivots) == 0 {
		return nil
	}
	overlayManager := overlay.NewOverlayManager(u.manager, installPath)
	for _, pivot := range pivots {
		if err := overlayManager.UninstallPackage(ctx, pivot.Identity().ID, "", false); err != nil {
			return err
		}
	}
	return nil
}

// localPivots returns the installed pivots of pkg from the overlay repository in installPath.
// When required is set a missing pivot is an error; otherwise it is skipped.
func (u *Updater) localPivots(pkg ports.PackageReader, installPath string, required bool) ([]ports.PackageReader, error) {
	ids, err := overlay.FindPivots(pkg, installPath)
	if err != nil || len(ids) == 0 {
		return nil, err
	}

	repo := overlay.NewOverlayManager(u.manager, installPath).LocalRepository()
	pivots := make([]ports.PackageReader, 0, len(ids))
	for _, id := range ids {
		pivot, ok := repo.FindLocalPackage(id)
		if !ok {
			if required {
				return nil, zerr.With(zerr.With(domain.ErrPackageNotFound, "pivot", id), "parent", pkg.Identity().String())
			}
			continue
		}
		pivots = append(pivots, pivot)
	}
	return pivots, nil
}

func (u *Updater) isNewerBootstrapper(identity domain.PackageIdentity) bool {
	if u.bootstrapperPath == "" || identity.ID != u.bootstrapper.ID {
		return false
	}
	if u.bootstrapper.Version == "" {
		return true
	}
	c, err := domain.CompareVersions(identity.Version, u.bootstrapper.Version)
	return err == nil && c > 0
}

// contentPath returns the path of a content file relative to the content folder.
func contentPath(file string) string {
	_, rest, _ := strings.Cut(packaging.ToSlash(file), "/")
	return rest
}
