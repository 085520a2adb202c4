package nuget

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/bonsai/internal/adapters/archive"
	bfs "go.trai.ch/bonsai/internal/adapters/fs"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/zerr"
)

// Manager installs packages from a feed into a local repository and notifies plugins.
type Manager struct {
	repo    *Repository
	feed    *Feed
	cleanup *bfs.Cleanup
	logger  ports.Logger

	mu      sync.RWMutex
	plugins []ports.PackagePlugin
}

var _ ports.PackageManager = (*Manager)(nil)

// NewManager creates a new Manager.
func NewManager(repo *Repository, feed *Feed, cleanup *bfs.Cleanup, logger ports.Logger) *Manager {
	return &Manager{repo: repo, feed: feed, cleanup: cleanup, logger: logger}
}

// LocalRepository returns the repository packages are installed into.
func (m *Manager) LocalRepository() ports.LocalRepository {
	return m.repo
}

// Overlay returns a manager sharing the feed that extracts packages flat into root.
// Plugins are not shared.
func (m *Manager) Overlay(root string) ports.PackageManager {
	return NewManager(NewFlatRepository(root), m.feed, m.cleanup, m.logger)
}

// AddPlugin subscribes a plugin to package events.
func (m *Manager) AddPlugin(plugin ports.PackagePlugin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plugins = append(m.plugins, plugin)
}

// RemovePlugin unsubscribes a plugin.
func (m *Manager) RemovePlugin(plugin ports.PackagePlugin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plugins = slices.DeleteFunc(m.plugins, func(p ports.PackagePlugin) bool { return p == plugin })
}

func (m *Manager) snapshotPlugins() []ports.PackagePlugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.plugins)
}

// InstallPackage installs id at version, or the latest available version when version is empty.
// An installed version is returned as is without notifying plugins.
func (m *Manager) InstallPackage(ctx context.Context, id, version string, ignoreDependencies bool) (ports.PackageReader, error) {
	source, err := m.feed.Find(id, version)
	if err != nil {
		return nil, err
	}
	return m.install(ctx, source, ignoreDependencies, map[string]bool{})
}

func (m *Manager) install(ctx context.Context, source *Package, ignoreDependencies bool, visiting map[string]bool) (ports.PackageReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	identity := source.Identity()
	if local, ok := m.repo.findPackage(identity.ID, identity.Version); ok {
		return local, nil
	}

	key := strings.ToLower(identity.ID)
	if visiting[key] {
		return nil, zerr.With(zerr.Wrap(zerr.New("dependency cycle"), domain.ErrPackageInstallFailed.Error()), "id", identity.ID)
	}
	visiting[key] = true
	defer delete(visiting, key)

	if !ignoreDependencies {
		for _, dep := range source.Dependencies() {
			if local, ok := m.repo.findLocalPackage(dep.ID); ok {
				if satisfied, err := domain.VersionAtLeast(local.Identity().Version, orZero(dep.Version)); err == nil && satisfied {
					continue
				}
			}
			depSource, err := m.feed.Resolve(dep.ID, dep.Version)
			if err != nil {
				return nil, zerr.With(err, "dependent", identity.String())
			}
			if _, err := m.install(ctx, depSource, false, visiting); err != nil {
				return nil, err
			}
		}
	}

	m.logger.Info(fmt.Sprintf("Installing package '%s %s'.", identity.ID, identity.Version))

	installPath := m.repo.InstallPath(identity)
	plugins := m.snapshotPlugins()
	for _, plugin := range plugins {
		accepted, err := plugin.OnInstalling(ctx, source, installPath)
		if err != nil {
			return nil, err
		}
		if !accepted {
			return source, nil
		}
	}

	installed, err := m.extract(source, installPath)
	if err != nil {
		return nil, err
	}

	for _, plugin := range plugins {
		if err := plugin.OnInstalled(ctx, installed, installPath); err != nil {
			m.deleteFiles(installed, installPath)
			return nil, err
		}
	}
	return installed, nil
}

func (m *Manager) extract(source *Package, installPath string) (*Package, error) {
	identity := source.Identity()
	if _, err := archive.Extract(source.ArchivePath(), installPath, isMetadataEntry); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPackageInstallFailed.Error()), "id", identity.String())
	}

	archivePath := m.repo.ArchivePath(identity)
	if err := bfs.CopyFileAtomic(source.ArchivePath(), archivePath, domain.FilePerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPackageInstallFailed.Error()), "id", identity.String())
	}

	installed, err := ReadPackage(archivePath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPackageInstallFailed.Error()), "id", identity.String())
	}
	return installed, nil
}

// deleteFiles removes the extracted files and archive of a package, then prunes the empty
// folders left below installPath.
func (m *Manager) deleteFiles(pkg *Package, installPath string) {
	for _, file := range pkg.Files() {
		m.cleanup.TryRemove(filepath.Join(installPath, filepath.FromSlash(file)))
	}
	m.cleanup.TryRemove(pkg.ArchivePath())
	m.cleanup.RemoveEmptyDirectories(installPath)
}

// UninstallPackage removes id at version, or the highest installed version when version is empty.
// A package that is not installed only logs a warning. A package other installed packages depend
// on is not removed.
func (m *Manager) UninstallPackage(ctx context.Context, id, version string, removeDependencies bool) error {
	var (
		pkg *Package
		ok  bool
	)
	if version == "" {
		pkg, ok = m.repo.findLocalPackage(id)
	} else {
		pkg, ok = m.repo.findPackage(id, version)
	}
	if !ok {
		m.logger.Warn(fmt.Sprintf("The package '%s' could not be found.", domain.PackageIdentity{ID: id, Version: version}))
		return nil
	}

	installed := m.repo.Packages()
	if dependents := dependentsOf(pkg, installed); len(dependents) > 0 {
		return zerr.With(zerr.With(zerr.Wrap(zerr.New("package is required by other packages"),
			domain.ErrPackageUninstallFailed.Error()), "id", pkg.Identity().String()), "dependents", strings.Join(dependents, ", "))
	}

	if err := m.delete(ctx, pkg); err != nil {
		return err
	}
	if !removeDependencies {
		return nil
	}

	for _, dep := range pkg.Dependencies() {
		local, ok := m.repo.findLocalPackage(dep.ID)
		if !ok || len(dependentsOf(local, m.repo.Packages())) > 0 {
			continue
		}
		if err := m.UninstallPackage(ctx, local.Identity().ID, local.Identity().Version, true); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) delete(ctx context.Context, pkg *Package) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	identity := pkg.Identity()
	m.logger.Info(fmt.Sprintf("Deleting package '%s'.", identity))
	installPath := m.repo.InstallPath(identity)

	for _, file := range pkg.Files() {
		path := filepath.Join(installPath, filepath.FromSlash(file))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return zerr.With(zerr.Wrap(err, domain.ErrPackageUninstallFailed.Error()), "path", path)
		}
	}

	for _, plugin := range m.snapshotPlugins() {
		if err := plugin.OnUninstalled(ctx, pkg, installPath); err != nil {
			return err
		}
	}

	m.cleanup.TryRemove(pkg.ArchivePath())
	m.cleanup.RemoveEmptyDirectories(installPath)
	return nil
}

// dependentsOf returns the installed packages, other than pkg, that declare a dependency
// satisfied by pkg.
func dependentsOf(pkg *Package, installed []*Package) []string {
	identity := pkg.Identity()
	var dependents []string
	for _, other := range installed {
		if strings.EqualFold(other.Identity().ID, identity.ID) {
			continue
		}
		for _, dep := range other.Dependencies() {
			if !strings.EqualFold(dep.ID, identity.ID) {
				continue
			}
			if ok, err := domain.VersionAtLeast(identity.Version, orZero(dep.Version)); err == nil && ok {
				dependents = append(dependents, other.Identity().String())
			}
		}
	}
	return dependents
}

func orZero(version string) string {
	if version == "" {
		return "0.0.0"
	}
	return version
}
