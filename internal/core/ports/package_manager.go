package ports

import (
	"context"
	"io"

	"go.trai.ch/bonsai/internal/core/domain"
)

//go:generate mockgen -source=package_manager.go -destination=mocks/mock_package_manager.go -package=mocks

// PackageReader exposes the contents of a package archive.
type PackageReader interface {
	// Identity returns the package id and version.
	Identity() domain.PackageIdentity
	// Tags returns the package tags.
	Tags() []string
	// Files returns the archive relative paths of the package content, using forward slashes.
	Files() []string
	// Open opens a file of the package content by its archive relative path.
	Open(name string) (io.ReadCloser, error)
	// ArchivePath returns the path of the package archive on disk.
	ArchivePath() string
}

// LocalRepository is the set of packages installed on disk.
type LocalRepository interface {
	// Root returns the repository directory.
	Root() string
	// Exists reports whether the package version is installed.
	Exists(id, version string) bool
	// FindLocalPackage returns the highest installed version of id.
	FindLocalPackage(id string) (PackageReader, bool)
	// FindPackage returns the installed package with the exact version.
	FindPackage(id, version string) (PackageReader, bool)
	// InstallPath returns the directory a package is (or would be) installed to.
	InstallPath(identity domain.PackageIdentity) string
}

// PackagePlugin receives package events from a PackageManager.
type PackagePlugin interface {
	// OnInstalling runs before a package is extracted. Returning false skips the installation.
	OnInstalling(ctx context.Context, pkg PackageReader, installPath string) (bool, error)
	// OnInstalled runs after a package has been extracted.
	OnInstalled(ctx context.Context, pkg PackageReader, installPath string) error
	// OnUninstalled runs after a package has been removed from disk.
	OnUninstalled(ctx context.Context, pkg PackageReader, installPath string) error
}

// PackageManager installs and removes packages in a local repository.
type PackageManager interface {
	// LocalRepository returns the repository packages are installed into.
	LocalRepository() LocalRepository

	// AddPlugin subscribes a plugin to package events.
	AddPlugin(plugin PackagePlugin)
	// RemovePlugin unsubscribes a plugin.
	RemovePlugin(plugin PackagePlugin)

	// InstallPackage installs id at version, or the latest available version when version is empty.
	// Dependencies are installed first unless ignoreDependencies is set.
	InstallPackage(ctx context.Context, id, version string, ignoreDependencies bool) (PackageReader, error)

	// UninstallPackage removes id at version, or the highest installed version when version is empty.
	UninstallPackage(ctx context.Context, id, version string, removeDependencies bool) error

	// Overlay returns a manager that shares the package sources but installs into root.
	Overlay(root string) PackageManager
}
