// Package domain contains the core models of a provisioned Bonsai environment.
package domain

import (
	"path/filepath"
	"strings"
)

const (
	// DirPerm is the default permission for directories created by the provisioner.
	DirPerm = 0o750
	// FilePerm is the default permission for regular files.
	FilePerm = 0o644
	// ExecPerm is the permission for launcher executables.
	ExecPerm = 0o755
)

const (
	// LauncherName is the base name of the launcher and of its package.
	LauncherName = "Bonsai"
	// LauncherFileName is the file name of the launcher executable.
	LauncherFileName = LauncherName + ".exe"
	// LauncherPackageID is the id of the package that ships the launcher.
	LauncherPackageID = LauncherName
	// LibraryTag marks packages whose reference assemblies are registered as resolvable modules.
	LibraryTag = LauncherName

	// ConfigurationFileName is the name of the package configuration file.
	ConfigurationFileName = "Bonsai.config"
	// PackageSourcesFileName is the name of the package source settings file shipped beside the launcher.
	PackageSourcesFileName = "NuGet.config"
	// SettingsFileName is the name of the optional application settings file beside the launcher.
	SettingsFileName = "bonsai.yaml"

	// ProjectFolderName is the project-local folder holding a pinned launcher.
	ProjectFolderName = ".bonsai"
	// BackupExtension is appended to the launcher path while it is being replaced.
	BackupExtension = ".old"
	// StagedExtension is appended to a fully written launcher before it is moved into place.
	StagedExtension = ".new"
	// ExecutableExtension is the extension of content entries declaring an executable package.
	ExecutableExtension = ".bonsai"
	// AssemblyExtension is the extension of managed assemblies.
	AssemblyExtension = ".dll"
)

const (
	// GalleryDirectory holds staged archives of executable packages.
	GalleryDirectory = "Gallery"
	// ExtensionsDirectory holds loose extension content merged from packages.
	ExtensionsDirectory = "Extensions"
	// PackagesDirectory is the local repository folder beside the configuration file.
	PackagesDirectory = "Packages"
)

const (
	// OverlayCommandFileName declares the version pin applied to pivot packages.
	OverlayCommandFileName = "overlay.cmd"
	// PivotManifestFileName lists the pivot package ids of a package, one per line.
	PivotManifestFileName = "pivots.txt"
)

// DefaultReleaseURL is the release archive URL template; {version} is replaced by the release tag.
const DefaultReleaseURL = "https://github.com/bonsai-rx/bonsai/releases/download/{version}/Bonsai.zip"

// DefaultFramework is the target framework used to select compatible package content.
const DefaultFramework = "net472"

// DefaultConfigurationPath returns the configuration file path under the given base directory.
func DefaultConfigurationPath(baseDir string) string {
	return filepath.Join(baseDir, ConfigurationFileName)
}

// BackupPath returns the backup path used while replacing the launcher at path.
func BackupPath(path string) string {
	return path + BackupExtension
}

// StagedPath returns the staging path used before moving a launcher into path.
func StagedPath(path string) string {
	return path + StagedExtension
}

// ProjectConfigurationPath returns the pin file path under a project directory.
func ProjectConfigurationPath(dir string) string {
	return filepath.Join(dir, ProjectFolderName, ConfigurationFileName)
}

// LauncherPathFor returns the launcher path that accompanies a configuration file.
func LauncherPathFor(configurationPath string) string {
	ext := filepath.Ext(configurationPath)
	return strings.TrimSuffix(configurationPath, ext) + filepath.Ext(LauncherFileName)
}
