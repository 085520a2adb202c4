package domain

import "go.trai.ch/zerr"

var (
	// ErrDuplicateKey is returned when an entry is added to a keyed collection that already holds its key.
	ErrDuplicateKey = zerr.New("duplicate key")

	// ErrInvalidVersion is returned when a version string is not a valid semantic version.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrInvalidArchitecture is returned when a processor architecture name is not recognized.
	ErrInvalidArchitecture = zerr.New("invalid processor architecture")

	// ErrLibraryFolderPlatformMismatch is returned when a library folder is re-registered with another platform.
	ErrLibraryFolderPlatformMismatch = zerr.New("library folder already registered with a different platform")

	// ErrAssemblyLocationMismatch is returned when an assembly location is re-registered with another path.
	ErrAssemblyLocationMismatch = zerr.New("assembly location already registered with a different path")
)

var (
	// ErrConfigurationReadFailed is returned when the configuration file cannot be read.
	ErrConfigurationReadFailed = zerr.New("failed to read package configuration")

	// ErrConfigurationParseFailed is returned when the configuration file is malformed.
	ErrConfigurationParseFailed = zerr.New("failed to parse package configuration")

	// ErrConfigurationWriteFailed is returned when the configuration file cannot be written.
	ErrConfigurationWriteFailed = zerr.New("failed to write package configuration")

	// ErrSettingsLoadFailed is returned when the application settings cannot be loaded.
	ErrSettingsLoadFailed = zerr.New("failed to load settings")
)

var (
	// ErrPackageNotFound is returned when a package cannot be found in any source.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrInvalidPackage is returned when a package archive is missing its manifest or is malformed.
	ErrInvalidPackage = zerr.New("invalid package archive")

	// ErrPackageInstallFailed is returned when a package cannot be extracted into the repository.
	ErrPackageInstallFailed = zerr.New("failed to install package")

	// ErrPackageUninstallFailed is returned when a package cannot be removed from the repository.
	ErrPackageUninstallFailed = zerr.New("failed to uninstall package")

	// ErrContentCopyFailed is returned when package content cannot be merged into the host directory.
	ErrContentCopyFailed = zerr.New("failed to copy package content")
)

var (
	// ErrBootstrapperMissingFromPackage is returned when a bootstrapper package does not contain the launcher.
	ErrBootstrapperMissingFromPackage = zerr.New("bootstrapper executable missing from package")

	// ErrSelfUpdateFailed is returned when the running launcher cannot be replaced.
	ErrSelfUpdateFailed = zerr.New("failed to replace bootstrapper executable")

	// ErrUnsupportedBootstrapperVersion is returned when no checksum is known for a pinned launcher version.
	ErrUnsupportedBootstrapperVersion = zerr.New("unsupported bootstrapper version")

	// ErrInvalidBootstrapperChecksum is returned when a local launcher does not match its pinned checksum.
	ErrInvalidBootstrapperChecksum = zerr.New("invalid bootstrapper checksum")

	// ErrInvalidDownloadChecksum is returned when a downloaded launcher does not match its pinned checksum.
	ErrInvalidDownloadChecksum = zerr.New("invalid checksum for downloaded bootstrapper")

	// ErrDownloadFailed is returned when the release archive cannot be fetched.
	ErrDownloadFailed = zerr.New("failed to download release archive")

	// ErrArchiveExtractFailed is returned when an archive cannot be extracted.
	ErrArchiveExtractFailed = zerr.New("failed to extract archive")

	// ErrUnsafeArchivePath is returned when an archive entry would escape its extraction root.
	ErrUnsafeArchivePath = zerr.New("archive entry escapes extraction directory")
)

var (
	// ErrModuleLoadFailed is returned when a resolved module cannot be loaded.
	ErrModuleLoadFailed = zerr.New("failed to load module")

	// ErrModuleNotFound is returned when no location is registered for a module.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrSearchPathUpdateFailed is returned when a library folder cannot be added to the loader search path.
	ErrSearchPathUpdateFailed = zerr.New("failed to update library search path")
)

var (
	// ErrProcessStartFailed is returned when an external process cannot be started.
	ErrProcessStartFailed = zerr.New("failed to start process")
)
