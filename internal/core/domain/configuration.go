package domain

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// PackageReference records an installed package.
type PackageReference struct {
	ID      string
	Version string
}

// AssemblyReference names a module that should be resolvable by the host.
type AssemblyReference struct {
	AssemblyName string
}

// AssemblyLocationKey identifies an assembly location.
type AssemblyLocationKey struct {
	AssemblyName string
	Architecture ProcessorArchitecture
}

// AssemblyLocation records where the binary for a module and architecture lives.
// Location is a path relative to the configuration root, an absolute path, or a file URI.
type AssemblyLocation struct {
	AssemblyName          string
	ProcessorArchitecture ProcessorArchitecture
	Location              string
}

// Key returns the location key.
func (l AssemblyLocation) Key() AssemblyLocationKey {
	return AssemblyLocationKey{AssemblyName: l.AssemblyName, Architecture: l.ProcessorArchitecture}
}

// LibraryFolder is a native library search folder tied to a platform.
type LibraryFolder struct {
	Path     string
	Platform string
}

type (
	// PackageCollection holds package references keyed by id.
	PackageCollection = Collection[string, PackageReference]
	// AssemblyReferenceCollection holds assembly references keyed by name.
	AssemblyReferenceCollection = Collection[string, AssemblyReference]
	// AssemblyLocationCollection holds assembly locations keyed by name and architecture.
	AssemblyLocationCollection = Collection[AssemblyLocationKey, AssemblyLocation]
	// LibraryFolderCollection holds library folders keyed by path.
	LibraryFolderCollection = Collection[string, LibraryFolder]
)

// PackageConfiguration is the persisted state of a provisioned environment.
type PackageConfiguration struct {
	// ConfigurationFile is the path the configuration was loaded from or last saved to.
	ConfigurationFile string

	Packages           *PackageCollection
	AssemblyReferences *AssemblyReferenceCollection
	AssemblyLocations  *AssemblyLocationCollection
	LibraryFolders     *LibraryFolderCollection

	// ExtensionFolders are loose extension directories registered at runtime. They are not persisted.
	ExtensionFolders []string
}

// NewPackageConfiguration returns an empty configuration.
func NewPackageConfiguration() *PackageConfiguration {
	return &PackageConfiguration{
		Packages: NewCollection(
			func(p PackageReference) string { return p.ID },
			strings.Compare,
		),
		AssemblyReferences: NewCollection(
			func(r AssemblyReference) string { return r.AssemblyName },
			strings.Compare,
		),
		AssemblyLocations: NewCollection(
			AssemblyLocation.Key,
			compareLocationKeys,
		),
		LibraryFolders: NewCollection(
			func(f LibraryFolder) string { return f.Path },
			strings.Compare,
		),
	}
}

func compareLocationKeys(a, b AssemblyLocationKey) int {
	if c := strings.Compare(a.AssemblyName, b.AssemblyName); c != 0 {
		return c
	}
	return cmp.Compare(a.Architecture, b.Architecture)
}

// Root returns the directory relative locations are resolved against.
// It is the directory of ConfigurationFile, or baseDir when the configuration has no file.
func (c *PackageConfiguration) Root(baseDir string) string {
	if c.ConfigurationFile == "" {
		return baseDir
	}
	return filepath.Dir(c.ConfigurationFile)
}

// Snapshot returns a copy of the persisted collections of c.
func (c *PackageConfiguration) Snapshot() *PackageConfiguration {
	return &PackageConfiguration{
		ConfigurationFile:  c.ConfigurationFile,
		Packages:           c.Packages.Clone(),
		AssemblyReferences: c.AssemblyReferences.Clone(),
		AssemblyLocations:  c.AssemblyLocations.Clone(),
		LibraryFolders:     c.LibraryFolders.Clone(),
		ExtensionFolders:   slices.Clone(c.ExtensionFolders),
	}
}

// Restore resets c in place to the state captured by snapshot.
func (c *PackageConfiguration) Restore(snapshot *PackageConfiguration) {
	c.Packages.Restore(snapshot.Packages)
	c.AssemblyReferences.Restore(snapshot.AssemblyReferences)
	c.AssemblyLocations.Restore(snapshot.AssemblyLocations)
	c.LibraryFolders.Restore(snapshot.LibraryFolders)
	c.ExtensionFolders = slices.Clone(snapshot.ExtensionFolders)
}

// UpsertPackage records id at version, replacing any previous version.
func (c *PackageConfiguration) UpsertPackage(id, version string) {
	c.Packages.Set(PackageReference{ID: id, Version: version})
}

// RegisterLibraryFolder adds a library folder. Registering an existing path again with the
// same platform is a no-op; with a different platform it fails.
func (c *PackageConfiguration) RegisterLibraryFolder(path, platform string) error {
	if existing, ok := c.LibraryFolders.Get(path); ok {
		if existing.Platform != platform {
			err := zerr.With(ErrLibraryFolderPlatformMismatch, "path", path)
			err = zerr.With(err, "registered_platform", existing.Platform)
			return zerr.With(err, "requested_platform", platform)
		}
		return nil
	}
	return c.LibraryFolders.Add(LibraryFolder{Path: path, Platform: platform})
}

// RegisterAssemblyLocation adds an assembly location. Registering an existing key again with
// the same location is a no-op; with a different location it fails.
func (c *PackageConfiguration) RegisterAssemblyLocation(name string, arch ProcessorArchitecture, location string) error {
	key := AssemblyLocationKey{AssemblyName: name, Architecture: arch}
	if existing, ok := c.AssemblyLocations.Get(key); ok {
		if existing.Location != location {
			err := zerr.With(ErrAssemblyLocationMismatch, "assembly", name)
			err = zerr.With(err, "architecture", arch.String())
			err = zerr.With(err, "registered_location", existing.Location)
			return zerr.With(err, "requested_location", location)
		}
		return nil
	}
	return c.AssemblyLocations.Add(AssemblyLocation{
		AssemblyName:          name,
		ProcessorArchitecture: arch,
		Location:              location,
	})
}

// RegisterAssemblyReference adds an assembly reference if it is not already present.
func (c *PackageConfiguration) RegisterAssemblyReference(name string) {
	if !c.AssemblyReferences.Contains(name) {
		c.AssemblyReferences.Set(AssemblyReference{AssemblyName: name})
	}
}

// FindAssemblyLocation returns the location for name, preferring the architecture neutral
// entry and falling back to the entry for the process bitness.
func (c *PackageConfiguration) FindAssemblyLocation(name string, is64Bit bool) (AssemblyLocation, bool) {
	if loc, ok := c.AssemblyLocations.Get(AssemblyLocationKey{AssemblyName: name, Architecture: ArchMSIL}); ok {
		return loc, true
	}
	return c.AssemblyLocations.Get(AssemblyLocationKey{
		AssemblyName: name,
		Architecture: FallbackArchitecture(is64Bit),
	})
}

// RemoveAssemblyLocationsAt removes every location pointing at location and returns the removed
// entries. When removeReferences is set the matching assembly references are removed too.
func (c *PackageConfiguration) RemoveAssemblyLocationsAt(location string, removeReferences bool) []AssemblyLocation {
	var removed []AssemblyLocation
	for _, loc := range c.AssemblyLocations.All() {
		if loc.Location != location {
			continue
		}
		c.AssemblyLocations.Remove(loc.Key())
		if removeReferences {
			c.AssemblyReferences.Remove(loc.AssemblyName)
		}
		removed = append(removed, loc)
	}
	return removed
}
