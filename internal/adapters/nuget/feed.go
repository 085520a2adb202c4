package nuget

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/zerr"
)

// Feed is a set of package source directories holding .nupkg archives.
type Feed struct {
	sources []string
}

// NewFeed creates a feed over the given source directories, searched in order.
func NewFeed(sources ...string) *Feed {
	return &Feed{sources: sources}
}

// Sources returns the source directories.
func (f *Feed) Sources() []string {
	return f.sources
}

// Find returns the package id at exactly version, or the highest version when version is empty.
func (f *Feed) Find(id, version string) (*Package, error) {
	return f.pick(id, func(candidate, best *Package) bool {
		if version != "" {
			return best == nil && sameVersion(candidate.Identity().Version, version)
		}
		return best == nil || higher(candidate, best)
	}, version)
}

// Resolve returns the lowest available version of id that is at least minVersion.
func (f *Feed) Resolve(id, minVersion string) (*Package, error) {
	return f.pick(id, func(candidate, best *Package) bool {
		if minVersion != "" {
			if ok, err := domain.VersionAtLeast(candidate.Identity().Version, minVersion); err != nil || !ok {
				return false
			}
		}
		return best == nil || higher(best, candidate)
	}, minVersion)
}

func (f *Feed) pick(id string, better func(candidate, best *Package) bool, version string) (*Package, error) {
	var best *Package
	for _, source := range f.sources {
		for _, pkg := range scanArchives(source, id) {
			if better(pkg, best) {
				best = pkg
			}
		}
	}
	if best == nil {
		return nil, zerr.With(zerr.With(domain.ErrPackageNotFound, "id", id), "version", version)
	}
	return best, nil
}

// scanArchives reads the archives in dir whose file name could belong to id.
// Unreadable archives are skipped.
func scanArchives(dir, id string) []*Package {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	prefix := strings.ToLower(id) + "."
	var packages []*Package
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || filepath.Ext(name) != ArchiveExtension {
			continue
		}
		pkg, err := ReadPackage(filepath.Join(dir, entry.Name()))
		if err != nil || !strings.EqualFold(pkg.Identity().ID, id) {
			continue
		}
		packages = append(packages, pkg)
	}
	return packages
}

func higher(a, b *Package) bool {
	c, err := domain.CompareVersions(a.Identity().Version, b.Identity().Version)
	return err == nil && c > 0
}

func sameVersion(a, b string) bool {
	c, err := domain.CompareVersions(a, b)
	if err != nil {
		return a == b
	}
	return c == 0
}
