package nuget

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	bfs "go.trai.ch/bonsai/internal/adapters/fs"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
)

// Repository is a local package repository. In the default layout each package is extracted
// to <root>/<id>.<version>/ with its archive <id>.<version>.nupkg kept inside that folder. A flat repository
// extracts every package directly into root and keeps the archives there.
type Repository struct {
	root string
	flat bool
}

var _ ports.LocalRepository = (*Repository)(nil)

// NewRepository creates a repository using one folder per package.
func NewRepository(root string) *Repository {
	return &Repository{root: root}
}

// NewFlatRepository creates a repository extracting all packages into root.
func NewFlatRepository(root string) *Repository {
	return &Repository{root: root, flat: true}
}

// Root returns the repository directory.
func (r *Repository) Root() string {
	return r.root
}

// InstallPath returns the directory a package is extracted to.
func (r *Repository) InstallPath(identity domain.PackageIdentity) string {
	if r.flat {
		return r.root
	}
	return filepath.Join(r.root, identity.String())
}

// ArchivePath returns where the archive of an installed package is kept.
func (r *Repository) ArchivePath(identity domain.PackageIdentity) string {
	return filepath.Join(r.InstallPath(identity), ArchiveFileName(identity))
}

// Exists reports whether the package version is installed.
func (r *Repository) Exists(id, version string) bool {
	_, ok := r.FindPackage(id, version)
	return ok
}

// FindPackage returns the installed package with the exact version.
func (r *Repository) FindPackage(id, version string) (ports.PackageReader, bool) {
	pkg, ok := r.findPackage(id, version)
	if !ok {
		return nil, false
	}
	return pkg, true
}

func (r *Repository) findPackage(id, version string) (*Package, bool) {
	identity := domain.PackageIdentity{ID: id, Version: version}
	if pkg, err := ReadPackage(r.ArchivePath(identity)); err == nil {
		return pkg, true
	}
	for _, pkg := range r.Packages() {
		if strings.EqualFold(pkg.Identity().ID, id) && sameVersion(pkg.Identity().Version, version) {
			return pkg, true
		}
	}
	return nil, false
}

// FindLocalPackage returns the highest installed version of id.
func (r *Repository) FindLocalPackage(id string) (ports.PackageReader, bool) {
	pkg, ok := r.findLocalPackage(id)
	if !ok {
		return nil, false
	}
	return pkg, true
}

func (r *Repository) findLocalPackage(id string) (*Package, bool) {
	var best *Package
	for _, pkg := range r.Packages() {
		if !strings.EqualFold(pkg.Identity().ID, id) {
			continue
		}
		if best == nil || higher(pkg, best) {
			best = pkg
		}
	}
	return best, best != nil
}

// Packages returns every installed package, ordered by archive path.
func (r *Repository) Packages() []*Package {
	var archives []string
	if r.flat {
		archives = archivesIn(r.root)
	} else {
		entries, err := os.ReadDir(r.root)
		if err != nil {
			return nil
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			candidate := filepath.Join(r.root, entry.Name(), entry.Name()+ArchiveExtension)
			if bfs.Exists(candidate) {
				archives = append(archives, candidate)
			}
		}
	}
	slices.Sort(archives)

	packages := make([]*Package, 0, len(archives))
	for _, a := range archives {
		if pkg, err := ReadPackage(a); err == nil {
			packages = append(packages, pkg)
		}
	}
	return packages
}

func archivesIn(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var archives []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ArchiveExtension) {
			archives = append(archives, filepath.Join(dir, entry.Name()))
		}
	}
	return archives
}
