package nuget

import (
	"io"
	"path"
	"strings"

	"go.trai.ch/bonsai/internal/adapters/archive"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/zerr"
)

// Package is a package archive on disk.
type Package struct {
	manifest    *Manifest
	files       []string
	archivePath string
}

var _ ports.PackageReader = (*Package)(nil)

// ReadPackage reads the manifest and file list of the archive at archivePath.
func ReadPackage(archivePath string) (*Package, error) {
	entries, err := archive.Entries(archivePath)
	if err != nil {
		return nil, err
	}

	var (
		manifestEntry string
		files         []string
	)
	for _, entry := range entries {
		if !strings.Contains(entry, "/") && strings.EqualFold(path.Ext(entry), ManifestExtension) {
			manifestEntry = entry
		}
		if !isMetadataEntry(entry) {
			files = append(files, entry)
		}
	}
	if manifestEntry == "" {
		return nil, zerr.With(zerr.Wrap(zerr.New("missing manifest"), domain.ErrInvalidPackage.Error()), "path", archivePath)
	}

	data, err := archive.ReadFile(archivePath, manifestEntry)
	if err != nil {
		return nil, err
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, zerr.With(err, "path", archivePath)
	}

	return &Package{manifest: manifest, files: files, archivePath: archivePath}, nil
}

// Identity returns the package id and version.
func (p *Package) Identity() domain.PackageIdentity {
	return domain.PackageIdentity{ID: p.manifest.ID, Version: p.manifest.Version}
}

// Tags returns the package tags.
func (p *Package) Tags() []string {
	return p.manifest.Tags
}

// Dependencies returns the declared dependencies with their minimum versions.
func (p *Package) Dependencies() []domain.PackageReference {
	return p.manifest.Dependencies
}

// Files returns the content files of the package.
func (p *Package) Files() []string {
	return p.files
}

// Open opens a content file of the package.
func (p *Package) Open(name string) (io.ReadCloser, error) {
	return archive.Open(p.archivePath, name)
}

// ArchivePath returns the archive location.
func (p *Package) ArchivePath() string {
	return p.archivePath
}

// ArchiveFileName returns the conventional archive file name of a package.
func ArchiveFileName(identity domain.PackageIdentity) string {
	return identity.String() + ArchiveExtension
}
