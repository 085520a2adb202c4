// Package nuget implements the package manager over folder feeds of .nupkg archives.
package nuget

import (
	"path"
	"strings"

	"github.com/beevik/etree"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/zerr"
)

// Manifest file and archive names.
const (
	ManifestExtension = ".nuspec"
	ArchiveExtension  = ".nupkg"

	contentTypesFile = "[Content_Types].xml"
	relsFolder       = "_rels/"
	packageFolder    = "package/"
)

// Manifest is the metadata of a package.
type Manifest struct {
	ID           string
	Version      string
	Tags         []string
	Dependencies []domain.PackageReference
}

// ParseManifest parses the content of a .nuspec file.
func ParseManifest(data []byte) (*Manifest, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, zerr.Wrap(err, domain.ErrInvalidPackage.Error())
	}

	root := doc.Root()
	if root == nil {
		return nil, zerr.Wrap(zerr.New("missing package element"), domain.ErrInvalidPackage.Error())
	}
	metadata := root.SelectElement("metadata")
	if metadata == nil {
		return nil, zerr.Wrap(zerr.New("missing metadata element"), domain.ErrInvalidPackage.Error())
	}

	m := &Manifest{
		ID:      text(metadata, "id"),
		Version: text(metadata, "version"),
		Tags:    strings.Fields(text(metadata, "tags")),
	}
	if m.ID == "" || m.Version == "" {
		return nil, zerr.With(zerr.Wrap(zerr.New("missing id or version"), domain.ErrInvalidPackage.Error()), "id", m.ID)
	}
	if _, err := domain.ParseVersion(m.Version); err != nil {
		return nil, zerr.Wrap(err, domain.ErrInvalidPackage.Error())
	}

	seen := make(map[string]bool)
	for _, dep := range metadata.FindElements("dependencies//dependency") {
		id := dep.SelectAttrValue("id", "")
		if id == "" || seen[strings.ToLower(id)] {
			continue
		}
		seen[strings.ToLower(id)] = true
		m.Dependencies = append(m.Dependencies, domain.PackageReference{
			ID:      id,
			Version: MinVersion(dep.SelectAttrValue("version", "")),
		})
	}
	return m, nil
}

// MinVersion returns the lower bound of a version range such as "1.0", "[1.0,2.0)" or "(,2.0]".
// An open lower bound yields "".
func MinVersion(versionRange string) string {
	v := strings.TrimSpace(versionRange)
	v = strings.TrimLeft(v, "[(")
	v = strings.TrimRight(v, "])")
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// isMetadataEntry reports whether an archive entry belongs to the packaging format rather
// than to the package content.
func isMetadataEntry(name string) bool {
	lower := strings.ToLower(name)
	switch {
	case lower == strings.ToLower(contentTypesFile):
		return true
	case strings.HasPrefix(lower, relsFolder), strings.HasPrefix(lower, packageFolder):
		return true
	case !strings.Contains(lower, "/") && path.Ext(lower) == ManifestExtension:
		return true
	}
	return false
}

func text(parent *etree.Element, tag string) string {
	if e := parent.SelectElement(tag); e != nil {
		return strings.TrimSpace(e.Text())
	}
	return ""
}
