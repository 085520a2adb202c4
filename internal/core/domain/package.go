package domain

import (
	"github.com/Masterminds/semver"
	"go.trai.ch/zerr"
)

// PackageIdentity is a concrete version of a package.
type PackageIdentity struct {
	ID      string
	Version string
}

// String returns the folder name of the package in a local repository.
func (p PackageIdentity) String() string {
	return p.ID + "." + p.Version
}

// BootstrapperInfo identifies a launcher binary.
type BootstrapperInfo struct {
	Path    string
	Version string
	// Checksum is the lowercase hex SHA-256 of the launcher. Empty means the version is unsupported.
	Checksum string
}

// Supported reports whether the launcher version has a known checksum.
func (b BootstrapperInfo) Supported() bool {
	return b.Checksum != ""
}

// ParseVersion parses a semantic version.
func ParseVersion(v string) (*semver.Version, error) {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrInvalidVersion.Error()), "version", v)
	}
	return parsed, nil
}

// CompareVersions returns -1, 0 or 1 as a is lower than, equal to or greater than b.
func CompareVersions(a, b string) (int, error) {
	va, err := ParseVersion(a)
	if err != nil {
		return 0, err
	}
	vb, err := ParseVersion(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// VersionAtLeast reports whether have is greater than or equal to want.
func VersionAtLeast(have, want string) (bool, error) {
	c, err := CompareVersions(have, want)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}
