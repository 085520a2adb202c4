package fs

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"go.trai.ch/zerr"
)

// Verifier checks files against pinned checksums.
type Verifier struct {
	hasher *Hasher
}

// NewVerifier creates a new Verifier.
func NewVerifier(hasher *Hasher) *Verifier {
	return &Verifier{hasher: hasher}
}

// Verify reports whether path exists and whether its SHA-256 equals checksum.
// A missing file is not an error.
func (v *Verifier) Verify(path, checksum string) (exists, valid bool, err error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, false, nil
		}
		return false, false, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}

	actual, err := v.hasher.ComputeChecksum(path)
	if err != nil {
		return true, false, err
	}
	return true, strings.EqualFold(actual, checksum), nil
}
