package fs

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/zerr"
)

// Copier merges directory trees.
type Copier struct {
	walker *Walker
	hasher *Hasher
}

// NewCopier creates a new Copier.
func NewCopier(walker *Walker, hasher *Hasher) *Copier {
	return &Copier{walker: walker, hasher: hasher}
}

// CopyDirectory merges src into dst, overwriting files that differ. Files already identical
// in dst are left untouched. A missing src is a no-op.
func (c *Copier) CopyDirectory(src, dst string) error {
	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", src)
	}
	dstAbs, err := filepath.Abs(dst)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", dst)
	}
	if strings.EqualFold(srcAbs, dstAbs) {
		return nil
	}

	info, err := os.Stat(srcAbs)
	if err != nil || !info.IsDir() {
		return nil
	}

	files, err := c.walker.Files(srcAbs)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dstAbs, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", dstAbs)
	}

	for _, rel := range files {
		from := filepath.Join(srcAbs, filepath.FromSlash(rel))
		to := filepath.Join(dstAbs, filepath.FromSlash(rel))
		if c.hasher.SameContent(from, to) {
			continue
		}
		if err := CopyFile(from, to, domain.FilePerm); err != nil {
			return err
		}
	}
	return nil
}
