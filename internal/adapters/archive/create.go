package archive

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/klauspost/compress/zip"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/zerr"
)

// Create writes a zip archive at path holding files, keyed by entry name. Entries are written
// in name order.
func Create(path string, files map[string][]byte) error {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(path))
	}
	f, err := os.Create(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create archive"), "path", path)
	}

	w := zip.NewWriter(f)
	for _, name := range names {
		entry, err := w.Create(name)
		if err != nil {
			_ = f.Close()
			return zerr.With(zerr.Wrap(err, "failed to create archive entry"), "entry", name)
		}
		if _, err := entry.Write(files[name]); err != nil {
			_ = f.Close()
			return zerr.With(zerr.Wrap(err, "failed to write archive entry"), "entry", name)
		}
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return zerr.With(zerr.Wrap(err, "failed to finish archive"), "path", path)
	}
	if err := f.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close archive"), "path", path)
	}
	return nil
}
