// Package archive reads and extracts zip archives.
package archive

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/zip"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/zerr"
)

// Entries returns the file entries of the archive at path, using forward slashes and
// skipping directories.
func Entries(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPackage.Error()), "path", path)
	}
	defer r.Close() //nolint:errcheck // Best effort close in defer

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, toSlash(f.Name))
	}
	slices.Sort(names)
	return names, nil
}

// Open opens the entry name of the archive at path. Names match case-insensitively
// and regardless of separator. Closing the reader closes the archive.
func Open(path, name string) (io.ReadCloser, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPackage.Error()), "path", path)
	}

	want := toSlash(name)
	for _, f := range r.File {
		if !strings.EqualFold(toSlash(f.Name), want) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			_ = r.Close()
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPackage.Error()), "entry", name)
		}
		return &entryReader{ReadCloser: rc, archive: r}, nil
	}

	_ = r.Close()
	return nil, zerr.With(zerr.With(zerr.Wrap(os.ErrNotExist, domain.ErrInvalidPackage.Error()), "path", path), "entry", name)
}

// ReadFile returns the content of the entry name of the archive at path.
func ReadFile(path, name string) ([]byte, error) {
	rc, err := Open(path, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck // Best effort close in defer

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPackage.Error()), "entry", name)
	}
	return data, nil
}

// Extract writes the file entries of the archive at path below dst, skipping entries for
// which skip returns true. Entries resolving outside dst are rejected before anything is written.
// It returns the extracted entries.
func Extract(path, dst string, skip func(name string) bool) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", path)
	}
	defer r.Close() //nolint:errcheck // Best effort close in defer

	root, err := filepath.Abs(dst)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dst)
	}

	targets := make(map[*zip.File]string, len(r.File))
	for _, f := range r.File {
		target, err := SafeJoin(root, f.Name)
		if err != nil {
			return nil, zerr.With(err, "archive", path)
		}
		targets[f] = target
	}

	var extracted []string
	for _, f := range r.File {
		name := toSlash(f.Name)
		if f.FileInfo().IsDir() || (skip != nil && skip(name)) {
			continue
		}
		if err := extractFile(f, targets[f]); err != nil {
			return extracted, zerr.With(err, "archive", path)
		}
		extracted = append(extracted, name)
	}
	return extracted, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", target)
	}

	rc, err := f.Open()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "entry", f.Name)
	}
	defer rc.Close() //nolint:errcheck // Best effort close in defer

	//nolint:gosec // Target is checked by SafeJoin
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", target)
	}
	//nolint:gosec // Archive size is bounded by the package source
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", target)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", target)
	}
	return nil
}

// SafeJoin joins an archive entry name to root and rejects names that escape root.
func SafeJoin(root, name string) (string, error) {
	clean := filepath.FromSlash(toSlash(name))
	if filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return "", zerr.With(domain.ErrUnsafeArchivePath, "entry", name)
	}
	target := filepath.Join(root, clean)
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(domain.ErrUnsafeArchivePath, "entry", name)
	}
	return target, nil
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

type entryReader struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (e *entryReader) Close() error {
	err := e.ReadCloser.Close()
	if cerr := e.archive.Close(); err == nil {
		err = cerr
	}
	return err
}
