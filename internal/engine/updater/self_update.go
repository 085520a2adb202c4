package updater

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	bfs "go.trai.ch/bonsai/internal/adapters/fs"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/packaging"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/zerr"
)

// replaceBootstrapper swaps the running launcher for the one shipped in pkg. The new launcher is
// fully written next to the old one before the old one is moved to its backup path; if the
// final rename fails the backup is moved back.
func (u *Updater) replaceBootstrapper(pkg ports.PackageReader) error {
	path := u.bootstrapperPath
	file, ok := packaging.FindFile(pkg, filepath.Base(path))
	if !ok {
		return zerr.With(zerr.With(domain.ErrBootstrapperMissingFromPackage, "package", pkg.Identity().String()), "file", filepath.Base(path))
	}

	rc, err := pkg.Open(file)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSelfUpdateFailed.Error()), "file", file)
	}
	defer rc.Close() //nolint:errcheck // Best effort close in defer

	staged := domain.StagedPath(path)
	if err := bfs.StreamFileAtomic(rc, staged, domain.ExecPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSelfUpdateFailed.Error()), "path", staged)
	}

	backup := domain.BackupPath(path)
	hadLauncher := true
	if err := os.Rename(path, backup); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			u.cleaner.TryRemove(staged)
			return zerr.With(zerr.Wrap(err, domain.ErrSelfUpdateFailed.Error()), "path", path)
		}
		hadLauncher = false
	}

	if err := os.Rename(staged, path); err != nil {
		if hadLauncher {
			if restoreErr := os.Rename(backup, path); restoreErr != nil {
				u.warn("Failed to restore the launcher backup: " + restoreErr.Error())
			}
		}
		u.cleaner.TryRemove(staged)
		return zerr.With(zerr.Wrap(err, domain.ErrSelfUpdateFailed.Error()), "path", path)
	}
	return nil
}
