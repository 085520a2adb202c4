package fs

import (
	"os"

	"go.trai.ch/bonsai/internal/core/domain"
)

// Cleanup performs best-effort file system operations. Each method reports whether it
// succeeded and never returns an error; failures leave the file system as it was.
type Cleanup struct {
	walker *Walker
}

// NewCleanup creates a new Cleanup.
func NewCleanup(walker *Walker) *Cleanup {
	return &Cleanup{walker: walker}
}

// TryRemove deletes the file at path. A missing file counts as removed.
func (c *Cleanup) TryRemove(path string) bool {
	err := os.Remove(path)
	return err == nil || isNotExist(err)
}

// TryCopyFile copies src to dst, overwriting dst.
func (c *Cleanup) TryCopyFile(src, dst string) bool {
	return CopyFile(src, dst, domain.FilePerm) == nil
}

// TryMoveFile moves src to dst.
func (c *Cleanup) TryMoveFile(src, dst string) bool {
	return MoveFile(src, dst, domain.FilePerm) == nil
}

// RemoveEmptyDirectories deletes every empty directory below and including root, deepest
// first. It reports whether every empty directory could be removed.
func (c *Cleanup) RemoveEmptyDirectories(root string) bool {
	dirs, err := c.walker.Dirs(root)
	if err != nil {
		return false
	}
	ok := true
	for _, dir := range append(dirs, root) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !isNotExist(err) {
				ok = false
			}
			continue
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil && !isNotExist(err) {
			ok = false
		}
	}
	return ok
}
