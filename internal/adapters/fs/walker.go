// Package fs provides file system adapters for walking, hashing, copying and cleaning up files.
package fs

import (
	"cmp"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"go.trai.ch/zerr"
)

// Walker lists the files of a directory tree.
type Walker struct {
	conf fastwalk.Config
}

// NewWalker creates a new Walker. Symbolic links are not followed.
func NewWalker() *Walker {
	return &Walker{conf: fastwalk.Config{Follow: false}}
}

// Files returns the regular files below root as sorted slash separated paths relative to root.
// A missing root yields no files.
func (w *Walker) Files(root string) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)

	err := fastwalk.Walk(&w.conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		mu.Lock()
		files = append(files, filepath.ToSlash(rel))
		mu.Unlock()
		return nil
	})
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", root)
	}

	slices.Sort(files)
	return files, nil
}

// Dirs returns the directories below root, deepest first, excluding root itself.
func (w *Walker) Dirs(root string) ([]string, error) {
	var (
		mu   sync.Mutex
		dirs []string
	)

	err := fastwalk.Walk(&w.conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() && path != root {
			mu.Lock()
			dirs = append(dirs, path)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", root)
	}

	slices.SortFunc(dirs, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return dirs, nil
}
