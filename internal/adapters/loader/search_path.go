package loader

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/zerr"
)

// SearchPath prepends directories to the environment variables the platform loader searches.
type SearchPath struct {
	mu        sync.Mutex
	variables []string
}

var _ ports.LibrarySearchPath = (*SearchPath)(nil)

// NewSearchPath creates a SearchPath for the current platform.
func NewSearchPath() *SearchPath {
	return NewSearchPathFor(runtime.GOOS)
}

// NewSearchPathFor creates a SearchPath for the given operating system.
func NewSearchPathFor(goos string) *SearchPath {
	switch goos {
	case "windows":
		return &SearchPath{variables: []string{"PATH"}}
	case "darwin":
		return &SearchPath{variables: []string{"PATH", "DYLD_LIBRARY_PATH"}}
	default:
		return &SearchPath{variables: []string{"PATH", "LD_LIBRARY_PATH"}}
	}
}

// Variables returns the environment variables updated by Add.
func (s *SearchPath) Variables() []string {
	return s.variables
}

// Add prepends dir to each search variable unless it is already listed.
func (s *SearchPath) Add(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range s.variables {
		current := os.Getenv(name)
		entries := filepath.SplitList(current)
		if slices.ContainsFunc(entries, func(e string) bool { return samePath(e, dir) }) {
			continue
		}

		value := dir
		if current != "" {
			value = dir + string(os.PathListSeparator) + current
		}
		if err := os.Setenv(name, value); err != nil {
			return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrSearchPathUpdateFailed.Error()), "variable", name), "path", dir)
		}
	}
	return nil
}

func samePath(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
