// Package loader loads resolved modules and maintains the native library search path.
package loader

import (
	"os"
	"sync"

	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/zerr"
)

// Module is a loaded module image.
type Module struct {
	name     string
	location string
	image    []byte
	file     *os.File
}

// Name returns the module name it was resolved for.
func (m *Module) Name() string { return m.name }

// Location returns where the module was loaded from.
func (m *Module) Location() string { return m.location }

// Image returns the in-memory image, or nil for modules loaded from a locked file.
func (m *Module) Image() []byte { return m.image }

// Loader keeps loaded modules alive for the lifetime of the process.
type Loader struct {
	mu      sync.Mutex
	modules []*Module
}

var _ ports.ModuleLoader = (*Loader)(nil)

// New creates a new Loader.
func New() *Loader {
	return &Loader{}
}

// LoadBytes loads a module from an in-memory image.
func (l *Loader) LoadBytes(name, location string, image []byte) (ports.Module, error) {
	if len(image) == 0 {
		return nil, zerr.With(zerr.With(zerr.Wrap(zerr.New("empty module image"), domain.ErrModuleLoadFailed.Error()), "name", name), "location", location)
	}
	m := &Module{name: name, location: location, image: image}
	l.track(m)
	return m, nil
}

// LoadFile loads a module by path and keeps the file open so it cannot be replaced while loaded.
func (l *Loader) LoadFile(name, path string) (ports.Module, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from the package configuration
	if err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(err, domain.ErrModuleLoadFailed.Error()), "name", name), "path", path)
	}
	m := &Module{name: name, location: path, file: f}
	l.track(m)
	return m, nil
}

func (l *Loader) track(m *Module) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.modules = append(l.modules, m)
}

// Close releases the file handles of every loaded module.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var first error
	for _, m := range l.modules {
		if m.file == nil {
			continue
		}
		if err := m.file.Close(); err != nil && first == nil {
			first = zerr.With(zerr.Wrap(err, "failed to release module"), "path", m.location)
		}
	}
	l.modules = nil
	return first
}
