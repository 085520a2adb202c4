// Package resolver maps module names to the binaries recorded in a package configuration.
package resolver

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/packaging"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

const fileScheme = "file"

// Resolver resolves module names against a configuration. Each name is resolved at most
// once; later calls return the cached module, including a nil result for unknown names.
type Resolver struct {
	cfg    *domain.PackageConfiguration
	root   string
	loader ports.ModuleLoader

	lock    bool
	is64Bit bool

	cache sync.Map // map[string]resolved
	group singleflight.Group
}

type resolved struct {
	module ports.Module
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAssemblyLock controls whether modules are loaded from their files, keeping them locked,
// or from in-memory copies. The default is true.
func WithAssemblyLock(lock bool) Option {
	return func(r *Resolver) {
		r.lock = lock
	}
}

// WithArchitecture sets the process architecture used to pick architecture specific locations.
func WithArchitecture(arch domain.ProcessorArchitecture) Option {
	return func(r *Resolver) {
		r.is64Bit = arch == domain.ArchAmd64 || arch == domain.ArchArm64 || arch == domain.ArchIA64
	}
}

// New creates a Resolver. Relative locations are resolved against root.
func New(cfg *domain.PackageConfiguration, root string, loader ports.ModuleLoader, opts ...Option) *Resolver {
	r := &Resolver{
		cfg:     cfg,
		root:    root,
		loader:  loader,
		lock:    true,
		is64Bit: domain.Is64BitProcess(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Location returns the configured location of a module, preferring the architecture neutral entry.
func (r *Resolver) Location(name string) (string, bool) {
	loc, ok := r.cfg.FindAssemblyLocation(name, r.is64Bit)
	if !ok {
		return "", false
	}
	return loc.Location, true
}

// Path returns the file system path a location refers to.
func (r *Resolver) Path(location string) (string, error) {
	if strings.HasPrefix(strings.ToLower(location), fileScheme+":") {
		u, err := url.Parse(location)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrModuleLoadFailed.Error()), "location", location)
		}
		p := u.Path
		if len(p) > 2 && p[0] == '/' && p[2] == ':' {
			p = p[1:]
		}
		return filepath.FromSlash(p), nil
	}

	p := filepath.FromSlash(packaging.ToSlash(location))
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.root, p)
	}
	return p, nil
}

// Resolve loads the module registered for name. It returns nil without error when the name
// has no location or the location does not exist.
func (r *Resolver) Resolve(name string) (ports.Module, error) {
	if v, ok := r.cache.Load(name); ok {
		return v.(resolved).module, nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		if v, ok := r.cache.Load(name); ok {
			return v, nil
		}
		module, err := r.load(name)
		if err != nil {
			return nil, err
		}
		result := resolved{module: module}
		r.cache.Store(name, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(resolved).module, nil
}

func (r *Resolver) load(name string) (ports.Module, error) {
	location, ok := r.Location(name)
	if !ok {
		return nil, nil
	}

	path, err := r.Path(location)
	if err != nil {
		return nil, err
	}

	isURI := strings.HasPrefix(strings.ToLower(location), fileScheme+":")
	if r.lock && !isURI {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, zerr.With(zerr.Wrap(err, domain.ErrModuleLoadFailed.Error()), "path", path)
		}
		return r.loader.LoadFile(name, path)
	}

	image, err := os.ReadFile(path) //nolint:gosec // Path comes from the package configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrModuleLoadFailed.Error()), "path", path)
	}
	return r.loader.LoadBytes(name, location, image)
}
