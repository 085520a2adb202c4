// Package updater keeps a package configuration in step with package install and uninstall events.
package updater

import (
	"path/filepath"

	"go.trai.ch/bonsai/internal/adapters/config"
	bfs "go.trai.ch/bonsai/internal/adapters/fs"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
)

// ContentCopier merges a directory tree into another.
type ContentCopier interface {
	CopyDirectory(src, dst string) error
}

// Cleaner removes files and folders on a best effort basis.
type Cleaner interface {
	TryRemove(path string) bool
	RemoveEmptyDirectories(root string) bool
}

// Updater is a ports.PackagePlugin that records every package event of a manager in a
// package configuration and saves it. It stays subscribed until Close.
type Updater struct {
	cfg     *domain.PackageConfiguration
	store   ports.ConfigStore
	manager ports.PackageManager
	logger  ports.Logger

	copier  ContentCopier
	cleaner Cleaner

	framework        string
	bootstrapperPath string
	bootstrapperDir  string
	bootstrapper     domain.PackageIdentity
}

var _ ports.PackagePlugin = (*Updater)(nil)

// Option configures an Updater.
type Option func(*Updater)

// WithBootstrapper sets the launcher that receives extension content and gallery archives and
// that is replaced when a newer version of its own package is installed.
func WithBootstrapper(path string, identity domain.PackageIdentity) Option {
	return func(u *Updater) {
		u.bootstrapperPath = path
		u.bootstrapper = identity
		if path != "" {
			u.bootstrapperDir = filepath.Dir(path)
		}
	}
}

// WithFramework sets the target framework used to select package content.
func WithFramework(framework string) Option {
	return func(u *Updater) {
		u.framework = framework
	}
}

// WithLogger sets the logger used for best effort failures.
func WithLogger(logger ports.Logger) Option {
	return func(u *Updater) {
		u.logger = logger
	}
}

// WithFileSystem sets the content copier and cleaner.
func WithFileSystem(copier ContentCopier, cleaner Cleaner) Option {
	return func(u *Updater) {
		u.copier = copier
		u.cleaner = cleaner
	}
}

// New creates an Updater for cfg and subscribes it to manager.
func New(cfg *domain.PackageConfiguration, store ports.ConfigStore, manager ports.PackageManager, opts ...Option) *Updater {
	walker := bfs.NewWalker()
	u := &Updater{
		cfg:             cfg,
		store:           store,
		manager:         manager,
		copier:          bfs.NewCopier(walker, bfs.NewHasher()),
		cleaner:         bfs.NewCleanup(walker),
		framework:       domain.DefaultFramework,
		bootstrapperDir: filepath.Dir(manager.LocalRepository().Root()),
	}
	for _, opt := range opts {
		opt(u)
	}
	manager.AddPlugin(u)
	return u
}

// Close unsubscribes the Updater from its manager.
func (u *Updater) Close() error {
	u.manager.RemovePlugin(u)
	return nil
}

// relativePath expresses an install path relative to the folder holding the local repository.
func (u *Updater) relativePath(installPath string) string {
	root := filepath.Dir(u.manager.LocalRepository().Root())
	return config.RelativePath(root, installPath)
}

func (u *Updater) warn(msg string) {
	if u.logger != nil {
		u.logger.Warn(msg)
	}
}
