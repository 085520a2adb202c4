// Package bootstrapper restores the packages a configuration references and brings the
// launcher package up to the required version.
package bootstrapper

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.trai.ch/bonsai/internal/adapters/telemetry"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/bonsai/internal/engine/updater"
	"go.trai.ch/zerr"
)

// Operation is one top-level provisioning step.
type Operation func(ctx context.Context) error

// OperationRunner runs a named provisioning step.
type OperationRunner func(ctx context.Context, name string, op Operation) error

// Bootstrapper provisions the packages of a configuration through a package manager.
type Bootstrapper struct {
	manager   ports.PackageManager
	store     ports.ConfigStore
	logger    ports.Logger
	telemetry ports.Telemetry
	framework string
	run       OperationRunner
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithOperationRunner sets how each top-level step runs.
func WithOperationRunner(run OperationRunner) Option {
	return func(b *Bootstrapper) {
		b.run = run
	}
}

// WithLogger sets the logger.
func WithLogger(logger ports.Logger) Option {
	return func(b *Bootstrapper) {
		b.logger = logger
	}
}

// WithTelemetry sets the telemetry each step is recorded with.
func WithTelemetry(t ports.Telemetry) Option {
	return func(b *Bootstrapper) {
		b.telemetry = t
	}
}

// WithFramework sets the target framework used to select package content.
func WithFramework(framework string) Option {
	return func(b *Bootstrapper) {
		b.framework = framework
	}
}

// New creates a Bootstrapper. Steps stop at the first error unless another runner is set.
func New(manager ports.PackageManager, store ports.ConfigStore, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		manager:   manager,
		store:     store,
		telemetry: telemetry.NewNoop(),
		framework: domain.DefaultFramework,
	}
	b.run = b.record
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewConsole creates a Bootstrapper that logs a failed step and carries on with the next one.
func NewConsole(manager ports.PackageManager, store ports.ConfigStore, logger ports.Logger, opts ...Option) *Bootstrapper {
	b := New(manager, store, append([]Option{WithLogger(logger)}, opts...)...)
	b.run = func(ctx context.Context, name string, op Operation) error {
		if err := b.record(ctx, name, op); err != nil {
			logger.Error(err)
		}
		return nil
	}
	return b
}

func (b *Bootstrapper) record(ctx context.Context, name string, op Operation) error {
	ctx, vertex := b.telemetry.Record(ctx, name)
	err := op(ctx)
	vertex.Complete(err)
	return err
}

// RunAsync recovers an interrupted launcher update, restores the packages cfg references
// that are missing locally and installs required when it is missing or older locally.
func (b *Bootstrapper) RunAsync(
	ctx context.Context,
	cfg *domain.PackageConfiguration,
	launcherPath string,
	required domain.PackageIdentity,
) error {
	if err := b.recoverBackup(launcherPath); err != nil {
		return err
	}

	repo := b.manager.LocalRepository()
	missing := missingPackages(cfg, repo)
	if len(missing) > 0 {
		err := b.run(ctx, "Restoring packages", func(ctx context.Context) error {
			return b.withUpdater(cfg, launcherPath, required, func() error {
				for _, pkg := range missing {
					if _, err := b.manager.InstallPackage(ctx, pkg.ID, pkg.Version, true); err != nil {
						return zerr.With(err, "package", domain.PackageIdentity{ID: pkg.ID, Version: pkg.Version}.String())
					}
				}
				return nil
			})
		})
		if err != nil {
			return err
		}
	}

	if !b.needsInstall(repo, required) {
		return nil
	}
	return b.run(ctx, fmt.Sprintf("Installing %s", required), func(ctx context.Context) error {
		return b.withUpdater(cfg, launcherPath, required, func() error {
			_, err := b.manager.InstallPackage(ctx, required.ID, required.Version, false)
			return err
		})
	})
}

// withUpdater keeps cfg in step with the manager while fn runs.
func (b *Bootstrapper) withUpdater(cfg *domain.PackageConfiguration, launcherPath string, required domain.PackageIdentity, fn func() error) error {
	opts := []updater.Option{
		updater.WithBootstrapper(launcherPath, required),
		updater.WithFramework(b.framework),
	}
	if b.logger != nil {
		opts = append(opts, updater.WithLogger(b.logger))
	}
	u := updater.New(cfg, b.store, b.manager, opts...)
	defer func() { _ = u.Close() }()
	return fn()
}

// recoverBackup restores the launcher from its backup when an update was interrupted after
// the backup was taken, and otherwise drops a leftover backup.
func (b *Bootstrapper) recoverBackup(launcherPath string) error {
	if launcherPath == "" {
		return nil
	}
	backup := domain.BackupPath(launcherPath)
	if _, err := os.Stat(backup); err != nil {
		return nil
	}

	if _, err := os.Stat(launcherPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.Rename(backup, launcherPath); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrSelfUpdateFailed.Error()), "backup", backup)
		}
		b.warn(fmt.Sprintf("Restored launcher from '%s'.", backup))
		return nil
	}

	if err := os.Remove(backup); err != nil {
		b.warn(fmt.Sprintf("Failed to remove launcher backup '%s'.", backup))
	}
	return nil
}

func (b *Bootstrapper) needsInstall(repo ports.LocalRepository, required domain.PackageIdentity) bool {
	if required.ID == "" {
		return false
	}
	local, ok := repo.FindLocalPackage(required.ID)
	if !ok {
		return true
	}
	if required.Version == "" {
		return false
	}
	c, err := domain.CompareVersions(local.Identity().Version, required.Version)
	return err != nil || c < 0
}

func (b *Bootstrapper) warn(msg string) {
	if b.logger != nil {
		b.logger.Warn(msg)
	}
}

// missingPackages returns the configured references not installed at their exact version.
func missingPackages(cfg *domain.PackageConfiguration, repo ports.LocalRepository) []domain.PackageReference {
	var missing []domain.PackageReference
	for _, pkg := range cfg.Packages.All() {
		if !repo.Exists(pkg.ID, pkg.Version) {
			missing = append(missing, pkg)
		}
	}
	return missing
}
