// Package app implements the application layer for bonsai.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.trai.ch/bonsai/internal/adapters/config"
	"go.trai.ch/bonsai/internal/adapters/settings"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/bonsai/internal/engine/bootstrapper"
	"go.trai.ch/bonsai/internal/engine/environment"
	"go.trai.ch/bonsai/internal/engine/resolver"
	"go.trai.ch/bonsai/internal/engine/updater"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	settings   *settings.Settings
	store      ports.ConfigStore
	manager    ports.PackageManager
	selector   *environment.Selector
	loader     ports.ModuleLoader
	searchPath ports.LibrarySearchPath
	executor   ports.Executor
	telemetry  ports.Telemetry
	logger     ports.Logger
}

// New creates a new App instance.
func New(
	s *settings.Settings,
	store ports.ConfigStore,
	manager ports.PackageManager,
	selector *environment.Selector,
	loader ports.ModuleLoader,
	searchPath ports.LibrarySearchPath,
	executor ports.Executor,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *App {
	return &App{
		settings:   s,
		store:      store,
		manager:    manager,
		selector:   selector,
		loader:     loader,
		searchPath: searchPath,
		executor:   executor,
		telemetry:  telemetry,
		logger:     logger,
	}
}

// BootstrapOptions configures a provisioning pass.
type BootstrapOptions struct {
	// ConfigPath is the package configuration file. Empty selects the default file.
	ConfigPath string
	// LauncherPath is the launcher kept up to date. Empty selects the running launcher.
	LauncherPath string
	// KeepGoing logs a failed step and continues with the next one.
	KeepGoing bool
}

// Bootstrap restores every package the configuration references and installs the launcher
// package when it is missing or older than the running launcher.
func (a *App) Bootstrap(ctx context.Context, opts BootstrapOptions) error {
	cfg, err := a.store.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	launcherPath := opts.LauncherPath
	if launcherPath == "" {
		launcherPath = a.selector.Current().Path
	}

	bootstrapperOpts := []bootstrapper.Option{
		bootstrapper.WithTelemetry(a.telemetry),
		bootstrapper.WithFramework(a.settings.Framework),
	}
	var b *bootstrapper.Bootstrapper
	if opts.KeepGoing {
		b = bootstrapper.NewConsole(a.manager, a.store, a.logger, bootstrapperOpts...)
	} else {
		b = bootstrapper.New(a.manager, a.store, append(bootstrapperOpts, bootstrapper.WithLogger(a.logger))...)
	}
	return b.RunAsync(ctx, cfg, launcherPath, a.launcherPackage(cfg))
}

// Install installs a package and records it in the configuration. An empty version selects
// the latest available version.
func (a *App) Install(ctx context.Context, configPath, id, version string) error {
	cfg, err := a.store.Load(configPath)
	if err != nil {
		return err
	}
	return a.withUpdater(cfg, func() error {
		pkg, err := a.manager.InstallPackage(ctx, id, version, false)
		if err != nil {
			return err
		}
		a.logger.Info(fmt.Sprintf("Installed '%s'.", pkg.Identity()))
		return nil
	})
}

// Uninstall removes a package and everything it registered in the configuration.
func (a *App) Uninstall(ctx context.Context, configPath, id string) error {
	cfg, err := a.store.Load(configPath)
	if err != nil {
		return err
	}
	var version string
	if ref, ok := cfg.Packages.Get(id); ok {
		version = ref.Version
	}
	return a.withUpdater(cfg, func() error {
		if err := a.manager.UninstallPackage(ctx, id, version, false); err != nil {
			return err
		}
		a.logger.Info(fmt.Sprintf("Uninstalled '%s'.", id))
		return nil
	})
}

// Env ensures the launcher pinned by the project above path is present and verified and
// returns its path. Without a pin the running launcher is returned.
func (a *App) Env(ctx context.Context, path string) (string, error) {
	info, ok := a.selector.TryGetLocalBootstrapper(path)
	if !ok {
		a.logger.Info(fmt.Sprintf("No launcher pinned above '%s', using the running launcher.", path))
		return info.Path, nil
	}
	return a.selector.EnsureBootstrapperExecutable(ctx, info)
}

// Launch ensures the launcher pinned by the project above path and runs it with args,
// returning its exit code.
func (a *App) Launch(ctx context.Context, path string, args []string) (int, error) {
	launcher, err := a.Env(ctx, path)
	if err != nil {
		return -1, err
	}
	a.logger.Info(fmt.Sprintf("Starting '%s'.", launcher))
	return a.executor.Run(ctx, domain.Process{Path: launcher, Args: args})
}

// Resolution is where a module is loaded from.
type Resolution struct {
	Location string
	// Package is the installed package providing the module. It is zero for loose extensions.
	Package domain.PackageReference
}

// Resolve prepares the library search path of the configuration and returns the location
// the named module is loaded from.
func (a *App) Resolve(configPath, name string) (Resolution, error) {
	cfg, err := a.store.Load(configPath)
	if err != nil {
		return Resolution{}, err
	}

	root := cfg.Root(a.settings.BaseDir)
	if err := config.RegisterPath(cfg, filepath.Join(a.settings.BaseDir, domain.ExtensionsDirectory)); err != nil {
		return Resolution{}, err
	}
	if err := resolver.RegisterLibraryPaths(cfg, root, a.searchPath, domain.CurrentPlatform()); err != nil {
		return Resolution{}, err
	}

	module, err := resolver.New(cfg, root, a.loader).Resolve(name)
	if err != nil {
		return Resolution{}, err
	}
	if module == nil {
		return Resolution{}, zerr.With(domain.ErrModuleNotFound, "name", name)
	}

	res := Resolution{Location: module.Location()}
	if ref, ok := config.AssemblyPackageReference(cfg, name, config.PackageReferenceMap(cfg)); ok {
		res.Package = ref
	}
	return res, nil
}

func (a *App) withUpdater(cfg *domain.PackageConfiguration, fn func() error) error {
	u := updater.New(cfg, a.store, a.manager,
		updater.WithBootstrapper(a.selector.Current().Path, a.launcherPackage(cfg)),
		updater.WithFramework(a.settings.Framework),
		updater.WithLogger(a.logger),
	)
	defer func() { _ = u.Close() }()
	return fn()
}

// launcherPackage identifies the package of the running launcher. Development builds fall
// back to the version the configuration references.
func (a *App) launcherPackage(cfg *domain.PackageConfiguration) domain.PackageIdentity {
	identity := domain.PackageIdentity{ID: a.settings.LauncherPackageID}
	current := a.selector.Current()
	if _, err := domain.ParseVersion(current.Version); err == nil {
		identity.Version = current.Version
	} else if ref, ok := cfg.Packages.Get(identity.ID); ok {
		identity.Version = ref.Version
	}
	return identity
}
