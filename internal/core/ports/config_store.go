// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/bonsai/internal/core/domain"

// ConfigStore loads and saves the package configuration file.
//
//go:generate mockgen -source=config_store.go -destination=mocks/mock_config_store.go -package=mocks
type ConfigStore interface {
	// Load reads the configuration at path, or the default path when empty.
	// A missing file yields an empty configuration stamped with the path.
	Load(path string) (*domain.PackageConfiguration, error)

	// Save rewrites the whole configuration to path, falling back to cfg.ConfigurationFile
	// and then to the default path. The path written is recorded on cfg.
	Save(cfg *domain.PackageConfiguration, path string) error
}
