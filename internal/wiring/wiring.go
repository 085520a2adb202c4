// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bonsai/internal/adapters/config"
	_ "go.trai.ch/bonsai/internal/adapters/fs"
	_ "go.trai.ch/bonsai/internal/adapters/loader"
	_ "go.trai.ch/bonsai/internal/adapters/logger"
	_ "go.trai.ch/bonsai/internal/adapters/nuget"
	_ "go.trai.ch/bonsai/internal/adapters/release"
	_ "go.trai.ch/bonsai/internal/adapters/settings"
	_ "go.trai.ch/bonsai/internal/adapters/shell"
	_ "go.trai.ch/bonsai/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/bonsai/internal/app"
	_ "go.trai.ch/bonsai/internal/engine/environment"
)
