package ports

import (
	"context"

	"go.trai.ch/bonsai/internal/core/domain"
)

// Executor runs external processes.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run starts the process, waits for it and returns its exit code. A process that
	// exits with a non-zero code is not an error.
	Run(ctx context.Context, proc domain.Process) (int, error)
}
