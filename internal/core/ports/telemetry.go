package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records long running provisioning steps.
type Telemetry interface {
	// Record starts a vertex for a named step.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes the recording session.
	Close() error
}

// Vertex is a single recorded step.
type Vertex interface {
	// Stdout returns a writer for step output.
	Stdout() io.Writer
	// Progress reports how much of the step is done. total is -1 when unknown.
	Progress(current, total int64)
	// Complete marks the step finished, successfully when err is nil.
	Complete(err error)
	// Cached marks the step as satisfied without work.
	Cached()
}
