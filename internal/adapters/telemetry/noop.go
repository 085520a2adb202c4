// Package telemetry records provisioning steps.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/bonsai/internal/core/ports"
)

// Noop is a ports.Telemetry that discards everything.
type Noop struct{}

var _ ports.Telemetry = Noop{}

// NewNoop creates a new Noop telemetry.
func NewNoop() Noop {
	return Noop{}
}

// Record returns ctx unchanged and a vertex that does nothing.
func (Noop) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close does nothing.
func (Noop) Close() error {
	return nil
}

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer { return io.Discard }
func (noopVertex) Progress(_, _ int64) {}
func (noopVertex) Complete(_ error) {}
func (noopVertex) Cached() {}
