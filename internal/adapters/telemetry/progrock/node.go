package progrock

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/bonsai/internal/adapters/settings"
	"go.trai.ch/bonsai/internal/adapters/telemetry"
	"go.trai.ch/bonsai/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry adapter node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID},
		Run: func(ctx context.Context) (ports.Telemetry, error) {
			s, err := graft.Dep[*settings.Settings](ctx)
			if err != nil {
				return nil, err
			}
			if s.LogJSON {
				return telemetry.NewNoop(), nil
			}
			return New(os.Stderr), nil
		},
	})
}
