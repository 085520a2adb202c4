package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bonsai/internal/adapters/settings"
	"go.trai.ch/bonsai/internal/core/ports"
)

// NodeID is the unique identifier for the configuration store Graft node.
const NodeID graft.ID = "adapter.config_store"

func init() {
	graft.Register(graft.Node[ports.ConfigStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID},
		Run: func(ctx context.Context) (ports.ConfigStore, error) {
			s, err := graft.Dep[*settings.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(s.BaseDir), nil
		},
	})
}
