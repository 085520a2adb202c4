package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bonsai/internal/adapters/settings"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[*Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID},
		Run: func(ctx context.Context) (*Logger, error) {
			s, err := graft.Dep[*settings.Settings](ctx)
			if err != nil {
				return nil, err
			}
			l := New()
			l.SetJSON(s.LogJSON)
			return l, nil
		},
	})
}
