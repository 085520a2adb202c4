package nuget

import (
	"context"

	"github.com/grindlemire/graft"
	bfs "go.trai.ch/bonsai/internal/adapters/fs"
	"go.trai.ch/bonsai/internal/adapters/logger"
	"go.trai.ch/bonsai/internal/adapters/settings"
)

// NodeID is the unique identifier for the package manager Graft node.
const NodeID graft.ID = "adapter.nuget"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID, bfs.CleanupNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Manager, error) {
			s, err := graft.Dep[*settings.Settings](ctx)
			if err != nil {
				return nil, err
			}
			cleanup, err := graft.Dep[*bfs.Cleanup](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[*logger.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewManager(NewRepository(s.RepositoryPath), NewFeed(s.PackageSources...), cleanup, log), nil
		},
	})
}
