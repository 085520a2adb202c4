package release

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bonsai/internal/adapters/settings"
)

// NodeID is the unique identifier for the downloader Graft node.
const NodeID graft.ID = "adapter.release"

func init() {
	graft.Register(graft.Node[*Downloader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID},
		Run: func(ctx context.Context) (*Downloader, error) {
			s, err := graft.Dep[*settings.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return New(s.HTTPTimeout, s.RetryMax), nil
		},
	})
}
