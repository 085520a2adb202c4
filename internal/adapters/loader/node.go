package loader

import (
	"context"

	"github.com/grindlemire/graft"
)

const (
	// NodeID is the unique identifier for the module loader Graft node.
	NodeID graft.ID = "adapter.loader"
	// SearchPathNodeID is the unique identifier for the library search path Graft node.
	SearchPathNodeID graft.ID = "adapter.loader.search_path"
)

func init() {
	graft.Register(graft.Node[*Loader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Loader, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[*SearchPath]{
		ID:        SearchPathNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*SearchPath, error) {
			return NewSearchPath(), nil
		},
	})
}
