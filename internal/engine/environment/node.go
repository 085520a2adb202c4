package environment

import (
	"context"

	"github.com/grindlemire/graft"
	bfs "go.trai.ch/bonsai/internal/adapters/fs"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bonsai/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bonsai/internal/adapters/release"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bonsai/internal/adapters/settings"           //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bonsai/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bonsai/internal/core/ports"
)

// NodeID is the unique identifier for the environment selector Graft node.
const NodeID graft.ID = "engine.environment"

func init() {
	graft.Register(graft.Node[*Selector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			settings.NodeID,
			release.NodeID,
			bfs.VerifierNodeID,
			bfs.CleanupNodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Selector, error) {
			s, err := graft.Dep[*settings.Settings](ctx)
			if err != nil {
				return nil, err
			}

			downloader, err := graft.Dep[*release.Downloader](ctx)
			if err != nil {
				return nil, err
			}

			verifier, err := graft.Dep[*bfs.Verifier](ctx)
			if err != nil {
				return nil, err
			}

			cleanup, err := graft.Dep[*bfs.Cleanup](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[*logger.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(
				WithDownloader(downloader),
				WithVerifier(verifier),
				WithCleanup(cleanup),
				WithProgress(tracer),
				WithLogger(log),
				WithReleaseURL(s.ReleaseURL),
				WithCacheDir(s.DownloadCache),
				WithLauncherPackageID(s.LauncherPackageID),
			), nil
		},
	})
}
