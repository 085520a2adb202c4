package ports

import (
	"context"
	"io"
)

// Downloader fetches remote resources.
//
//go:generate mockgen -source=downloader.go -destination=mocks/mock_downloader.go -package=mocks
type Downloader interface {
	// Download writes the body at url to dst, calling progress as bytes arrive.
	// total is -1 when the size is unknown.
	Download(ctx context.Context, url string, dst io.Writer, progress func(read, total int64)) error
}
