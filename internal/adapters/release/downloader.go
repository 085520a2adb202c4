// Package release downloads release archives over HTTP with retries.
package release

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	retryWaitMin = 1 * time.Second
	retryWaitMax = 30 * time.Second
	userAgent    = "bonsai-bootstrapper"
)

// Downloader implements ports.Downloader on a retrying HTTP client.
type Downloader struct {
	client *retryablehttp.Client
}

var _ ports.Downloader = (*Downloader)(nil)

// New creates a Downloader with the given overall request timeout and retry budget.
func New(timeout time.Duration, retryMax int) *Downloader {
	return NewWithClient(&http.Client{Timeout: timeout}, retryMax, retryWaitMin, retryWaitMax)
}

// NewWithClient creates a Downloader over a custom http client.
func NewWithClient(httpClient *http.Client, retryMax int, waitMin, waitMax time.Duration) *Downloader {
	client := retryablehttp.NewClient()
	client.HTTPClient = httpClient
	client.RetryMax = retryMax
	client.RetryWaitMin = waitMin
	client.RetryWaitMax = waitMax
	client.Logger = nil
	return &Downloader{client: client}
}

// Download streams the body at url into dst. progress, when set, receives the running byte
// count and the content length (-1 when unknown).
func (d *Downloader) Download(ctx context.Context, url string, dst io.Writer, progress func(read, total int64)) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", url)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", url)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer

	if resp.StatusCode != http.StatusOK {
		return zerr.With(zerr.With(domain.ErrDownloadFailed, "url", url), "status_code", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if progress != nil {
		progress(0, resp.ContentLength)
		body = &progressReader{r: resp.Body, total: resp.ContentLength, report: progress}
	}
	if _, err := io.Copy(dst, body); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", url)
	}
	return nil
}

type progressReader struct {
	r      io.Reader
	read   int64
	total  int64
	report func(read, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report(p.read, p.total)
	}
	return n, err
}
