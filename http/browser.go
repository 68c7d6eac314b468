// Package http provides HTTP-based implementations: sitemap discovery and a
// static-site Browser for pages that don't require JavaScript rendering.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/siteport"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 45 * time.Second

var (
	_ siteport.Browser = (*Browser)(nil)
	_ siteport.Page    = (*Page)(nil)
)

// Browser serves pages fetched with plain HTTP requests. Unlike rod.BrowserManager,
// it does not execute JavaScript and cannot take screenshots.
type Browser struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Browser.
type Option func(*Browser)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(b *Browser) {
		b.timeout = d
	}
}

// NewBrowser creates a new HTTP-based Browser.
func NewBrowser(opts ...Option) *Browser {
	b := &Browser{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}

	b.client = &http.Client{
		Timeout: b.timeout,
	}

	return b
}

// NewPage returns an empty page bound to the browser's client.
func (b *Browser) NewPage(ctx context.Context) (siteport.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Page{client: b.client}, nil
}

// Close releases resources. For the HTTP browser this is a no-op since
// http.Client doesn't require explicit cleanup.
func (b *Browser) Close() error {
	return nil
}

// Page holds the body of the last navigated URL.
type Page struct {
	client *http.Client
	body   string
}

// Navigate fetches url. Non-200 responses are navigation errors.
func (p *Page) Navigate(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return siteport.Errorf(siteport.ENAVIGATION, "invalid URL %s: %v", url, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return siteport.Errorf(siteport.ENAVIGATION, "navigation to %s timed out", url)
		}
		return siteport.Errorf(siteport.ENAVIGATION, "navigation to %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return siteport.Errorf(siteport.ENAVIGATION, "reading %s: %v", url, err)
	}
	p.body = string(body)

	if resp.StatusCode != http.StatusOK {
		return siteport.Errorf(siteport.ENAVIGATION, "HTTP %d for %s", resp.StatusCode, url)
	}
	return nil
}

// WaitReady returns immediately: a static document is ready once fetched.
func (p *Page) WaitReady(ctx context.Context) error {
	if ctx.Err() != nil {
		return siteport.Errorf(siteport.ETIMEOUT, "page not ready: %v", ctx.Err())
	}
	return nil
}

// HTML returns the fetched body, including error pages.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.body, nil
}

// Screenshot is not supported without a rendering engine.
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	return nil, fmt.Errorf("screenshots are not supported by the http engine")
}

// Close is a no-op.
func (p *Page) Close() error {
	return nil
}
