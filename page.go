package siteport

import "context"

// Browser is a long-lived rendering session shared across URLs.
// It must be closed exactly once when the run ends.
type Browser interface {
	// NewPage opens an isolated page context. The caller owns the page and
	// must close it.
	NewPage(ctx context.Context) (Page, error)

	// Close releases browser resources.
	Close() error
}

// Page is a navigable page handle with content-query and snapshot
// capabilities.
type Page interface {
	// Navigate loads the URL and returns once the DOM has been parsed.
	// Failures are reported as ENAVIGATION.
	Navigate(ctx context.Context, url string) error

	// WaitReady blocks until the page is likely to have finished client-side
	// rendering: network idle followed by a settle delay. This is a
	// heuristic, not a guarantee. A timeout is reported as ETIMEOUT.
	WaitReady(ctx context.Context) error

	// HTML returns the serialized DOM of the page.
	HTML(ctx context.Context) (string, error)

	// Screenshot returns a full-page PNG image.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases the page context.
	Close() error
}

// DomainLimiter paces requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
