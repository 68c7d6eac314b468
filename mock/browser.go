package mock

import (
	"context"

	"github.com/fwojciec/siteport"
)

var (
	_ siteport.Browser = (*Browser)(nil)
	_ siteport.Page    = (*Page)(nil)
)

// Browser is a mock implementation of siteport.Browser.
type Browser struct {
	NewPageFn func(ctx context.Context) (siteport.Page, error)
	CloseFn   func() error
}

func (b *Browser) NewPage(ctx context.Context) (siteport.Page, error) {
	return b.NewPageFn(ctx)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}

// Page is a mock implementation of siteport.Page.
type Page struct {
	NavigateFn   func(ctx context.Context, url string) error
	WaitReadyFn  func(ctx context.Context) error
	HTMLFn       func(ctx context.Context) (string, error)
	ScreenshotFn func(ctx context.Context) ([]byte, error)
	CloseFn      func() error
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.NavigateFn(ctx, url)
}

func (p *Page) WaitReady(ctx context.Context) error {
	return p.WaitReadyFn(ctx)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	return p.ScreenshotFn(ctx)
}

func (p *Page) Close() error {
	return p.CloseFn()
}
