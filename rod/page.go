package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/siteport"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var _ siteport.Page = (*Page)(nil)

// Page is a single browser tab obtained from BrowserManager.NewPage.
type Page struct {
	page        *rod.Page
	idleWindow  time.Duration
	settleDelay time.Duration

	release   func()
	closeOnce sync.Once
}

// Navigate loads url and waits for DOMContentLoaded.
func (p *Page) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)

	wait := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := page.Navigate(url); err != nil {
		if ctx.Err() != nil {
			return siteport.Errorf(siteport.ENAVIGATION, "navigation to %s timed out", url)
		}
		return siteport.Errorf(siteport.ENAVIGATION, "navigation to %s failed: %v", url, err)
	}
	wait()

	if ctx.Err() != nil {
		return siteport.Errorf(siteport.ENAVIGATION, "navigation to %s timed out", url)
	}
	return nil
}

// WaitReady waits for the network to go idle and then for the settle delay.
func (p *Page) WaitReady(ctx context.Context) error {
	page := p.page.Context(ctx)

	page.WaitRequestIdle(p.idleWindow, nil, nil, nil)()
	if err := ctx.Err(); err != nil {
		return siteport.Errorf(siteport.ETIMEOUT, "page not ready: network never went idle")
	}

	select {
	case <-ctx.Done():
		return siteport.Errorf(siteport.ETIMEOUT, "page not ready: timed out during settle delay")
	case <-time.After(p.settleDelay):
	}
	return nil
}

// HTML returns the serialized DOM.
func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("reading page html: %w", err)
	}
	return html, nil
}

// Screenshot captures the full page as PNG.
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	png, err := p.page.Context(ctx).Screenshot(true, nil)
	if err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}
	return png, nil
}

// Close closes the tab. It is safe to call more than once.
func (p *Page) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.page.Close()
		if p.release != nil {
			p.release()
		}
	})
	return err
}
