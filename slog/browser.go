package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteport"
)

var (
	_ siteport.Browser = (*LoggingBrowser)(nil)
	_ siteport.Page    = (*loggingPage)(nil)
)

// LoggingBrowser wraps a Browser so every page logs its navigation and
// readiness waits at debug level.
type LoggingBrowser struct {
	next   siteport.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next siteport.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// NewPage delegates to the wrapped browser and wraps the page.
func (b *LoggingBrowser) NewPage(ctx context.Context) (siteport.Page, error) {
	page, err := b.next.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	return &loggingPage{next: page, logger: b.logger}, nil
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	return b.next.Close()
}

type loggingPage struct {
	next   siteport.Page
	logger *slog.Logger
	url    string
}

func (p *loggingPage) Navigate(ctx context.Context, url string) (err error) {
	p.url = url
	defer func(begin time.Time) {
		p.logger.Debug("navigate",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Navigate(ctx, url)
}

func (p *loggingPage) WaitReady(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		p.logger.Debug("wait ready",
			"url", p.url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.WaitReady(ctx)
}

func (p *loggingPage) HTML(ctx context.Context) (html string, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("html",
			"url", p.url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.HTML(ctx)
}

func (p *loggingPage) Screenshot(ctx context.Context) (png []byte, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("screenshot",
			"url", p.url,
			"bytes", len(png),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Screenshot(ctx)
}

func (p *loggingPage) Close() error {
	return p.next.Close()
}
