package migrate

import (
	"context"
	"log/slog"

	"github.com/fwojciec/siteport"
)

// capture saves the page HTML and a full-page screenshot for a failed URL.
// Both steps are best effort: errors are logged as ECAPTURE warnings and
// never change the outcome.
func (m *Migrator) capture(ctx context.Context, logger *slog.Logger, page siteport.Page, o *Outcome) {
	ctx, cancel := context.WithTimeout(ctx, orDefault(m.CaptureTimeout, DefaultCaptureTimeout))
	defer cancel()

	warn := func(artifact string, err error) {
		err = siteport.Errorf(siteport.ECAPTURE, "saving %s for %s: %w", artifact, o.URL, err)
		logger.Warn("diagnostic capture failed", "url", o.URL, "artifact", artifact, "err", err)
	}

	if html, err := page.HTML(ctx); err != nil {
		warn("html", err)
	} else if err := m.Diagnostics.WriteHTML(ctx, o.Slug, html); err != nil {
		warn("html", err)
	}

	if png, err := page.Screenshot(ctx); err != nil {
		warn("screenshot", err)
	} else if err := m.Diagnostics.WriteScreenshot(ctx, o.Slug, png); err != nil {
		warn("screenshot", err)
	}
}
