package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/siteport"
)

// Ensure Diagnostics implements siteport.DiagnosticStore at compile time.
var _ siteport.DiagnosticStore = (*Diagnostics)(nil)

// Diagnostics stores failure snapshots as {htmlDir}/{slug}.html and
// {screenshotDir}/{slug}.png.
type Diagnostics struct {
	htmlDir       string
	screenshotDir string
}

// NewDiagnostics creates a Diagnostics store.
func NewDiagnostics(htmlDir, screenshotDir string) *Diagnostics {
	return &Diagnostics{htmlDir: htmlDir, screenshotDir: screenshotDir}
}

// Paths returns the artifact locations for slug.
func (d *Diagnostics) Paths(slug string) (htmlPath, screenshotPath string) {
	return filepath.Join(d.htmlDir, slug+".html"), filepath.Join(d.screenshotDir, slug+".png")
}

// WriteHTML writes the raw HTML snapshot for slug.
func (d *Diagnostics) WriteHTML(ctx context.Context, slug, html string) error {
	htmlPath, _ := d.Paths(slug)
	return d.write(ctx, slug, htmlPath, []byte(html))
}

// WriteScreenshot writes the full-page screenshot for slug.
func (d *Diagnostics) WriteScreenshot(ctx context.Context, slug string, png []byte) error {
	_, screenshotPath := d.Paths(slug)
	return d.write(ctx, slug, screenshotPath, png)
}

func (d *Diagnostics) write(ctx context.Context, slug, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkSlug(slug); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
