package main_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/siteport"
	main "github.com/fwojciec/siteport/cmd/siteport"
	"github.com/fwojciec/siteport/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageHTML = `<html><head><title>%[1]s | Example</title></head><body>
<nav>Menu</nav><main><h1>%[1]s</h1><p>Body of %[1]s.</p></main></body></html>`

// fakeSite serves canned HTML through a mock browser. URLs without a page
// fail navigation.
func fakeSite(pages map[string]string) *mock.Browser {
	return &mock.Browser{
		NewPageFn: func(ctx context.Context) (siteport.Page, error) {
			var current string
			return &mock.Page{
				NavigateFn: func(ctx context.Context, url string) error {
					current = url
					if _, ok := pages[url]; !ok {
						return siteport.Errorf(siteport.ENAVIGATION, "navigation to %s failed: 404", url)
					}
					return nil
				},
				WaitReadyFn: func(ctx context.Context) error { return nil },
				HTMLFn: func(ctx context.Context) (string, error) {
					return pages[current], nil
				},
				ScreenshotFn: func(ctx context.Context) ([]byte, error) { return []byte("png"), nil },
				CloseFn:      func() error { return nil },
			}, nil
		},
		CloseFn: func() error { return nil },
	}
}

func fakeSitemap(urls ...string) *mock.SitemapService {
	return &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, sitemapURL string, filter *siteport.URLFilter) ([]string, error) {
			var out []string
			for _, u := range urls {
				if filter.Match(u) {
					out = append(out, u)
				}
			}
			return out, nil
		},
	}
}

// newTestMain returns a Main wired to fakes and the directory flags that
// keep its state inside a temporary directory.
func newTestMain(t *testing.T, pages map[string]string, urls ...string) (*main.Main, []string, string) {
	t.Helper()
	dir := t.TempDir()
	m := main.NewMain()
	m.Browser = fakeSite(pages)
	m.Sitemaps = fakeSitemap(urls...)
	m.Now = func() time.Time { return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC) }
	flags := []string{
		"--output", filepath.Join(dir, "output"),
		"--content", filepath.Join(dir, "content"),
	}
	return m, flags, dir
}

func run(m *main.Main, flags []string, args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), append(append([]string{}, flags...), args...), stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(main.NewMain(), nil, "--help")

	require.NoError(t, err)
	for _, cmd := range []string{"discover", "scrape", "run", "status", "list", "show", "reset"} {
		assert.Contains(t, stdout, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_NoArgsIsAnError(t *testing.T) {
	t.Parallel()

	_, stderr, err := run(main.NewMain(), nil)

	require.Error(t, err)
	assert.Equal(t, 1, main.ExitCode(err))
	assert.Contains(t, stderr, "no command specified")
}

func TestMain_Run_MigratesSite(t *testing.T) {
	t.Parallel()

	// Given a sitemap with a page, a post and an excluded tag listing
	pages := map[string]string{
		"https://example.com/about":        fmt.Sprintf(pageHTML, "About"),
		"https://example.com/blog/launch/": fmt.Sprintf(pageHTML, "Launch"),
	}
	m, flags, dir := newTestMain(t, pages,
		"https://example.com/about",
		"https://example.com/blog/launch/",
		"https://example.com/tag/news/",
	)

	// When the site is migrated in one go
	stdout, stderr, err := run(m, flags, "run", "https://example.com/sitemap.xml")

	// Then both pages are written to their collections
	require.NoError(t, err, stderr)
	assert.Equal(t, 0, main.ExitCode(err))
	assert.Contains(t, stdout, "Found 2 URLs")
	assert.Contains(t, stdout, "Done: 2 migrated, 0 skipped, 0 failed")

	about, err := os.ReadFile(filepath.Join(dir, "content", "pages", "about.md"))
	require.NoError(t, err)
	assert.Contains(t, string(about), "title: About")
	assert.Contains(t, string(about), "Body of About.")
	_, err = os.Stat(filepath.Join(dir, "content", "posts", "blog-launch.md"))
	require.NoError(t, err)

	// And the URL list and ledger are saved
	_, err = os.Stat(filepath.Join(dir, "output", "urls.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "output", "processed.json"))
	require.NoError(t, err)
}

func TestMain_Run_ScrapeResumesFromURLList(t *testing.T) {
	t.Parallel()

	pages := map[string]string{"https://example.com/about": fmt.Sprintf(pageHTML, "About")}
	m, flags, _ := newTestMain(t, pages, "https://example.com/about")

	_, _, err := run(m, flags, "discover", "https://example.com/sitemap.xml")
	require.NoError(t, err)
	_, _, err = run(m, flags, "scrape")
	require.NoError(t, err)

	// When scrape runs again
	stdout, _, err := run(m, flags, "scrape")

	// Then the page is skipped
	require.NoError(t, err)
	assert.Contains(t, stdout, "Done: 0 migrated, 1 skipped, 0 failed")
}

func TestMain_Run_PartialFailureExitsWithTwo(t *testing.T) {
	t.Parallel()

	// Given a sitemap listing a page that cannot be loaded
	pages := map[string]string{"https://example.com/about": fmt.Sprintf(pageHTML, "About")}
	m, flags, dir := newTestMain(t, pages, "https://example.com/about", "https://example.com/missing")

	// When the site is migrated
	stdout, stderr, err := run(m, flags, "run", "https://example.com/sitemap.xml")

	// Then the run reports a partial failure
	require.Error(t, err)
	assert.Equal(t, siteport.EPARTIAL, siteport.ErrorCode(err))
	assert.Equal(t, 2, main.ExitCode(err))
	assert.Contains(t, stdout, "fail https://example.com/missing: navigation to https://example.com/missing failed: 404")
	assert.Contains(t, stdout, "Done: 1 migrated, 0 skipped, 1 failed")
	assert.Contains(t, stdout, filepath.Join(dir, "output", "logs", "failed.jsonl"))
	assert.NotContains(t, stderr, "error:")

	// And status lists the failure
	stdout, _, err = run(m, flags, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Succeeded: 1")
	assert.Contains(t, stdout, "Failed:    1")
	assert.Contains(t, stdout, "Pending:   0 of 2")
	assert.Contains(t, stdout, "https://example.com/missing\n    navigation to https://example.com/missing failed: 404")
}

func TestMain_Run_ResetFailedReprocessesURLs(t *testing.T) {
	t.Parallel()

	// Given a run where one URL failed
	pages := map[string]string{"https://example.com/about": fmt.Sprintf(pageHTML, "About")}
	m, flags, _ := newTestMain(t, pages, "https://example.com/about", "https://example.com/later")
	_, _, err := run(m, flags, "run", "https://example.com/sitemap.xml")
	require.Error(t, err)

	// When the failed URLs are reset and the page becomes available
	stdout, _, err := run(m, flags, "reset", "--failed")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Reset 1 URLs")
	pages["https://example.com/later"] = fmt.Sprintf(pageHTML, "Later")

	stdout, _, err = run(m, flags, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Pending:   1 of 2")

	// Then scrape processes only that URL
	stdout, _, err = run(m, flags, "scrape")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Done: 1 migrated, 1 skipped, 0 failed")
}

func TestMain_Run_SQLiteLedger(t *testing.T) {
	t.Parallel()

	pages := map[string]string{"https://example.com/about": fmt.Sprintf(pageHTML, "About")}
	m, flags, dir := newTestMain(t, pages, "https://example.com/about")
	flags = append(flags, "--ledger", "sqlite")

	_, stderr, err := run(m, flags, "run", "https://example.com/sitemap.xml")
	require.NoError(t, err, stderr)

	stdout, _, err := run(m, flags, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "processed.db")
	assert.Contains(t, stdout, "Succeeded: 1")
	_, err = os.Stat(filepath.Join(dir, "output", "processed.db"))
	require.NoError(t, err)
}

func TestMain_Run_ListShowsImportedDocuments(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"https://example.com/about":        fmt.Sprintf(pageHTML, "About"),
		"https://example.com/blog/launch/": fmt.Sprintf(pageHTML, "Launch"),
	}
	m, flags, _ := newTestMain(t, pages, "https://example.com/about", "https://example.com/blog/launch/")
	_, _, err := run(m, flags, "run", "https://example.com/sitemap.xml")
	require.NoError(t, err)

	stdout, _, err := run(m, flags, "list", "posts")

	require.NoError(t, err)
	assert.Contains(t, stdout, "posts/blog-launch  Launch")
	assert.NotContains(t, stdout, "pages/about")
}

func TestMain_Run_ScrapeWithoutURLList(t *testing.T) {
	t.Parallel()

	m, flags, _ := newTestMain(t, nil)

	_, stderr, err := run(m, flags, "scrape")

	assert.Equal(t, siteport.ENOTFOUND, siteport.ErrorCode(err))
	assert.Equal(t, 1, main.ExitCode(err))
	assert.Contains(t, stderr, "error: URL list")
	assert.Contains(t, stderr, "run discover first")
}

func TestMain_Run_DiscoveryFailureDoesNotStartBrowser(t *testing.T) {
	t.Parallel()

	// Given a sitemap that cannot be fetched
	m, flags, dir := newTestMain(t, nil)
	var opened, closed bool
	m.Browser = &mock.Browser{
		NewPageFn: func(ctx context.Context) (siteport.Page, error) {
			opened = true
			return nil, siteport.Errorf(siteport.EINTERNAL, "unexpected page")
		},
		CloseFn: func() error {
			closed = true
			return nil
		},
	}
	m.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, sitemapURL string, filter *siteport.URLFilter) ([]string, error) {
			return nil, siteport.Errorf(siteport.EDISCOVERY, "sitemap %s: status 500", sitemapURL)
		},
	}

	// When the site is migrated in one go
	_, _, err := run(m, flags, "run", "https://example.com/sitemap.xml")

	// Then the run fails before the browser or content store is touched
	assert.Equal(t, siteport.EDISCOVERY, siteport.ErrorCode(err))
	assert.False(t, opened)
	assert.False(t, closed, "browser should never have been started")
	assert.NoDirExists(t, filepath.Join(dir, "content"))
}

func TestMain_Run_RejectsUnknownEngine(t *testing.T) {
	t.Parallel()

	m, flags, _ := newTestMain(t, nil)

	_, stderr, err := run(m, flags, "scrape", "--engine", "webkit")

	assert.Equal(t, siteport.EINVALID, siteport.ErrorCode(err))
	assert.Contains(t, stderr, `unknown engine "webkit"`)
}

func TestMain_Run_ConfigFile(t *testing.T) {
	t.Parallel()

	// Given a config file that redirects output and excludes a section
	pages := map[string]string{
		"https://example.com/about":     fmt.Sprintf(pageHTML, "About"),
		"https://example.com/legal/tos": fmt.Sprintf(pageHTML, "Terms"),
	}
	m, flags, dir := newTestMain(t, pages, "https://example.com/about", "https://example.com/legal/tos")
	cfgPath := filepath.Join(dir, "siteport.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output_dir: "+filepath.Join(dir, "state")+"\nexclude:\n  - /legal/\n"), 0644))

	// When discover runs with the config and without an output flag
	_, stderr, err := run(m, flags[2:], "--config", cfgPath, "discover", "https://example.com/sitemap.xml")

	// Then the file settings apply
	require.NoError(t, err, stderr)
	data, err := os.ReadFile(filepath.Join(dir, "state", "urls.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://example.com/about")
	assert.NotContains(t, string(data), "legal")
}

func TestMain_Run_ShowPrintsOutline(t *testing.T) {
	t.Parallel()

	// Given an imported page with sections
	pages := map[string]string{
		"https://example.com/about": `<html><body><main><h1>About</h1>
<h2>Our Story</h2><p>Founded in 2019.</p><h3>Early Days</h3><p>Small.</p></main></body></html>`,
	}
	m, flags, _ := newTestMain(t, pages, "https://example.com/about")
	_, _, err := run(m, flags, "run", "https://example.com/sitemap.xml")
	require.NoError(t, err)

	// When it is shown
	stdout, _, err := run(m, flags, "show", "pages", "about")

	// Then metadata and the heading outline are printed
	require.NoError(t, err)
	assert.Contains(t, stdout, "Title:    About\n")
	assert.Contains(t, stdout, "Source:   https://example.com/about\n")
	assert.Contains(t, stdout, "Imported: 2025-04-01T09:00:00.000Z\n")
	assert.Contains(t, stdout, "Outline:\n  - Our Story (#our-story)\n    - Early Days (#early-days)\n")
	assert.NotContains(t, stdout, "Founded in 2019.")
}

func TestMain_Run_ShowUnknownSlug(t *testing.T) {
	t.Parallel()

	m, flags, _ := newTestMain(t, nil)

	_, stderr, err := run(m, flags, "show", "pages", "nope")

	assert.Equal(t, siteport.ENOTFOUND, siteport.ErrorCode(err))
	assert.Contains(t, stderr, "error: document pages/nope not found")
}
