package main

import (
	"fmt"

	"github.com/fwojciec/siteport/fs"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	_, err := discover(deps, c.Sitemap)
	return err
}

// discover reads the sitemap and saves the URL list for scrape.
func discover(deps *Dependencies, sitemap string) ([]string, error) {
	filter, err := deps.Config.URLFilter()
	if err != nil {
		return nil, err
	}

	urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, sitemap, filter)
	if err != nil {
		return nil, err
	}

	path := deps.Config.URLsPath()
	if err := fs.WriteURLs(path, urls); err != nil {
		return nil, fmt.Errorf("saving URL list: %w", err)
	}

	fmt.Fprintf(deps.Stdout, "Found %d URLs, saved to %s\n", len(urls), path)
	return urls, nil
}
