package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/fs"
	"github.com/fwojciec/siteport/migrate"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	urls, err := fs.ReadURLs(deps.Config.URLsPath())
	if err != nil {
		return err
	}
	return scrape(deps, urls)
}

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	urls, err := discover(deps, c.Sitemap)
	if err != nil {
		return err
	}
	return scrape(deps, urls)
}

// scrape migrates urls and prints progress and a summary.
func scrape(deps *Dependencies, urls []string) error {
	migrator, err := deps.OpenMigrator()
	if err != nil {
		return err
	}

	out := deps.Stdout

	progress := func(event migrate.ProgressEvent) {
		switch event.Type {
		case migrate.ProgressStarted:
			fmt.Fprintf(out, "Processing %d URLs\n", event.Total)
		case migrate.ProgressCompleted:
			fmt.Fprintf(out, "  [%d/%d] ok   %s\n", event.Completed, event.Total, migrate.TruncateURL(event.URL, 70))
		case migrate.ProgressFailed:
			fmt.Fprintf(out, "  [%d/%d] fail %s: %s\n", event.Completed, event.Total, migrate.TruncateURL(event.URL, 70), event.Outcome.Reason)
		}
	}

	res, err := migrator.Run(deps.Ctx, urls, progress)
	if res != nil {
		fmt.Fprintf(out, "Done: %d migrated, %d skipped, %d failed (%s)\n",
			res.Succeeded, res.Skipped, res.Failed, migrate.FormatBytes(res.Bytes))
	}

	switch {
	case err == nil:
		return nil
	case siteport.ErrorCode(err) == siteport.EPARTIAL:
		fmt.Fprintf(out, "Failures are listed in %s\n", filepath.Join(deps.Config.LogsDir(), fs.FailureLogName))
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(out, "Interrupted. Run the same command again to resume.")
	}
	return err
}
