package main

import (
	"fmt"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/fs"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	if err := deps.Ledger.Load(deps.Ctx); err != nil {
		return err
	}

	records := deps.Ledger.Records()
	known := make(map[string]bool, len(records))
	var succeeded int
	var failed []*siteport.Record
	for _, rec := range records {
		known[rec.URL] = true
		if rec.Status == siteport.StatusSuccess {
			succeeded++
		} else {
			failed = append(failed, rec)
		}
	}

	fmt.Fprintf(deps.Stdout, "Ledger:    %s\n", deps.Config.LedgerPath())
	fmt.Fprintf(deps.Stdout, "Succeeded: %d\n", succeeded)
	fmt.Fprintf(deps.Stdout, "Failed:    %d\n", len(failed))

	urls, err := fs.ReadURLs(deps.Config.URLsPath())
	switch {
	case err == nil:
		pending := 0
		for _, u := range urls {
			if !known[u] {
				pending++
			}
		}
		fmt.Fprintf(deps.Stdout, "Pending:   %d of %d\n", pending, len(urls))
	case siteport.ErrorCode(err) != siteport.ENOTFOUND:
		return err
	}

	if len(failed) > 0 {
		fmt.Fprintln(deps.Stdout, "\nFailed URLs:")
		for _, rec := range failed {
			fmt.Fprintf(deps.Stdout, "  %s\n    %s\n", rec.URL, rec.Reason)
		}
	}
	return nil
}
