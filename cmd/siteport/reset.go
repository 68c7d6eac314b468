package main

import (
	"fmt"

	"github.com/fwojciec/siteport"
)

// Run executes the reset command.
func (c *ResetCmd) Run(deps *Dependencies) error {
	if len(c.URLs) == 0 && !c.Failed {
		return siteport.Errorf(siteport.EINVALID, "specify URLs to reset or use --failed")
	}

	if err := deps.Ledger.Load(deps.Ctx); err != nil {
		return err
	}

	targets := c.URLs
	if c.Failed {
		for _, rec := range deps.Ledger.Records() {
			if rec.Status == siteport.StatusFailed {
				targets = append(targets, rec.URL)
			}
		}
	}

	seen := make(map[string]bool, len(targets))
	removed := 0
	for _, u := range targets {
		if seen[u] {
			continue
		}
		seen[u] = true

		if err := deps.Ledger.Delete(u); err != nil {
			if siteport.ErrorCode(err) == siteport.ENOTFOUND {
				fmt.Fprintf(deps.Stderr, "warning: %s\n", siteport.ErrorMessage(err))
				continue
			}
			return err
		}
		removed++
	}

	if removed > 0 {
		if err := deps.Ledger.Persist(deps.Ctx); err != nil {
			return fmt.Errorf("persisting ledger: %w", err)
		}
	}

	fmt.Fprintf(deps.Stdout, "Reset %d URLs\n", removed)
	return nil
}
