package main

import (
	"fmt"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/migrate"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	collections := siteport.Collections
	if c.Collection != "" {
		col := siteport.Collection(c.Collection)
		if !col.Valid() {
			return siteport.Errorf(siteport.EINVALID, "unknown collection %q (want pages or posts)", c.Collection)
		}
		collections = []siteport.Collection{col}
	}

	total := 0
	for _, col := range collections {
		docs, err := deps.Content.FindDocuments(deps.Ctx, col)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			title := doc.Title
			if title == "" {
				title = doc.SourceURL
			}
			fmt.Fprintf(deps.Stdout, "%s  %s/%s  %s\n", migrate.ComputeHash(doc.Body), col, doc.Slug, title)
		}
		total += len(docs)
	}

	if total == 0 {
		fmt.Fprintln(deps.Stdout, "No documents found. Use 'siteport scrape' to import some.")
	}
	return nil
}
