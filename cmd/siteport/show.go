package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/fs"
	"github.com/fwojciec/siteport/migrate"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	col := siteport.Collection(c.Collection)
	if !col.Valid() {
		return siteport.Errorf(siteport.EINVALID, "unknown collection %q (want pages or posts)", c.Collection)
	}

	doc, err := deps.Content.FindDocumentBySlug(deps.Ctx, col, c.Slug)
	if err != nil {
		return err
	}

	out := deps.Stdout
	fmt.Fprintf(out, "Title:    %s\n", doc.Title)
	fmt.Fprintf(out, "Source:   %s\n", doc.SourceURL)
	fmt.Fprintf(out, "Imported: %s\n", doc.ImportedAt.UTC().Format(fs.TimeFormat))
	fmt.Fprintf(out, "Hash:     %s\n", migrate.ComputeHash(doc.Body))

	if headings := siteport.Outline(doc.Body); len(headings) > 0 {
		top := headings[0].Level
		for _, h := range headings {
			top = min(top, h.Level)
		}
		fmt.Fprintln(out, "Outline:")
		for _, h := range headings {
			fmt.Fprintf(out, "  %s- %s (#%s)\n", strings.Repeat("  ", h.Level-top), h.Text, h.Anchor)
		}
	}

	if c.Body {
		fmt.Fprintf(out, "\n%s\n", doc.Body)
	}
	return nil
}
