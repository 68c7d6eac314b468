package siteport

import (
	"context"
	"time"
)

// Document is a migrated page: fixed metadata plus a markdown body.
type Document struct {
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	SourceURL  string     `json:"sourceUrl"`
	ImportedAt time.Time  `json:"importedAt"`
	Collection Collection `json:"collection"`
	Body       string     `json:"body"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Slug == "" {
		return Errorf(EINVALID, "document slug required")
	}
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	if !d.Collection.Valid() {
		return Errorf(EINVALID, "invalid document collection %q", d.Collection)
	}
	return nil
}

// DocumentWriter writes documents to the content store.
type DocumentWriter interface {
	// WriteDocument stores doc under its collection and slug, replacing
	// any existing document, and returns the written path.
	WriteDocument(ctx context.Context, doc *Document) (string, error)
}

// ContentService reads documents back from the content store.
type ContentService interface {
	// FindDocuments returns the documents of a collection sorted by slug.
	FindDocuments(ctx context.Context, collection Collection) ([]*Document, error)

	// FindDocumentBySlug retrieves a document.
	// Returns ENOTFOUND if it does not exist.
	FindDocumentBySlug(ctx context.Context, collection Collection, slug string) (*Document, error)
}
