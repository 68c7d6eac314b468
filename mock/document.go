package mock

import (
	"context"

	"github.com/fwojciec/siteport"
)

var (
	_ siteport.DocumentWriter = (*DocumentWriter)(nil)
	_ siteport.ContentService = (*ContentService)(nil)
)

// DocumentWriter is a mock implementation of siteport.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentFn func(ctx context.Context, doc *siteport.Document) (string, error)
}

func (w *DocumentWriter) WriteDocument(ctx context.Context, doc *siteport.Document) (string, error) {
	return w.WriteDocumentFn(ctx, doc)
}

// ContentService is a mock implementation of siteport.ContentService.
type ContentService struct {
	FindDocumentsFn      func(ctx context.Context, collection siteport.Collection) ([]*siteport.Document, error)
	FindDocumentBySlugFn func(ctx context.Context, collection siteport.Collection, slug string) (*siteport.Document, error)
}

func (s *ContentService) FindDocuments(ctx context.Context, collection siteport.Collection) ([]*siteport.Document, error) {
	return s.FindDocumentsFn(ctx, collection)
}

func (s *ContentService) FindDocumentBySlug(ctx context.Context, collection siteport.Collection, slug string) (*siteport.Document, error) {
	return s.FindDocumentBySlugFn(ctx, collection, slug)
}
