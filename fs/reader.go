package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/siteport"
	"gopkg.in/yaml.v3"
)

// Ensure ContentService implements siteport.ContentService at compile time.
var _ siteport.ContentService = (*ContentService)(nil)

// ContentService reads documents written by Writer.
type ContentService struct {
	baseDir string
}

// NewContentService creates a ContentService reading from baseDir.
func NewContentService(baseDir string) *ContentService {
	return &ContentService{baseDir: baseDir}
}

// FindDocuments returns every document of a collection sorted by slug.
// A missing collection directory yields no documents.
func (s *ContentService) FindDocuments(ctx context.Context, collection siteport.Collection) ([]*siteport.Document, error) {
	if !collection.Valid() {
		return nil, siteport.Errorf(siteport.EINVALID, "invalid collection %q", collection)
	}

	dir := filepath.Join(s.baseDir, string(collection))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []*siteport.Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	docs := []*siteport.Document{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		doc, err := readDocument(filepath.Join(dir, entry.Name()), collection)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Slug < docs[j].Slug })
	return docs, nil
}

// FindDocumentBySlug retrieves a document by its frontmatter slug.
func (s *ContentService) FindDocumentBySlug(ctx context.Context, collection siteport.Collection, slug string) (*siteport.Document, error) {
	docs, err := s.FindDocuments(ctx, collection)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc.Slug == slug {
			return doc, nil
		}
	}
	return nil, siteport.Errorf(siteport.ENOTFOUND, "document %s/%s not found", collection, slug)
}

// readDocument parses one markdown file. Missing title or slug fall back to
// the file name.
func readDocument(path string, collection siteport.Collection) (*siteport.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fm, body, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), ".md")
	doc := &siteport.Document{
		Title:      fm.Title,
		Slug:       fm.Slug,
		SourceURL:  fm.SourceURL,
		Collection: collection,
		Body:       body,
	}
	if doc.Title == "" {
		doc.Title = name
	}
	if doc.Slug == "" {
		doc.Slug = name
	}
	if fm.ImportedAt != "" {
		if t, err := time.Parse(time.RFC3339, fm.ImportedAt); err == nil {
			doc.ImportedAt = t
		}
	}
	return doc, nil
}

// parseDocument splits a markdown file into frontmatter and body.
// Files without frontmatter are returned as body only.
func parseDocument(data []byte) (frontmatter, string, error) {
	var fm frontmatter

	const delim = "---\n"
	if !bytes.HasPrefix(data, []byte(delim)) {
		return fm, string(data), nil
	}

	rest := data[len(delim):]
	end := bytes.Index(rest, []byte("\n"+delim))
	if end < 0 {
		return fm, "", siteport.Errorf(siteport.EINVALID, "unterminated frontmatter")
	}

	if err := yaml.Unmarshal(rest[:end+1], &fm); err != nil {
		return fm, "", siteport.Errorf(siteport.EINVALID, "invalid frontmatter: %v", err)
	}

	body := string(rest[end+1+len(delim):])
	return fm, strings.TrimSuffix(body, "\n"), nil
}
