// Package fs provides file-based storage: the content store, the JSON
// ledger, the audit logs and diagnostic artifacts.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/siteport"
	"gopkg.in/yaml.v3"
)

// TimeFormat is the layout of imported_at values in frontmatter.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// frontmatter fixes the metadata keys and their order.
type frontmatter struct {
	Title      string `yaml:"title"`
	Slug       string `yaml:"slug"`
	SourceURL  string `yaml:"source_url"`
	ImportedAt string `yaml:"imported_at"`
}

// FormatDocument formats a document as YAML frontmatter followed by its body.
func FormatDocument(doc *siteport.Document) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	err := enc.Encode(frontmatter{
		Title:      doc.Title,
		Slug:       doc.Slug,
		SourceURL:  doc.SourceURL,
		ImportedAt: doc.ImportedAt.UTC().Format(TimeFormat),
	})
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(buf.Bytes())
	b.WriteString("---\n")
	b.WriteString(doc.Body)
	b.WriteString("\n")
	return b.String(), nil
}

// DocumentPath returns the relative path of a document in the content store.
func DocumentPath(collection siteport.Collection, slug string) (string, error) {
	if !collection.Valid() {
		return "", siteport.Errorf(siteport.EINVALID, "invalid collection %q", collection)
	}
	if err := checkSlug(slug); err != nil {
		return "", err
	}
	return filepath.Join(string(collection), slug+".md"), nil
}

// checkSlug rejects slugs that could escape their directory.
func checkSlug(slug string) error {
	if slug == "" || slug == "." || slug == ".." ||
		strings.ContainsAny(slug, `/\`) || strings.Contains(slug, "..") {
		return siteport.Errorf(siteport.EINVALID, "invalid slug %q: path traversal", slug)
	}
	return nil
}

// Ensure Writer implements siteport.DocumentWriter at compile time.
var _ siteport.DocumentWriter = (*Writer)(nil)

// Writer writes documents as markdown files under a content directory,
// one subdirectory per collection.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteDocument writes doc to {collection}/{slug}.md, replacing any
// existing file atomically.
func (w *Writer) WriteDocument(ctx context.Context, doc *siteport.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := doc.Validate(); err != nil {
		return "", err
	}

	relPath, err := DocumentPath(doc.Collection, doc.Slug)
	if err != nil {
		return "", err
	}
	if doc.ImportedAt.IsZero() {
		doc.ImportedAt = time.Now()
	}

	content, err := FormatDocument(doc)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.baseDir, relPath)
	if err := writeFileAtomic(fullPath, []byte(content)); err != nil {
		return "", err
	}
	return fullPath, nil
}

// EnsureDirs creates the collection directories under the content directory.
func (w *Writer) EnsureDirs() error {
	for _, c := range siteport.Collections {
		if err := os.MkdirAll(filepath.Join(w.baseDir, string(c)), 0755); err != nil {
			return err
		}
	}
	return nil
}
