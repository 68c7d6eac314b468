// Package readability implements a fallback siteport.Extractor with
// go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/siteport"
	"github.com/go-shiori/go-readability"
)

var _ siteport.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*siteport.ExtractedContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, siteport.Errorf(siteport.ENOCONTENT, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, siteport.Errorf(siteport.ENOCONTENT, "readability: %v", err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, siteport.Errorf(siteport.EEMPTY, "readability found no content")
	}

	return &siteport.ExtractedContent{
		Title: strings.TrimSpace(article.Title),
		HTML:  article.Content,
	}, nil
}
