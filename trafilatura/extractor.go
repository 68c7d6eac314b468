// Package trafilatura implements a fallback siteport.Extractor with
// go-trafilatura, for pages whose markup has no recognizable content root.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/siteport"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ siteport.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, siteport.Errorf(siteport.ENOCONTENT, "trafilatura: %v", err)
	}
	if result.ContentNode == nil {
		return nil, siteport.Errorf(siteport.EEMPTY, "trafilatura found no content")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.ContentText) == "" {
		return nil, siteport.Errorf(siteport.EEMPTY, "trafilatura found no content")
	}

	return &siteport.ExtractedContent{
		Title: strings.TrimSpace(result.Metadata.Title),
		HTML:  contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
