// Package goquery implements siteport.Extractor with CSS selectors over the
// rendered page HTML.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteport"
)

var _ siteport.Extractor = (*Extractor)(nil)

// DefaultContentSelectors are probed in order; the first match is the
// content root.
var DefaultContentSelectors = []string{"main", "article", ".content", "#content"}

// DefaultNoiseSelector matches elements stripped from the content root.
const DefaultNoiseSelector = "nav, footer, aside, script, style, .breadcrumb, .sidebar"

// Extractor picks the main-content region of a page and strips page chrome.
type Extractor struct {
	selectors []string
	noise     string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithContentSelectors replaces the content selectors probed in priority order.
func WithContentSelectors(selectors ...string) Option {
	return func(e *Extractor) {
		e.selectors = selectors
	}
}

// WithNoiseSelector replaces the selector for elements removed from the content.
func WithNoiseSelector(selector string) Option {
	return func(e *Extractor) {
		e.noise = selector
	}
}

// NewExtractor creates an Extractor with the default selectors.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		selectors: DefaultContentSelectors,
		noise:     DefaultNoiseSelector,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the cleaned inner HTML of the first matching content root.
// The title comes from the page's first h1, falling back to <title>; that h1
// is dropped from the content so it is not repeated below the frontmatter.
func (e *Extractor) Extract(html string) (*siteport.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, siteport.Errorf(siteport.EINVALID, "failed to parse HTML: %v", err)
	}

	root := e.contentRoot(doc)
	if root == nil {
		return nil, siteport.Errorf(siteport.ENOCONTENT, "main content selector not found")
	}

	clone := root.Clone()
	if clone.Length() == 0 {
		return nil, siteport.Errorf(siteport.EEMPTY, "main content is empty")
	}
	if e.noise != "" {
		clone.Find(e.noise).Remove()
	}
	clone.Find("h1").First().Remove()

	inner, err := clone.Html()
	if err != nil {
		return nil, siteport.Errorf(siteport.EINTERNAL, "failed to render content: %v", err)
	}

	return &siteport.ExtractedContent{
		Title: title(doc),
		HTML:  strings.TrimSpace(inner),
	}, nil
}

func (e *Extractor) contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, sel := range e.selectors {
		if match := doc.Find(sel).First(); match.Length() > 0 {
			return match
		}
	}
	return nil
}

// title returns the first h1's text or, when that is blank, the document title.
func title(doc *goquery.Document) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}
