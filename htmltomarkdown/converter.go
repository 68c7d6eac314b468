// Package htmltomarkdown implements siteport.Converter with html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/siteport"
	"github.com/microcosm-cc/bluemonday"
)

// Ensure Converter implements siteport.Converter at compile time.
var _ siteport.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown with ATX
// headings, fenced code blocks and "-" bullets.
type Converter struct {
	conv   *converter.Converter
	policy *bluemonday.Policy
}

// Option configures a Converter.
type Option func(*Converter)

// WithSanitizer runs the HTML through bluemonday's UGC policy before
// conversion, dropping event handlers, inline scripts and unsafe URLs that
// survived extraction.
func WithSanitizer() Option {
	return func(c *Converter) {
		c.policy = bluemonday.UGCPolicy()
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithCodeBlockFence("```"),
				commonmark.WithBulletListMarker("-"),
			),
			table.NewTablePlugin(),
		),
	)
	c := &Converter{conv: conv}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML content into trimmed Markdown.
// Blank input converts to an empty string.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	if c.policy != nil {
		html = c.policy.Sanitize(html)
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", siteport.Errorf(siteport.EINTERNAL, "converting to markdown: %v", err)
	}

	return strings.TrimSpace(result), nil
}
