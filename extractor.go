package siteport

// ExtractedContent holds the cleaned main content of a rendered page.
// It is never persisted directly, only through the document derived from it.
type ExtractedContent struct {
	// Title is the page's top-level heading, or the document title when the
	// page has no heading.
	Title string

	// HTML is the cleaned main-content fragment with navigation, footers,
	// sidebars, scripts and the duplicate title heading removed.
	HTML string
}

// Extractor locates and cleans the main-content region of a page.
type Extractor interface {
	// Extract processes rendered HTML and returns the main content.
	// Returns ENOCONTENT when no content region exists and EEMPTY when no
	// extraction is produced. A region without text is a valid, empty body.
	Extract(html string) (*ExtractedContent, error)
}
