package siteport

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an extracted HTML fragment into Markdown.
	// It has no network or filesystem access. Empty input yields empty
	// output.
	Convert(html string) (string, error)
}
