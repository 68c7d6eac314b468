package mock

import "github.com/fwojciec/siteport"

var _ siteport.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of siteport.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*siteport.ExtractedContent, error)
}

func (e *Extractor) Extract(html string) (*siteport.ExtractedContent, error) {
	return e.ExtractFn(html)
}
