package migrate

import "github.com/fwojciec/siteport"

var _ siteport.Extractor = (ChainExtractor)(nil)

// ChainExtractor tries extractors in order. The next extractor is consulted
// only when the previous one found no content (ENOCONTENT or EEMPTY); any
// other error is returned immediately.
type ChainExtractor []siteport.Extractor

// Extract returns the first successful extraction, or the last
// content-not-found error when every extractor fails.
func (c ChainExtractor) Extract(html string) (*siteport.ExtractedContent, error) {
	var err error = siteport.Errorf(siteport.ENOCONTENT, "main content selector not found")
	for _, e := range c {
		var content *siteport.ExtractedContent
		content, err = e.Extract(html)
		if err == nil {
			return content, nil
		}
		switch siteport.ErrorCode(err) {
		case siteport.ENOCONTENT, siteport.EEMPTY:
			continue
		}
		return nil, err
	}
	return nil, err
}
