package mock

import "github.com/fwojciec/siteport"

var _ siteport.Converter = (*Converter)(nil)

// Converter is a mock implementation of siteport.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
