package siteport

import (
	"context"
	"regexp"
)

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the page URLs listed by a sitemap, in sitemap
	// order, deduplicated and filtered. sitemapURL may point directly at a
	// sitemap document or at a site root, in which case robots.txt and then
	// /sitemap.xml are consulted. Sitemap indexes are resolved recursively.
	//
	// If filter is nil, all URLs are returned. Failures are EDISCOVERY.
	DiscoverURLs(ctx context.Context, sitemapURL string, filter *URLFilter) ([]string, error)
}

// DefaultExcludePatterns drop URLs that never hold article content:
// query-string variants, tag and search listings, admin pages, feeds,
// fragments and search parameters.
var DefaultExcludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\?.+`),
	regexp.MustCompile(`/tag/`),
	regexp.MustCompile(`/search/`),
	regexp.MustCompile(`/wp-admin/`),
	regexp.MustCompile(`/feed/?$`),
	regexp.MustCompile(`/#`),
	regexp.MustCompile(`/?s=`),
}

// DefaultURLFilter returns a filter that applies DefaultExcludePatterns.
func DefaultURLFilter() *URLFilter {
	return &URLFilter{Exclude: append([]*regexp.Regexp(nil), DefaultExcludePatterns...)}
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	// If include patterns exist, URL must match at least one
	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}
