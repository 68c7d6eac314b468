package siteport

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Collection is the output category a URL is classified into.
type Collection string

// Collection constants.
const (
	CollectionPages Collection = "pages"
	CollectionPosts Collection = "posts"
)

// Collections lists every collection in a stable order.
var Collections = []Collection{CollectionPages, CollectionPosts}

// Valid reports whether c is a known collection.
func (c Collection) Valid() bool {
	return c == CollectionPages || c == CollectionPosts
}

// postPathPattern matches blog-like path segments.
var postPathPattern = regexp.MustCompile(`/(blog|column|columns|post|news)/`)

// Classify returns CollectionPosts for URLs whose path contains a blog-like
// segment and CollectionPages for everything else, including URLs that
// cannot be parsed.
func Classify(rawURL string) Collection {
	u, err := url.Parse(rawURL)
	if err != nil {
		return CollectionPages
	}
	if postPathPattern.MatchString(u.EscapedPath()) {
		return CollectionPosts
	}
	return CollectionPages
}

// SlugFromURL derives a stable, filesystem-safe identifier from the URL path.
//
// The root path maps to "index". Other paths have their segments joined with
// "-" and reduced to lowercase ASCII letters, digits and single hyphens.
// Non-ASCII characters are kept in their percent-encoded form (minus the
// percent signs) so distinct paths rarely collide. Collisions are not
// detected.
func SlugFromURL(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.EscapedPath()
	}

	path = strings.TrimSuffix(path, "/")
	if path == "" || path == "/" {
		return "index"
	}

	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	slug := normalizeSlug(strings.Join(segments, "-"))
	if slug == "" {
		// Paths made only of punctuation still need a deterministic name.
		return fmt.Sprintf("page-%x", xxhash.Sum64String(path))
	}
	return slug
}

// normalizeSlug lowercases s, keeps ASCII letters and digits, turns hyphens
// and whitespace into single separators and drops everything else.
func normalizeSlug(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == '-' || r == ' ' || r == '\t' || r == '\n':
			pendingSep = true
		}
	}
	return b.String()
}
