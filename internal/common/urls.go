package common

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveURL resolves an href found on a page against the page's base URL.
// Already-absolute hrefs pass through unchanged.
func ResolveURL(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// NormalizeURL produces the canonical form used as a deduplication key:
// lowercased host, no fragment, no trailing slash on the path.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String()
}
