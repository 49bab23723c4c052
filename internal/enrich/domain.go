package enrich

import "strings"

// DomainFromURL derives a bare domain from a website URL: scheme stripped,
// leading "www." stripped, path and query truncated. Returns "" when no
// domain remains.
func DomainFromURL(rawURL string) string {
	domain := strings.ToLower(strings.TrimSpace(rawURL))
	if domain == "" {
		return ""
	}

	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "www.")

	if i := strings.IndexAny(domain, "/?"); i >= 0 {
		domain = domain[:i]
	}
	return domain
}
