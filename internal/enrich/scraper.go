package enrich

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// contactPaths are the likely contact pages tried after the root page.
var contactPaths = []string{"/contact", "/contact-us", "/about", "/support"}

var emailRe = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// maxPageBytes bounds how much of a page body is read when hunting for an
// email-shaped string.
const maxPageBytes = 512 * 1024

// SiteScraper finds an email address by fetching a website's own pages.
type SiteScraper interface {
	FindEmail(ctx context.Context, website string) string
}

// HTTPScraper fetches the site root plus a small fixed set of contact paths
// and returns the first email-shaped substring found. Free, no API calls.
type HTTPScraper struct {
	client *http.Client
}

// NewHTTPScraper creates an HTTPScraper with the given per-page timeout.
func NewHTTPScraper(timeout time.Duration) *HTTPScraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPScraper{
		client: &http.Client{Timeout: timeout},
	}
}

// FindEmail scans the root page and contact paths in order, returning the
// first match. Every failure degrades to "", never an error.
func (s *HTTPScraper) FindEmail(ctx context.Context, website string) string {
	base := strings.TrimRight(website, "/")
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	pages := make([]string, 0, 1+len(contactPaths))
	pages = append(pages, base)
	for _, p := range contactPaths {
		pages = append(pages, base+p)
	}

	for _, pageURL := range pages {
		if email := s.scanPage(ctx, pageURL); email != "" {
			return email
		}
	}
	return ""
}

func (s *HTTPScraper) scanPage(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; LeadgenBot/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		zap.L().Debug("enrich: page fetch failed",
			zap.String("url", pageURL),
			zap.Error(err),
		)
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return ""
	}

	match := emailRe.Find(body)
	if match == nil {
		return ""
	}
	return strings.ToLower(string(match))
}
