// Package enrich finds contact emails for businesses, preferring a verified
// lookup provider and falling back to scraping the business's own website.
package enrich

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
)

// Result is the outcome of one enrichment attempt.
type Result struct {
	Email       string
	ContactRole string
	Source      model.EmailSource
	RateLimited bool // the verified lookup answered 429
}

// EmailEnricher resolves an email for a website in strict fallback order:
// verified lookup first, page scraping second. Every failure mode degrades to
// "no email found"; nothing propagates past this boundary.
type EmailEnricher struct {
	lookup  hunter.Client
	scraper SiteScraper
}

// NewEmailEnricher creates an enricher. Either collaborator may be nil, which
// disables that step.
func NewEmailEnricher(lookup hunter.Client, scraper SiteScraper) *EmailEnricher {
	return &EmailEnricher{lookup: lookup, scraper: scraper}
}

// Enrich attempts to find an email for the given website. An empty website is
// a no-op returning Source == none.
func (e *EmailEnricher) Enrich(ctx context.Context, website string) Result {
	none := Result{Source: model.EmailSourceNone}
	if website == "" {
		return none
	}

	domain := DomainFromURL(website)
	if domain == "" {
		return none
	}

	rateLimited := false
	if e.lookup != nil {
		contacts, err := e.lookup.DomainSearch(ctx, domain)
		switch {
		case eris.Is(err, hunter.ErrRateLimited):
			rateLimited = true
			zap.L().Warn("enrich: verified lookup rate limited",
				zap.String("domain", domain),
			)
		case err != nil:
			zap.L().Debug("enrich: verified lookup failed",
				zap.String("domain", domain),
				zap.Error(err),
			)
		case len(contacts) > 0:
			return Result{
				Email:       contacts[0].Email,
				ContactRole: contacts[0].Position,
				Source:      model.EmailSourceVerified,
			}
		}
	}

	if e.scraper != nil {
		if email := e.scraper.FindEmail(ctx, website); email != "" {
			return Result{
				Email:       email,
				Source:      model.EmailSourceScraped,
				RateLimited: rateLimited,
			}
		}
	}

	none.RateLimited = rateLimited
	return none
}
