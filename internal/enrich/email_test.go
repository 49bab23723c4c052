package enrich

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	huntermocks "github.com/sells-group/leadgen-cli/pkg/hunter/mocks"
)

// stubScraper returns a fixed email and counts calls.
type stubScraper struct {
	email string
	calls int
}

func (s *stubScraper) FindEmail(_ context.Context, _ string) string {
	s.calls++
	return s.email
}

func TestEnrichVerifiedLookupWins(t *testing.T) {
	lookup := &huntermocks.MockClient{}
	lookup.On("DomainSearch", mock.Anything, "acme.com").Return([]hunter.Contact{
		{Email: "jane@acme.com", Position: "Operations Manager"},
		{Email: "info@acme.com"},
	}, nil).Once()
	scraper := &stubScraper{email: "scraped@acme.com"}

	e := NewEmailEnricher(lookup, scraper)
	res := e.Enrich(context.Background(), "https://www.acme.com/contact")

	assert.Equal(t, "jane@acme.com", res.Email)
	assert.Equal(t, "Operations Manager", res.ContactRole)
	assert.Equal(t, model.EmailSourceVerified, res.Source)
	// Lookup succeeded, so the scraper is never consulted.
	assert.Equal(t, 0, scraper.calls)
	lookup.AssertExpectations(t)
}

func TestEnrichFallsBackToScraper(t *testing.T) {
	lookup := &huntermocks.MockClient{}
	lookup.On("DomainSearch", mock.Anything, "acme.com").Return(nil, nil).Once()
	scraper := &stubScraper{email: "hello@acme.com"}

	e := NewEmailEnricher(lookup, scraper)
	res := e.Enrich(context.Background(), "acme.com")

	assert.Equal(t, "hello@acme.com", res.Email)
	assert.Equal(t, model.EmailSourceScraped, res.Source)
	assert.Empty(t, res.ContactRole)
	assert.Equal(t, 1, scraper.calls)
}

func TestEnrichLookupErrorFallsThrough(t *testing.T) {
	lookup := &huntermocks.MockClient{}
	lookup.On("DomainSearch", mock.Anything, "acme.com").Return(nil, eris.New("hunter: status 500")).Once()
	scraper := &stubScraper{email: "hello@acme.com"}

	e := NewEmailEnricher(lookup, scraper)
	res := e.Enrich(context.Background(), "acme.com")

	assert.Equal(t, "hello@acme.com", res.Email)
	assert.Equal(t, model.EmailSourceScraped, res.Source)
	assert.False(t, res.RateLimited)
}

func TestEnrichRateLimitedStillScrapes(t *testing.T) {
	lookup := &huntermocks.MockClient{}
	lookup.On("DomainSearch", mock.Anything, "acme.com").Return(nil, hunter.ErrRateLimited).Once()
	scraper := &stubScraper{email: "hello@acme.com"}

	e := NewEmailEnricher(lookup, scraper)
	res := e.Enrich(context.Background(), "acme.com")

	assert.Equal(t, "hello@acme.com", res.Email)
	assert.Equal(t, model.EmailSourceScraped, res.Source)
	assert.True(t, res.RateLimited)
}

func TestEnrichNothingFound(t *testing.T) {
	lookup := &huntermocks.MockClient{}
	lookup.On("DomainSearch", mock.Anything, "acme.com").Return(nil, nil).Once()
	scraper := &stubScraper{}

	e := NewEmailEnricher(lookup, scraper)
	res := e.Enrich(context.Background(), "acme.com")

	assert.Empty(t, res.Email)
	assert.Equal(t, model.EmailSourceNone, res.Source)
}

func TestEnrichEmptyWebsiteIsNoOp(t *testing.T) {
	lookup := &huntermocks.MockClient{}
	scraper := &stubScraper{email: "never@called.com"}

	e := NewEmailEnricher(lookup, scraper)
	res := e.Enrich(context.Background(), "")

	assert.Empty(t, res.Email)
	assert.Equal(t, model.EmailSourceNone, res.Source)
	assert.Equal(t, 0, scraper.calls)
	lookup.AssertNotCalled(t, "DomainSearch")
}

func TestEnrichNilCollaborators(t *testing.T) {
	e := NewEmailEnricher(nil, nil)
	res := e.Enrich(context.Background(), "acme.com")

	assert.Empty(t, res.Email)
	assert.Equal(t, model.EmailSourceNone, res.Source)
}
