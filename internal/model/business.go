package model

import "time"

// EmailSource records where a business email came from.
type EmailSource string

const (
	EmailSourceNone     EmailSource = "none"
	EmailSourceScraped  EmailSource = "scraped"
	EmailSourceVerified EmailSource = "verified-lookup"
)

// BusinessRecord is a single business produced by a search run. It is built
// from a place search summary, mutated in place by the enrichment steps, and
// treated as immutable once the pipeline returns it.
type BusinessRecord struct {
	Name                       string      `json:"name"`
	Category                   string      `json:"category,omitempty"`
	Phone                      string      `json:"phone,omitempty"`
	Email                      string      `json:"email,omitempty"`
	EmailSource                EmailSource `json:"email_source"`
	ContactRole                string      `json:"contact_role,omitempty"`
	Website                    string      `json:"website,omitempty"`
	Domain                     string      `json:"domain,omitempty"`
	Address                    string      `json:"address,omitempty"`
	ExternalURL                string      `json:"external_url,omitempty"`
	Rating                     float64     `json:"rating,omitempty"`
	ReviewCount                int         `json:"review_count"`
	LikelyDelivery             bool        `json:"likely_delivery"`
	PotentialWorldwideShipping bool        `json:"potential_worldwide_shipping"`
	IsLogistics                bool        `json:"is_logistics"`

	// SourcePlaceID is the provider's place identifier, used to collapse
	// results from overlapping queries. It is not the persisted identity;
	// the store upserts on (name, address).
	SourcePlaceID string `json:"source_place_id,omitempty"`
}

// HasEmail reports whether enrichment produced an email for this record.
func (b *BusinessRecord) HasEmail() bool {
	return b.Email != ""
}

// LeadRow is a persisted business record with its storage metadata.
type LeadRow struct {
	ID        int64          `json:"id"`
	Business  BusinessRecord `json:"business"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// LeadStats holds aggregate counts over the persisted leads table.
type LeadStats struct {
	Total          int `json:"total"`
	WithEmail      int `json:"with_email"`
	LikelyDelivery int `json:"likely_delivery"`
	Worldwide      int `json:"worldwide"`
}

// SearchRun is an audit row describing one pipeline run that was saved.
type SearchRun struct {
	ID          string    `json:"id"`
	Term        string    `json:"term,omitempty"`
	Location    string    `json:"location"`
	Facets      []string  `json:"facets,omitempty"`
	QueryCount  int       `json:"query_count"`
	ResultCount int       `json:"result_count"`
	EmailCount  int       `json:"email_count"`
	CreatedAt   time.Time `json:"created_at"`
}
