// Package pipeline orchestrates a search run: fan out place queries, merge
// results by place id, classify, and enrich.
package pipeline

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/classify"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/query"
	"github.com/sells-group/leadgen-cli/pkg/geocode"
	"github.com/sells-group/leadgen-cli/pkg/places"
)

// Enricher is the email enrichment step's contract.
type Enricher interface {
	Enrich(ctx context.Context, website string) enrich.Result
}

// Options parameterizes one run.
type Options struct {
	Term         string
	Facets       []string
	Location     string
	MaxResults   int // per-query cap, 10-100
	RadiusMeters int
	WithDetails  bool
	WithEmails   bool
}

// QueryError records a failed query during the search fan-out. The failed
// query is skipped and the remaining queries still merge.
type QueryError struct {
	Query string `json:"query"`
	Err   string `json:"error"`
}

// Result is the outcome of one run.
type Result struct {
	Records     []model.BusinessRecord `json:"records"`
	Queries     []string               `json:"queries"`
	QueryErrors []QueryError           `json:"query_errors,omitempty"`

	// Counters for the summary view.
	DeliveryCount     int `json:"delivery_count"`
	WorldwideCount    int `json:"worldwide_count"`
	LogisticsCount    int `json:"logistics_count"`
	EmailCount        int `json:"email_count"`
	EmailsRateLimited int `json:"emails_rate_limited,omitempty"`
}

// Pipeline runs the fetch-merge-classify-enrich sequence. All collaborators
// are injected; the geocoder and enricher may be nil, disabling their steps.
type Pipeline struct {
	builder    *query.Builder
	geocoder   geocode.Client
	searcher   places.Client
	classifier classify.Flagger
	enricher   Enricher
}

// New creates a Pipeline.
func New(builder *query.Builder, geocoder geocode.Client, searcher places.Client, classifier classify.Flagger, enricher Enricher) *Pipeline {
	return &Pipeline{
		builder:    builder,
		geocoder:   geocoder,
		searcher:   searcher,
		classifier: classifier,
		enricher:   enricher,
	}
}

// Run executes one search. Calls are strictly sequential: one geocode call,
// one search call per query, then at most one details call and one email
// lookup per unique place id.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Location == "" {
		return nil, eris.New("pipeline: location is required")
	}

	bias := p.resolveBias(ctx, opts.Location)
	queries := p.builder.Build(opts.Term, opts.Facets, opts.Location)
	hint := query.FacetHint(opts.Facets)

	result := &Result{Queries: queries}

	// Search fan-out with first-seen-wins merge. Later occurrences of a
	// place id are dropped whole, never merged field by field.
	seen := make(map[string]struct{})
	var records []*model.BusinessRecord

	for _, q := range queries {
		summaries, err := p.searcher.TextSearch(ctx, q, places.SearchOptions{
			Bias:         bias,
			RadiusMeters: opts.RadiusMeters,
			MaxResults:   opts.MaxResults,
		})
		if err != nil {
			zap.L().Warn("pipeline: query failed, skipping",
				zap.String("query", q),
				zap.Error(err),
			)
			result.QueryErrors = append(result.QueryErrors, QueryError{Query: q, Err: err.Error()})
			continue
		}

		for _, s := range summaries {
			if s.PlaceID == "" {
				continue
			}
			if _, dup := seen[s.PlaceID]; dup {
				continue
			}
			seen[s.PlaceID] = struct{}{}

			rec := &model.BusinessRecord{
				Name:          s.Name,
				Category:      strings.Join(s.Types, ", "),
				Address:       s.Address,
				ExternalURL:   places.ExternalURL(s.PlaceID),
				Rating:        s.Rating,
				ReviewCount:   s.ReviewCount,
				EmailSource:   model.EmailSourceNone,
				SourcePlaceID: s.PlaceID,
			}

			flags := p.classifier.Classify(s.Name, s.Types, hint)
			applyFlags(rec, flags)

			records = append(records, rec)
		}
	}

	zap.L().Info("pipeline: search fan-out complete",
		zap.Int("queries", len(queries)),
		zap.Int("failed_queries", len(result.QueryErrors)),
		zap.Int("unique_places", len(records)),
	)

	if opts.WithDetails {
		p.enrichDetails(ctx, records, hint)
	}

	for _, rec := range records {
		rec.Domain = enrich.DomainFromURL(rec.Website)
	}

	if opts.WithEmails && p.enricher != nil {
		p.enrichEmails(ctx, records, result)
	}

	result.Records = make([]model.BusinessRecord, len(records))
	for i, rec := range records {
		result.Records[i] = *rec
		if rec.LikelyDelivery {
			result.DeliveryCount++
		}
		if rec.PotentialWorldwideShipping {
			result.WorldwideCount++
		}
		if rec.IsLogistics {
			result.LogisticsCount++
		}
		if rec.HasEmail() {
			result.EmailCount++
		}
	}

	return result, nil
}

// resolveBias geocodes the location once per run. Any failure degrades to no
// bias and never aborts the run.
func (p *Pipeline) resolveBias(ctx context.Context, location string) *places.Bias {
	if p.geocoder == nil {
		return nil
	}
	pt, err := p.geocoder.Geocode(ctx, location)
	if err != nil {
		zap.L().Warn("pipeline: geocoding failed, searching without bias",
			zap.String("location", location),
			zap.Error(err),
		)
		return nil
	}
	return &places.Bias{Latitude: pt.Latitude, Longitude: pt.Longitude}
}

// enrichDetails fetches details once per record, overwrites phone/website/
// address with non-empty values, and re-classifies against the union of
// summary and detail tags. Detail failures are per-record and non-fatal.
func (p *Pipeline) enrichDetails(ctx context.Context, records []*model.BusinessRecord, hint string) {
	for _, rec := range records {
		d, err := p.searcher.Details(ctx, rec.SourcePlaceID)
		if err != nil {
			zap.L().Debug("pipeline: details lookup failed",
				zap.String("place_id", rec.SourcePlaceID),
				zap.String("name", rec.Name),
				zap.Error(err),
			)
			continue
		}

		if phone := d.BestPhone(); phone != "" {
			rec.Phone = phone
		}
		if d.Website != "" {
			rec.Website = d.Website
		}
		if d.Address != "" {
			rec.Address = d.Address
		}

		tags := unionTags(strings.Split(rec.Category, ", "), d.Types)
		flags := p.classifier.Classify(rec.Name, tags, hint)
		applyFlags(rec, flags)
	}
}

// enrichEmails invokes the email enricher for each record still lacking an
// email, at most once per record.
func (p *Pipeline) enrichEmails(ctx context.Context, records []*model.BusinessRecord, result *Result) {
	for _, rec := range records {
		if rec.HasEmail() || rec.Website == "" {
			continue
		}
		r := p.enricher.Enrich(ctx, rec.Website)
		if r.RateLimited {
			result.EmailsRateLimited++
		}
		if r.Email == "" {
			continue
		}
		rec.Email = r.Email
		rec.EmailSource = r.Source
		rec.ContactRole = r.ContactRole
	}

	if result.EmailsRateLimited > 0 {
		zap.L().Warn("pipeline: email enrichment degraded by rate limiting",
			zap.Int("records_affected", result.EmailsRateLimited),
		)
	}
}

func applyFlags(rec *model.BusinessRecord, f classify.Flags) {
	rec.LikelyDelivery = f.LikelyDelivery
	rec.PotentialWorldwideShipping = f.PotentialWorldwideShipping
	rec.IsLogistics = f.IsLogistics
}

func unionTags(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, t := range list {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
