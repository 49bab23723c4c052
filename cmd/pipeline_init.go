package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/classify"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/query"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/geocode"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	"github.com/sells-group/leadgen-cli/pkg/places"
)

// pipelineEnv holds the initialized clients, store, and pipeline needed by
// the search and serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStore opens the configured database backend and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		st, err = store.NewSQLite(cfg.Store.Path)
	}
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initPipeline sets up the store and all API clients and builds the
// Pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context, withEmails bool) (*pipelineEnv, error) {
	if err := cfg.ValidateSearch(withEmails); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	facets := query.DefaultFacets()
	if cfg.Query.FacetsFile != "" {
		facets, err = query.LoadFacets(cfg.Query.FacetsFile)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
	}

	placesClient := places.NewClient(cfg.Places.Key, places.WithBaseURL(cfg.Places.BaseURL))
	geocoder := geocode.NewClient(cfg.Geocode.Key, geocode.WithBaseURL(cfg.Geocode.BaseURL))

	var enricher pipeline.Enricher
	if withEmails {
		hunterClient := hunter.NewClient(cfg.Hunter.Key,
			hunter.WithBaseURL(cfg.Hunter.BaseURL),
			hunter.WithLimit(cfg.Hunter.Limit),
			hunter.WithRateLimit(cfg.Hunter.RequestsPerS),
		)
		scraper := enrich.NewHTTPScraper(time.Duration(cfg.Scrape.TimeoutSecs) * time.Second)
		enricher = enrich.NewEmailEnricher(hunterClient, scraper)
	}

	classifier := classify.New(classify.MatchMode(cfg.Query.MatchMode))

	p := pipeline.New(query.NewBuilder(facets), geocoder, placesClient, classifier, enricher)

	return &pipelineEnv{Store: st, Pipeline: p}, nil
}
