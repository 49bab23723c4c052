package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/export"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

var (
	searchTerm       string
	searchFacets     []string
	searchLocation   string
	searchMax        int
	searchDetails    bool
	searchEmails     bool
	searchSave       bool
	searchCSV        string
	searchXLSX       string
	searchEmailsOnly bool
	searchWorldOnly  bool
	searchMatchMode  string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a lead search for a location",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if searchMatchMode != "" {
			cfg.Query.MatchMode = searchMatchMode
		}

		env, err := initPipeline(ctx, searchEmails)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Pipeline.Run(ctx, pipeline.Options{
			Term:         searchTerm,
			Facets:       searchFacets,
			Location:     searchLocation,
			MaxResults:   clampMaxResults(searchMax),
			RadiusMeters: cfg.Places.RadiusMeters,
			WithDetails:  searchDetails || searchEmails,
			WithEmails:   searchEmails,
		})
		if err != nil {
			return eris.Wrap(err, "search run")
		}

		fmt.Printf("Found %d businesses across %d queries\n", len(res.Records), len(res.Queries))
		if len(res.QueryErrors) > 0 {
			fmt.Printf("  %d queries failed and were skipped\n", len(res.QueryErrors))
		}
		fmt.Printf("  likely delivery: %d, worldwide shipping: %d, logistics: %d\n",
			res.DeliveryCount, res.WorldwideCount, res.LogisticsCount)
		if searchEmails {
			fmt.Printf("  emails found: %d\n", res.EmailCount)
			if res.EmailsRateLimited > 0 {
				fmt.Printf("  email lookups rate limited for %d businesses\n", res.EmailsRateLimited)
			}
		}

		if searchSave {
			inserted, updated, err := env.Store.SaveAll(ctx, res.Records)
			if err != nil {
				return eris.Wrap(err, "save leads")
			}
			fmt.Printf("Saved: %d new, %d updated\n", inserted, updated)

			run := &model.SearchRun{
				Term:        searchTerm,
				Location:    searchLocation,
				Facets:      searchFacets,
				QueryCount:  len(res.Queries),
				ResultCount: len(res.Records),
				EmailCount:  res.EmailCount,
			}
			if err := env.Store.RecordSearch(ctx, run); err != nil {
				zap.L().Warn("record search failed", zap.Error(err))
			}
		}

		filter := export.Filter{EmailsOnly: searchEmailsOnly, WorldwideOnly: searchWorldOnly}
		if searchCSV != "" {
			if err := export.WriteCSVFile(searchCSV, res.Records, filter); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", searchCSV)
		}
		if searchXLSX != "" {
			if err := export.WriteXLSXFile(searchXLSX, res.Records, filter); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", searchXLSX)
		}

		return nil
	},
}

// clampMaxResults bounds the per-query result cap to the provider's page
// limits.
func clampMaxResults(n int) int {
	switch {
	case n < 10:
		return 10
	case n > 100:
		return 100
	default:
		return n
	}
}

func init() {
	searchCmd.Flags().StringVar(&searchTerm, "term", "", "product or niche to search for, e.g. \"packaging\"")
	searchCmd.Flags().StringSliceVar(&searchFacets, "focus", nil, "business facets to search (repeatable; default all)")
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "city or region to search in (required)")
	searchCmd.Flags().IntVar(&searchMax, "max-results", 20, "max results per query (10-100)")
	searchCmd.Flags().BoolVar(&searchDetails, "details", false, "fetch phone and website for each business")
	searchCmd.Flags().BoolVar(&searchEmails, "emails", false, "find contact emails (implies --details)")
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "save results to the database")
	searchCmd.Flags().StringVar(&searchCSV, "csv", "", "write results to a CSV file")
	searchCmd.Flags().StringVar(&searchXLSX, "xlsx", "", "write results to an XLSX file")
	searchCmd.Flags().BoolVar(&searchEmailsOnly, "emails-only", false, "export only businesses with an email")
	searchCmd.Flags().BoolVar(&searchWorldOnly, "worldwide-only", false, "export only potential worldwide shippers")
	searchCmd.Flags().StringVar(&searchMatchMode, "match-mode", "", "keyword matching mode: substring or word (default from config)")
	_ = searchCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(searchCmd)
}
