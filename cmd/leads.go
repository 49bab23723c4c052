package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/export"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var (
	leadsLimit      int
	leadsEmailsOnly bool
	leadsWorldOnly  bool
	leadsCSV        string
	leadsXLSX       string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Work with saved leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		leads, err := st.ListLeads(ctx, store.LeadFilter{
			WithEmailOnly: leadsEmailsOnly,
			WorldwideOnly: leadsWorldOnly,
			Limit:         leadsLimit,
		})
		if err != nil {
			return err
		}

		for _, l := range leads {
			line := fmt.Sprintf("%-6d %s", l.ID, l.Business.Name)
			if l.Business.Email != "" {
				line += "  <" + l.Business.Email + ">"
			}
			if l.Business.Address != "" {
				line += "  " + l.Business.Address
			}
			fmt.Println(line)
		}
		fmt.Printf("%d leads\n", len(leads))
		return nil
	},
}

var leadsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate lead counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.Stats(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Total leads:        %d\n", stats.Total)
		fmt.Printf("With email:         %d\n", stats.WithEmail)
		fmt.Printf("Likely delivery:    %d\n", stats.LikelyDelivery)
		fmt.Printf("Worldwide shipping: %d\n", stats.Worldwide)
		return nil
	},
}

var leadsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved leads to CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if leadsCSV == "" && leadsXLSX == "" {
			return eris.New("export: pass --csv or --xlsx")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		leads, err := st.ListLeads(ctx, store.LeadFilter{
			WithEmailOnly: leadsEmailsOnly,
			WorldwideOnly: leadsWorldOnly,
			Limit:         leadsLimit,
		})
		if err != nil {
			return err
		}

		recs := make([]model.BusinessRecord, len(leads))
		for i, l := range leads {
			recs[i] = l.Business
		}

		if leadsCSV != "" {
			if err := export.WriteCSVFile(leadsCSV, recs, export.Filter{}); err != nil {
				return err
			}
			fmt.Printf("Wrote %d leads to %s\n", len(recs), leadsCSV)
		}
		if leadsXLSX != "" {
			if err := export.WriteXLSXFile(leadsXLSX, recs, export.Filter{}); err != nil {
				return err
			}
			fmt.Printf("Wrote %d leads to %s\n", len(recs), leadsXLSX)
		}
		return nil
	},
}

var leadsSearchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "List recorded search runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListSearches(ctx, leadsLimit)
		if err != nil {
			return err
		}

		for _, r := range runs {
			fmt.Printf("%s  %-20s %-25s %d results, %d emails\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.Term, r.Location, r.ResultCount, r.EmailCount)
		}
		return nil
	},
}

func init() {
	leadsCmd.PersistentFlags().IntVar(&leadsLimit, "limit", 100, "max rows to read")
	leadsCmd.PersistentFlags().BoolVar(&leadsEmailsOnly, "emails-only", false, "only leads with an email")
	leadsCmd.PersistentFlags().BoolVar(&leadsWorldOnly, "worldwide-only", false, "only potential worldwide shippers")
	leadsExportCmd.Flags().StringVar(&leadsCSV, "csv", "", "CSV output path")
	leadsExportCmd.Flags().StringVar(&leadsXLSX, "xlsx", "", "XLSX output path")

	leadsCmd.AddCommand(leadsListCmd, leadsStatsCmd, leadsExportCmd, leadsSearchesCmd)
	rootCmd.AddCommand(leadsCmd)
}
