package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nabaa/newsroom/internal/app"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var (
	flagFrom string
	flagTo   string
	flagOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the editorial activity report as xlsx",
	Long: `Write the articles updated and the workflow transitions made between --from and
--to (inclusive, YYYY-MM-DD) to an xlsx workbook. Defaults to the last 30 days.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := parseRange(flagFrom, flagTo, time.Now().UTC())
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openMigrated(cfg)
		if err != nil {
			return err
		}

		a := app.New(app.Options{DB: db})
		f, err := a.ReportService.Build(cmd.Context(), from, to)
		if err != nil {
			return err
		}
		defer f.Close()

		out := flagOut
		if out == "" {
			out = fmt.Sprintf("editorial-%s-%s.xlsx", from.Format("20060102"), to.Add(-24*time.Hour).Format("20060102"))
		}
		if err := f.SaveAs(out); err != nil {
			return fmt.Errorf("saving %s: %w", out, err)
		}
		fmt.Printf("Report written to %s\n", out)
		return nil
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the Elasticsearch index from published articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Search.Enabled {
			return fmt.Errorf("search is disabled (set ES_ENABLED=true)")
		}
		db, err := openMigrated(cfg)
		if err != nil {
			return err
		}
		res, err := app.Connect(cfg)
		if err != nil {
			return err
		}
		defer res.Close()

		a := app.FromConfig(cfg, db, res)
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
		defer cancel()

		n, err := a.SearchService.Reindex(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d article(s).\n", n)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagFrom, "from", "", "first day (YYYY-MM-DD, default 30 days ago)")
	exportCmd.Flags().StringVar(&flagTo, "to", "", "last day, inclusive (YYYY-MM-DD, default today)")
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "output file")
}

// parseRange turns inclusive day bounds into the half-open [from, to) interval
func parseRange(fromStr, toStr string, now time.Time) (time.Time, time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -30)
	to := today

	if fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
		from = t
	}
	if toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
		to = t
	}
	to = to.Add(24 * time.Hour)
	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from")
	}
	return from, to, nil
}
