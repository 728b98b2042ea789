package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"igboard/pkg/dashboard"
	"igboard/pkg/export"
	"igboard/pkg/insights"
	"igboard/pkg/models"
	"igboard/pkg/ui"
	"igboard/pkg/ui/tui"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive analytics dashboard",
	Long: `Open the full-screen terminal dashboard.

Keys:
  up/down, j/k   move in the account list
  enter          select the highlighted account and fetch its insights
  tab/shift+tab  cycle between the posts, monthly, yearly, and summary panels
  f              cycle the media-type filter
  r              refresh accounts and insights
  e              export the current report
  ?              toggle help
  q              quit`,
	Run: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// tuiBackend adapts the data source and export layer to the dashboard
type tuiBackend struct {
	app     *app
	fetcher *insights.Fetcher
	writer  *export.Manager
}

func (b *tuiBackend) LoadAccounts(ctx context.Context) ([]models.Account, error) {
	if err := b.app.store.Refresh(ctx); err != nil {
		return nil, err
	}
	return b.app.store.Accounts(), nil
}

func (b *tuiBackend) FetchInsights(ctx context.Context, params models.PostInsightParams) (*models.PostInsightResponse, error) {
	// A changed selection or filter goes through the auto-fetch path, which
	// fires once per parameter set; asking again with unchanged params is an
	// explicit refresh.
	var err error
	if params != b.fetcher.Params() {
		b.fetcher.SetParams(params)
		err = b.fetcher.EnsureFetched(ctx)
	} else {
		err = b.fetcher.Refresh(ctx)
	}
	if err != nil {
		return nil, err
	}
	if b.app.session != nil {
		_ = b.app.session.RecordSelection(params.AccountID)
		_ = b.app.session.RecordRefresh(b.fetcher.LastFetched())
	}
	return b.fetcher.Data(), nil
}

func (b *tuiBackend) ExportReport(report *dashboard.Report) (string, error) {
	return b.writer.WriteReport(report)
}

func runDashboard(cmd *cobra.Command, args []string) {
	a := newApp()

	writer, err := export.NewManager(a.cfg.Export.Directory, a.cfg.Export.OverwriteExisting, a.log)
	if err != nil {
		ui.PrintError("Failed to prepare export directory", err.Error())
		os.Exit(1)
	}

	// The dashboard always fetches on selection, whatever the batch
	// commands' auto_fetch setting is
	opts := a.fetcherOptions()
	opts.AutoFetch = true

	backend := &tuiBackend{
		app: a,
		fetcher: insights.NewFetcher(
			a.source,
			models.PostInsightParams{Limit: a.cfg.Data.DefaultLimit},
			opts,
			a.log,
		),
		writer: writer,
	}

	if err := tui.New(backend).Run(); err != nil {
		ui.PrintError("Dashboard failed", err.Error())
		os.Exit(1)
	}
}
