package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"igboard/internal/prefetch"
	"igboard/pkg/dashboard"
	"igboard/pkg/export"
	"igboard/pkg/insights"
	"igboard/pkg/models"
	"igboard/pkg/ui"
)

var (
	exportAccount   string
	exportAll       bool
	exportFromDate  string
	exportToDate    string
	exportMediaType string
	exportDir       string
	exportOverwrite bool
	exportWorkers   int
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export dashboard snapshots to JSON reports",
	Long: `Export the dashboard panels of one or all accounts as JSON report
files, each paired with a snapshot meta file.

With --all, insights for every active account are fetched concurrently
through a rate-limited worker pool before the reports are written.`,
	Example: `  # Export the selected account
  igboard export

  # Export every active account to a custom directory
  igboard export --all --output ./reports

  # Export only video posts of a date window
  igboard export --account acme_outdoors --media-type VIDEO --from 2026-01-01`,
	Run: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportAccount, "account", "a", "", "account id, instagram user id, or username")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "export every active account")
	exportCmd.Flags().StringVar(&exportFromDate, "from", "", "start date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportToDate, "to", "", "end date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportMediaType, "media-type", "", "filter by media type")
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", "", "output directory (default from config)")
	exportCmd.Flags().BoolVar(&exportOverwrite, "overwrite", false, "overwrite existing report files")
	exportCmd.Flags().IntVar(&exportWorkers, "workers", 3, "concurrent fetches used with --all")
}

// warmCache collects prefetched responses keyed by account id
type warmCache struct {
	mu        sync.Mutex
	responses map[string]*models.PostInsightResponse
}

func newWarmCache() *warmCache {
	return &warmCache{responses: make(map[string]*models.PostInsightResponse)}
}

func (c *warmCache) Put(accountID string, resp *models.PostInsightResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[accountID] = resp
}

func (c *warmCache) Get(accountID string) (*models.PostInsightResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp, ok := c.responses[accountID]
	return resp, ok
}

func runExport(cmd *cobra.Command, args []string) {
	a := newApp()
	ctx := context.Background()

	outputDir := exportDir
	if outputDir == "" {
		outputDir = a.cfg.Export.Directory
	}
	overwrite := exportOverwrite || a.cfg.Export.OverwriteExisting

	writer, err := export.NewManager(outputDir, overwrite, a.log)
	if err != nil {
		ui.PrintError("Failed to prepare export directory", err.Error())
		os.Exit(1)
	}

	if exportAll {
		runExportAll(ctx, a, writer)
		return
	}

	acc, ok := a.resolveAccount(ctx, exportAccount)
	if !ok {
		ui.PrintError("No account selected", "Use 'igboard select <account>', pass --account, or use --all")
		os.Exit(1)
	}

	fetcher := insights.NewFetcher(a.source, exportParams(a, acc.ID), a.fetcherOptions(), a.log)
	if err := fetcher.FetchData(ctx, nil); err != nil {
		ui.PrintError("Failed to fetch insights", err.Error())
		os.Exit(1)
	}

	path, err := writer.WriteReport(dashboard.BuildReport(acc, fetcher.Posts()))
	if err != nil {
		ui.PrintError("Failed to write report", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Report written: " + path)
}

func runExportAll(ctx context.Context, a *app, writer *export.Manager) {
	a.loadAccounts(ctx)
	accounts := a.store.GetValidAccounts()
	if len(accounts) == 0 {
		ui.PrintInfo("No active accounts", "Nothing to export")
		return
	}

	cache := newWarmCache()
	pool := prefetch.NewWorkerPool(exportWorkers, a.source, cache, nil, a.log)
	pool.Start()

	// Drain results while submitting; the result queue is smaller than a
	// large account list and would otherwise stall the workers.
	failed := 0
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for result := range pool.Results() {
			if !result.Success {
				failed++
				ui.PrintWarning("Fetch failed for @"+result.Job.Username, result.Error.Error())
			}
		}
	}()

	for _, acc := range accounts {
		err := pool.Submit(prefetch.Job{
			AccountID: acc.ID,
			Username:  acc.Username,
			Params:    exportParams(a, acc.ID),
		})
		if err != nil {
			ui.PrintWarning("Skipping @"+acc.Username, err.Error())
		}
	}
	pool.Stop()
	<-drained

	written := 0
	for _, acc := range accounts {
		resp, ok := cache.Get(acc.ID)
		if !ok {
			continue
		}
		path, err := writer.WriteReport(dashboard.BuildReport(acc, resp.Posts))
		if err != nil {
			ui.PrintError("Failed to write report for @"+acc.Username, err.Error())
			continue
		}
		written++
		fmt.Printf("  %s\n", path)
	}

	if failed > 0 {
		ui.PrintWarning(fmt.Sprintf("%d account(s) could not be fetched", failed))
	}
	ui.PrintSuccess(fmt.Sprintf("Exported %d report(s)", written))
}

func exportParams(a *app, accountID string) models.PostInsightParams {
	return models.PostInsightParams{
		AccountID: accountID,
		FromDate:  exportFromDate,
		ToDate:    exportToDate,
		MediaType: exportMediaType,
		Limit:     a.cfg.Data.DefaultLimit,
	}
}
