package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"igboard/pkg/insights"
	"igboard/pkg/models"
	"igboard/pkg/ui"
)

var (
	insightsAccount   string
	insightsFromDate  string
	insightsToDate    string
	insightsMediaType string
	insightsLimit     int
)

// insightsCmd represents the insights command
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Fetch per-post insight metrics for an account",
	Long: `Fetch per-post insight metrics for the selected account.

Uses the persisted selection unless --account is given. Failed fetches are
retried with a fixed delay per the configured retry policy.`,
	Example: `  # Insights for the selected account
  igboard insights

  # Videos only, last posts of a date window
  igboard insights --account acme_outdoors --media-type VIDEO --from 2026-01-01 --to 2026-06-30

  # Cap the number of posts returned
  igboard insights --limit 10`,
	Run: runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)

	insightsCmd.Flags().StringVarP(&insightsAccount, "account", "a", "", "account id, instagram user id, or username")
	insightsCmd.Flags().StringVar(&insightsFromDate, "from", "", "start date (YYYY-MM-DD)")
	insightsCmd.Flags().StringVar(&insightsToDate, "to", "", "end date (YYYY-MM-DD)")
	insightsCmd.Flags().StringVar(&insightsMediaType, "media-type", "", "filter by media type (IMAGE, VIDEO, CAROUSEL_ALBUM, STORY)")
	insightsCmd.Flags().IntVar(&insightsLimit, "limit", 0, "maximum number of posts (default from config)")
}

func runInsights(cmd *cobra.Command, args []string) {
	a := newApp()
	ctx := context.Background()

	acc, ok := a.resolveAccount(ctx, insightsAccount)
	if !ok {
		ui.PrintError("No account selected", "Use 'igboard select <account>' or pass --account")
		os.Exit(1)
	}

	limit := insightsLimit
	if limit == 0 {
		limit = a.cfg.Data.DefaultLimit
	}

	params := models.PostInsightParams{
		AccountID: acc.ID,
		FromDate:  insightsFromDate,
		ToDate:    insightsToDate,
		MediaType: insightsMediaType,
		Limit:     limit,
	}

	fetcher := insights.NewFetcher(a.source, params, a.fetcherOptions(), a.log)

	ui.PrintInfo("Fetching insights", "@"+acc.Username)
	if err := fetcher.FetchData(ctx, nil); err != nil {
		ui.PrintError("Failed to fetch insights", err.Error())
		os.Exit(1)
	}

	resp := fetcher.Data()
	if resp == nil || len(resp.Posts) == 0 {
		ui.PrintInfo("No posts found", "Try widening the date window or removing filters")
		return
	}

	if a.session != nil {
		_ = a.session.RecordRefresh(fetcher.LastFetched())
	}

	printInsightTable(resp.Posts)
	printInsightSummary(resp.Summary)
}

func printInsightTable(posts []models.PostInsight) {
	ui.PrintHighlight("Posts")
	fmt.Println()
	fmt.Printf("%-12s %-16s %8s %8s %8s %8s\n", "DATE", "TYPE", "REACH", "LIKES", "COMMENTS", "ENG%")
	for _, p := range posts {
		fmt.Printf("%-12s %-16s %8d %8d %8d %7.1f%%\n",
			p.Date.Format("2006-01-02"), p.Type, p.Reach, p.Likes, p.Comments, p.EngagementRate)
	}
	fmt.Println()
}

func printInsightSummary(summary models.PostInsightSummary) {
	ui.PrintHighlight("Summary")
	fmt.Println()
	fmt.Printf("  Posts:                %d\n", summary.TotalPosts)
	fmt.Printf("  Total reach:          %d\n", summary.TotalReach)
	fmt.Printf("  Total engagement:     %d\n", summary.TotalEngagement)
	fmt.Printf("  Avg engagement rate:  %.2f%%\n", summary.AvgEngagementRate)
	if best := summary.BestPerformingPost; best != nil {
		fmt.Printf("  Best post:            %s (%s, %.2f%%)\n", best.ID, best.Type, best.EngagementRate)
	}
	if len(summary.MediaTypeDistribution) > 0 {
		fmt.Printf("  Media types:         ")
		for mediaType, count := range summary.MediaTypeDistribution {
			fmt.Printf(" %s=%d", mediaType, count)
		}
		fmt.Println()
	}
}
