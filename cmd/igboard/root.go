package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"igboard/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	dataSource string
	apiURL     string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "igboard",
	Short: "Instagram account analytics dashboard for the terminal",
	Long: `igboard is a terminal dashboard for Instagram business account analytics.

It talks to the analytics backend (or a built-in fixture data set), tracks
which account is selected, and fetches per-post insight metrics with retry
and caching.

Features:
  - Interactive TUI with account picker and yearly/monthly/post panels
  - Per-post insight tables with media-type filtering
  - Token expiry warnings across all connected accounts
  - Snapshot export of the visible panels to JSON reports
  - Secure credential storage for the account setup flow
  - Fixture data mode for running without a backend`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Dashboard owns the whole terminal; keep the decorations off its screen
		if quiet || logLevel == "error" || cmd.Name() == "dashboard" {
			ui.SetQuietMode(true)
		}

		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintBanner()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .igboard.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dataSource, "data-source", "", "data source (api or fixtures)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`igboard {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
