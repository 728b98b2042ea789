package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"igboard/pkg/models"
	"igboard/pkg/ui"
)

var (
	accountsActiveOnly bool
	accountsShowStats  bool
)

// accountsCmd represents the accounts command
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List connected Instagram accounts",
	Long: `List all Instagram accounts known to the backend, with their token
expiry warnings and activity state.

The token warning column means:
  expired   the token is invalid or already past its expiry
  critical  the token expires within 1 day
  warning   the token expires within 7 days`,
	Example: `  # List all accounts
  igboard accounts

  # Only active accounts, with token statistics
  igboard accounts --active-only --stats`,
	Run: runAccounts,
}

func init() {
	rootCmd.AddCommand(accountsCmd)

	accountsCmd.Flags().BoolVar(&accountsActiveOnly, "active-only", false, "only show active accounts")
	accountsCmd.Flags().BoolVar(&accountsShowStats, "stats", false, "show token statistics across accounts")
}

func runAccounts(cmd *cobra.Command, args []string) {
	a := newApp()
	accounts := a.loadAccounts(context.Background())

	if accountsActiveOnly {
		accounts = a.store.GetValidAccounts()
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No accounts found", "Run 'igboard setup' to connect an account")
		return
	}

	selectedID := ""
	if a.session != nil {
		if sess, err := a.session.Load(); err == nil && sess != nil {
			selectedID = sess.SelectedAccountID
		}
	}

	ui.PrintHighlight("Connected Accounts")
	fmt.Println()

	for i, acc := range accounts {
		marker := " "
		if acc.ID == selectedID {
			marker = "*"
		}
		fmt.Printf("%s %d. @%s", marker, i+1, acc.Username)
		if acc.AccountName != "" {
			fmt.Printf(" (%s)", acc.AccountName)
		}
		fmt.Println()
		fmt.Printf("     ID: %s\n", acc.ID)
		fmt.Printf("     Active: %v\n", acc.IsActive)
		fmt.Printf("     Token: %s\n", tokenWarningLabel(acc.TokenWarning(), acc.DaysUntilExpiry))
		fmt.Println()
	}

	if accountsShowStats {
		stats := a.store.TokenStats()
		ui.PrintHighlight("Token Statistics")
		fmt.Println()
		fmt.Printf("  Total:    %d\n", stats.Total)
		fmt.Printf("  Active:   %d\n", stats.Active)
		fmt.Printf("  Valid:    %d\n", stats.Valid)
		fmt.Printf("  Warning:  %d\n", stats.Warning)
		fmt.Printf("  Critical: %d\n", stats.Critical)
		fmt.Printf("  Expired:  %d\n", stats.Expired)
	}
}

func tokenWarningLabel(level models.TokenWarningLevel, days *int) string {
	switch level {
	case models.TokenWarningExpired:
		return "EXPIRED"
	case models.TokenWarningCritical:
		if days != nil {
			return fmt.Sprintf("CRITICAL (expires in %d day(s))", *days)
		}
		return "CRITICAL"
	case models.TokenWarningWarning:
		if days != nil {
			return fmt.Sprintf("warning (expires in %d days)", *days)
		}
		return "warning"
	default:
		return "ok"
	}
}

// selectCmd represents the select command
var selectCmd = &cobra.Command{
	Use:   "select <account>",
	Short: "Select the account used by other commands",
	Long: `Select an account by id, Instagram user id, or username.

The selection is persisted and used as the default account for the
insights, validate, status, and export commands.`,
	Example: `  igboard select acme_outdoors
  igboard select 1234567890`,
	Args: cobra.ExactArgs(1),
	Run:  runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) {
	a := newApp()

	acc, ok := a.resolveAccount(context.Background(), args[0])
	if !ok {
		ui.PrintError("Account not found", args[0])
		ui.PrintInfo("Available accounts", "Use 'igboard accounts' to list them")
		os.Exit(1)
	}

	a.manager.SelectAccount(acc.ID)

	if a.session != nil {
		if err := a.session.RecordSelection(acc.ID); err != nil {
			ui.PrintWarning("Selection not persisted", err.Error())
		}
	}

	ui.PrintSuccess("Selected account: @" + acc.Username)
}
