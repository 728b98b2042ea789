package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"igboard/pkg/ui"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [account]",
	Short: "Validate an account's access token",
	Long: `Ask the backend to validate the access token of an account.

Uses the persisted selection when no account is given. Validation also
schedules an account list refresh so the local token state catches up.`,
	Example: `  igboard validate
  igboard validate acme_outdoors`,
	Args: cobra.MaximumNArgs(1),
	Run:  runValidate,
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status [account]",
	Short: "Show an account's connection and data status",
	Args:  cobra.MaximumNArgs(1),
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statusCmd)
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func runValidate(cmd *cobra.Command, args []string) {
	a := newApp()
	ctx := context.Background()

	acc, ok := a.resolveAccount(ctx, argOrEmpty(args))
	if !ok {
		ui.PrintError("No account selected", "Use 'igboard select <account>' or pass one as an argument")
		os.Exit(1)
	}

	ui.PrintInfo("Validating token", "@"+acc.Username)
	result := a.manager.ValidateToken(ctx, acc.ID)
	if result == nil {
		ui.PrintError("Token validation unavailable", "The backend did not return a validation result")
		os.Exit(1)
	}

	if result.IsValid {
		ui.PrintSuccess("Token is valid")
	} else {
		ui.PrintError("Token is invalid", "Re-run 'igboard setup' to refresh it")
	}
	if result.DaysUntilExpiry != nil {
		fmt.Printf("  Days until expiry: %d\n", *result.DaysUntilExpiry)
	}
	if result.ExpiresAt != nil {
		fmt.Printf("  Expires at:        %s\n", result.ExpiresAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("  Warning level:     %s\n", result.WarningLevel)
	if result.NeedsRefresh {
		ui.PrintWarning("Token needs refresh soon")
	}
}

func runStatus(cmd *cobra.Command, args []string) {
	a := newApp()
	ctx := context.Background()

	acc, ok := a.resolveAccount(ctx, argOrEmpty(args))
	if !ok {
		ui.PrintError("No account selected", "Use 'igboard select <account>' or pass one as an argument")
		os.Exit(1)
	}

	status := a.manager.GetAccountStatus(ctx, acc.ID)
	if status == nil {
		ui.PrintError("Status unavailable", "The backend did not return a status for @"+acc.Username)
		os.Exit(1)
	}

	ui.PrintHighlight("Account Status")
	fmt.Println()
	fmt.Printf("  Username:    @%s\n", status.Username)
	fmt.Printf("  Active:      %v\n", status.IsActive)
	fmt.Printf("  Connection:  %s\n", status.ConnectionStatus)
	fmt.Printf("  Token valid: %v (%s)\n", status.TokenStatus.IsValid, status.TokenStatus.WarningLevel)
	if status.TokenStatus.DaysUntilExpiry != nil {
		fmt.Printf("  Expires in:  %d day(s)\n", *status.TokenStatus.DaysUntilExpiry)
	}
	if status.DataStatus.TotalPosts != nil {
		fmt.Printf("  Posts:       %d\n", *status.DataStatus.TotalPosts)
	}
	if status.DataStatus.LastSyncedAt != nil {
		fmt.Printf("  Last sync:   %s\n", status.DataStatus.LastSyncedAt.Format("2006-01-02 15:04"))
	}
	if status.DataStatus.DataQualityScore != nil {
		fmt.Printf("  Data quality: %.0f%%\n", *status.DataStatus.DataQualityScore)
	}
}
