package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"igboard/pkg/auth"
	"igboard/pkg/models"
	"igboard/pkg/ui"
)

var setupLabel string

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Connect Instagram accounts via a Meta app",
	Long: `Run the account setup flow against the backend.

You will be prompted for:
  - Meta app ID (digits only)
  - Meta app secret (hidden as you type)
  - Short-lived user access token (hidden, starts with EAA)

The backend exchanges the token, discovers the Instagram business accounts
reachable through it, and registers them. The credentials are then stored
locally using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your app secret or tokens!`,
	Example: `  # Interactive setup
  igboard setup

  # Store the credentials under a custom label
  igboard setup --label staging`,
	Run: runSetup,
}

// setupClient is the slice of the REST client the setup flow needs.
// The fixture source deliberately does not implement it.
type setupClient interface {
	SetupAccounts(ctx context.Context, req models.SetupRequest) (*models.SetupResponse, error)
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().StringVar(&setupLabel, "label", "default", "label to store the credentials under")
}

func runSetup(cmd *cobra.Command, args []string) {
	a := newApp()

	client, ok := a.source.(setupClient)
	if !ok {
		ui.PrintError("Setup requires the API data source", "Fixture mode has no backend to register accounts with")
		os.Exit(1)
	}

	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Meta app ID: ")
	appID, err := reader.ReadString('\n')
	if err != nil {
		ui.PrintError("Failed to read app ID", err.Error())
		os.Exit(1)
	}
	appID = strings.TrimSpace(appID)

	fmt.Println("\nEnter your secrets (they will be hidden as you type):")
	fmt.Println()

	fmt.Print("Meta app secret: ")
	appSecret, err := readSecret()
	if err != nil {
		ui.PrintError("Failed to read app secret", err.Error())
		os.Exit(1)
	}

	fmt.Print("\nShort-lived access token: ")
	shortToken, err := readSecret()
	if err != nil {
		ui.PrintError("Failed to read access token", err.Error())
		os.Exit(1)
	}
	fmt.Println()

	req := models.SetupRequest{
		AppID:      appID,
		AppSecret:  appSecret,
		ShortToken: shortToken,
	}
	if err := req.Validate(); err != nil {
		ui.PrintError("Invalid setup credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintInfo("Running account setup", a.cfg.API.BaseURL)
	resp, err := client.SetupAccounts(context.Background(), req)
	if err != nil {
		ui.PrintError("Account setup failed", err.Error())
		os.Exit(1)
	}

	if !resp.Success {
		ui.PrintError("Account setup failed", resp.Message)
		for _, msg := range resp.Errors {
			fmt.Printf("  - %s\n", msg)
		}
		os.Exit(1)
	}

	ui.PrintSuccess(resp.Message)
	fmt.Printf("\n  Discovered: %d\n", resp.AccountsDiscovered)
	fmt.Printf("  Created:    %d\n", resp.AccountsCreated)
	fmt.Printf("  Updated:    %d\n", resp.AccountsUpdated)

	for _, acc := range resp.DiscoveredAccounts {
		marker := ""
		if acc.IsNew {
			marker = " (new)"
		}
		fmt.Printf("  - @%s%s\n", acc.Username, marker)
	}
	for _, warning := range resp.Warnings {
		ui.PrintWarning(warning)
	}

	creds := &auth.Credentials{
		Label:        setupLabel,
		AppID:        appID,
		AppSecret:    appSecret,
		ShortToken:   shortToken,
		LastModified: time.Now(),
	}
	if err := manager.Store(creds); err != nil {
		ui.PrintWarning("Credentials not stored locally", err.Error())
		return
	}
	ui.PrintSuccess("Credentials stored under label: " + setupLabel)
}

// credentialsCmd lists stored setup credentials, sanitized
var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "List stored setup credentials",
	Run:   runCredentials,
}

func init() {
	setupCmd.AddCommand(credentialsCmd)
}

func runCredentials(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	list, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list credentials", err.Error())
		os.Exit(1)
	}
	if len(list) == 0 {
		ui.PrintInfo("No stored credentials", "Run 'igboard setup' to add them")
		return
	}

	ui.PrintHighlight("Stored Credentials")
	fmt.Println()
	for i, creds := range list {
		sanitized := auth.Sanitize(creds)
		fmt.Printf("%d. Label: %s\n", i+1, sanitized.Label)
		fmt.Printf("   App ID:      %s\n", sanitized.AppID)
		fmt.Printf("   App secret:  %s\n", sanitized.AppSecret)
		fmt.Printf("   Short token: %s\n", sanitized.ShortToken)
		fmt.Printf("   Modified:    %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readSecret reads a secret from stdin without echoing
func readSecret() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
