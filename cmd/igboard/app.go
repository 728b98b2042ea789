package main

import (
	"context"
	"os"
	"time"

	"igboard/pkg/account"
	"igboard/pkg/api"
	"igboard/pkg/config"
	"igboard/pkg/fixtures"
	"igboard/pkg/insights"
	"igboard/pkg/logger"
	"igboard/pkg/models"
	"igboard/pkg/ratelimit"
	"igboard/pkg/session"
	"igboard/pkg/ui"
)

// dataSourceAPI is the full surface the commands need from a data source.
// Both the REST client and the fixture source implement it.
type dataSourceAPI interface {
	GetAccounts(ctx context.Context, params models.GetAccountsParams) (*models.AccountListResponse, error)
	GetAccountDetails(ctx context.Context, accountID string) (*models.Account, error)
	ValidateToken(ctx context.Context, accountID string) (*models.TokenValidationResponse, error)
	GetAccountStatus(ctx context.Context, accountID string) (*models.AccountStatus, error)
	GetPostInsights(ctx context.Context, params models.PostInsightParams) (*models.PostInsightResponse, error)
}

// app bundles the pieces every command wires up the same way
type app struct {
	cfg     *config.Config
	log     logger.Logger
	source  dataSourceAPI
	store   *account.Store
	manager *account.Manager
	session *session.Manager
}

// globalFlags builds the flag map passed into config.Load
func globalFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if apiURL != "" {
		flags["api-url"] = apiURL
	}
	if dataSource != "" {
		flags["data-source"] = dataSource
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	if quiet {
		flags["log-level"] = "error"
	}
	return flags
}

// newApp loads configuration, initializes logging, and wires the data source
// and account layer. Exits on configuration errors.
func newApp() *app {
	cfg, err := config.Load(configFile, globalFlags())
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log := logger.GetLogger()

	var source dataSourceAPI
	if cfg.Data.Source == config.SourceFixtures {
		log.Info("using fixture data source")
		source = fixtures.New()
	} else {
		limiter := ratelimit.NewTokenBucket(
			cfg.RateLimit.RequestsPerMinute,
			time.Minute/time.Duration(cfg.RateLimit.RequestsPerMinute),
		)
		source = api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log, api.WithRateLimiter(limiter))
	}

	store := account.NewStore(source, log)
	manager := account.NewManager(store, source, log)

	sess, err := session.NewManager()
	if err != nil {
		// Session persistence is a convenience; commands still work without it
		log.WithError(err).Warn("session persistence unavailable")
		sess = nil
	}

	return &app{
		cfg:     cfg,
		log:     log,
		source:  source,
		store:   store,
		manager: manager,
		session: sess,
	}
}

// fetcherOptions maps the loaded config onto insight fetch options
func (a *app) fetcherOptions() insights.Options {
	return insights.Options{
		AutoFetch:  a.cfg.Data.AutoFetch,
		CacheTime:  a.cfg.Data.CacheTime,
		RetryCount: a.cfg.Retry.MaxAttempts,
		RetryDelay: a.cfg.Retry.Delay,
	}
}

// loadAccounts refreshes the store and exits with a message on failure
func (a *app) loadAccounts(ctx context.Context) []models.Account {
	if err := a.store.Refresh(ctx); err != nil {
		ui.PrintError("Failed to load accounts", err.Error())
		os.Exit(1)
	}
	return a.store.Accounts()
}

// resolveAccount finds an account by id, instagram user id, or username.
// Falls back to the persisted session selection when id is empty.
func (a *app) resolveAccount(ctx context.Context, id string) (models.Account, bool) {
	accounts := a.loadAccounts(ctx)

	if id == "" && a.session != nil {
		if sess, err := a.session.Load(); err == nil && sess != nil {
			id = sess.SelectedAccountID
		}
	}
	if id == "" {
		return models.Account{}, false
	}

	if acc, ok := a.store.GetAccountByID(id); ok {
		return acc, true
	}
	if acc, ok := a.store.GetAccountByInstagramID(id); ok {
		return acc, true
	}
	for _, acc := range accounts {
		if acc.Username == id {
			return acc, true
		}
	}
	return models.Account{}, false
}
