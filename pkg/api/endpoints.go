package api

import (
	"fmt"
	"net/url"
	"strconv"

	"igboard/pkg/models"
)

const (
	// DefaultBaseURL is used when no backend host is configured
	DefaultBaseURL = "http://localhost:8000"

	accountsEndpoint           = "/api/v1/accounts"
	postInsightsEndpoint       = "/api/v1/posts/insights"
	accountSetupEndpoint       = "/api/v1/account-setup/"
	discoveredAccountsEndpoint = "/api/v1/account-setup/discovered-accounts"
)

// accountsURL constructs the URL for the account list endpoint.
// Optional parameters are serialized only when set.
func accountsURL(baseURL string, params models.GetAccountsParams) string {
	values := url.Values{}
	if params.ActiveOnly != nil {
		values.Set("active_only", strconv.FormatBool(*params.ActiveOnly))
	}
	if params.IncludeMetrics != nil {
		values.Set("include_metrics", strconv.FormatBool(*params.IncludeMetrics))
	}
	return withQuery(baseURL+accountsEndpoint, values)
}

// accountURL constructs the URL for a single account's detail endpoint
func accountURL(baseURL, accountID string) string {
	return fmt.Sprintf("%s%s/%s", baseURL, accountsEndpoint, url.PathEscape(accountID))
}

// validateTokenURL constructs the URL for the token validation endpoint
func validateTokenURL(baseURL, accountID string) string {
	return accountURL(baseURL, accountID) + "/validate-token"
}

// accountStatusURL constructs the URL for the account status endpoint
func accountStatusURL(baseURL, accountID string) string {
	return accountURL(baseURL, accountID) + "/status"
}

// postInsightsURL constructs the URL for the post insights endpoint.
// account_id is always serialized; the rest only when non-empty.
func postInsightsURL(baseURL string, params models.PostInsightParams) string {
	values := url.Values{}
	values.Set("account_id", params.AccountID)
	if params.FromDate != "" {
		values.Set("from_date", params.FromDate)
	}
	if params.ToDate != "" {
		values.Set("to_date", params.ToDate)
	}
	if params.MediaType != "" {
		values.Set("media_type", params.MediaType)
	}
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}
	return withQuery(baseURL+postInsightsEndpoint, values)
}

// setupURL constructs the URL for the account setup endpoint
func setupURL(baseURL string) string {
	return baseURL + accountSetupEndpoint
}

// discoveredAccountsURL constructs the URL for the discovered accounts endpoint
func discoveredAccountsURL(baseURL string, params models.GetAccountsParams) string {
	values := url.Values{}
	if params.ActiveOnly != nil {
		values.Set("active_only", strconv.FormatBool(*params.ActiveOnly))
	}
	if params.IncludeMetrics != nil {
		values.Set("include_metrics", strconv.FormatBool(*params.IncludeMetrics))
	}
	return withQuery(baseURL+discoveredAccountsEndpoint, values)
}

func withQuery(rawURL string, values url.Values) string {
	if len(values) == 0 {
		return rawURL
	}
	return rawURL + "?" + values.Encode()
}
