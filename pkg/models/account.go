package models

import (
	"fmt"
	"net/url"
	"time"
)

// TokenWarningLevel classifies how soon an account's access token expires
type TokenWarningLevel string

const (
	TokenWarningNone     TokenWarningLevel = "none"
	TokenWarningWarning  TokenWarningLevel = "warning"
	TokenWarningCritical TokenWarningLevel = "critical"
	TokenWarningExpired  TokenWarningLevel = "expired"
)

// Expiry thresholds in days for the token warning levels
const (
	TokenCriticalDays = 1
	TokenWarningDays  = 7
)

// Account represents one connected Instagram account as mirrored from the backend
type Account struct {
	ID                string     `json:"id"`
	InstagramUserID   string     `json:"instagram_user_id"`
	Username          string     `json:"username"`
	AccountName       string     `json:"account_name,omitempty"`
	ProfilePictureURL string     `json:"profile_picture_url,omitempty"`
	FacebookPageID    string     `json:"facebook_page_id,omitempty"`
	IsActive          bool       `json:"is_active"`
	TokenExpiresAt    *time.Time `json:"token_expires_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	IsTokenValid    bool `json:"is_token_valid"`
	DaysUntilExpiry *int `json:"days_until_expiry,omitempty"`

	// Optional metrics, present when include_metrics is requested
	LatestFollowerCount  *int       `json:"latest_follower_count,omitempty"`
	LatestFollowingCount *int       `json:"latest_following_count,omitempty"`
	TotalPosts           *int       `json:"total_posts,omitempty"`
	DataQualityScore     *float64   `json:"data_quality_score,omitempty"`
	LastSyncedAt         *time.Time `json:"last_synced_at,omitempty"`
}

// TokenWarning derives the warning level for this account.
// An invalid token is always expired, regardless of days_until_expiry.
func (a *Account) TokenWarning() TokenWarningLevel {
	if !a.IsTokenValid {
		return TokenWarningExpired
	}
	if a.DaysUntilExpiry == nil {
		return TokenWarningNone
	}
	days := *a.DaysUntilExpiry
	switch {
	case days < 0:
		return TokenWarningExpired
	case days <= TokenCriticalDays:
		return TokenWarningCritical
	case days <= TokenWarningDays:
		return TokenWarningWarning
	default:
		return TokenWarningNone
	}
}

// DisplayName returns the account name when set, else the username
func (a *Account) DisplayName() string {
	if a.AccountName != "" {
		return a.AccountName
	}
	return a.Username
}

// Avatar returns the profile picture URL, falling back to a deterministic placeholder
func (a *Account) Avatar() string {
	if a.ProfilePictureURL != "" {
		return a.ProfilePictureURL
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s", url.QueryEscape(a.Username))
}

// AccountSummary is the presentation-level digest of an account
type AccountSummary struct {
	ID              string            `json:"id"`
	Username        string            `json:"username"`
	DisplayName     string            `json:"display_name"`
	Avatar          string            `json:"avatar"`
	IsActive        bool              `json:"is_active"`
	TokenWarning    TokenWarningLevel `json:"token_warning"`
	DaysUntilExpiry *int              `json:"days_until_expiry,omitempty"`
}

// Summarize builds the summary digest for an account
func (a *Account) Summarize() AccountSummary {
	return AccountSummary{
		ID:              a.ID,
		Username:        a.Username,
		DisplayName:     a.DisplayName(),
		Avatar:          a.Avatar(),
		IsActive:        a.IsActive,
		TokenWarning:    a.TokenWarning(),
		DaysUntilExpiry: a.DaysUntilExpiry,
	}
}

// AccountListResponse is the GET /api/v1/accounts payload
type AccountListResponse struct {
	Accounts    []Account `json:"accounts"`
	Total       int       `json:"total"`
	ActiveCount int       `json:"active_count"`
}

// GetAccountsParams are the query parameters for the account list endpoint
type GetAccountsParams struct {
	ActiveOnly     *bool
	IncludeMetrics *bool
}

// TokenValidationResponse is the POST /accounts/{id}/validate-token payload
type TokenValidationResponse struct {
	AccountID       string            `json:"account_id"`
	IsValid         bool              `json:"is_valid"`
	ExpiresAt       *time.Time        `json:"expires_at,omitempty"`
	DaysUntilExpiry *int              `json:"days_until_expiry,omitempty"`
	WarningLevel    TokenWarningLevel `json:"warning_level"`
	NeedsRefresh    bool              `json:"needs_refresh"`
}

// TokenStatus is the nested token block of an account status payload
type TokenStatus struct {
	IsValid         bool       `json:"is_valid"`
	WarningLevel    string     `json:"warning_level"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	DaysUntilExpiry *int       `json:"days_until_expiry,omitempty"`
}

// DataStatus is the nested data block of an account status payload
type DataStatus struct {
	TotalPosts       *int       `json:"total_posts,omitempty"`
	LastSyncedAt     *time.Time `json:"last_synced_at,omitempty"`
	DataQualityScore *float64   `json:"data_quality_score,omitempty"`
}

// AccountStatus is the GET /accounts/{id}/status payload
type AccountStatus struct {
	AccountID        string      `json:"account_id"`
	Username         string      `json:"username"`
	IsActive         bool        `json:"is_active"`
	ConnectionStatus string      `json:"connection_status"`
	TokenStatus      TokenStatus `json:"token_status"`
	DataStatus       DataStatus  `json:"data_status"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TokenStats aggregates token warning levels across an account list
type TokenStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Valid    int `json:"valid"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
	Expired  int `json:"expired"`
}

// ComputeTokenStats tallies token state over a list of accounts
func ComputeTokenStats(accounts []Account) TokenStats {
	stats := TokenStats{Total: len(accounts)}
	for i := range accounts {
		a := &accounts[i]
		if a.IsActive {
			stats.Active++
		}
		if a.IsTokenValid {
			stats.Valid++
		}
		switch a.TokenWarning() {
		case TokenWarningWarning:
			stats.Warning++
		case TokenWarningCritical:
			stats.Critical++
		case TokenWarningExpired:
			stats.Expired++
		}
	}
	return stats
}
