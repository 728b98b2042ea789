package models

import (
	"errors"
	"strings"
)

// SetupRequest is the POST /api/v1/account-setup/ body
type SetupRequest struct {
	AppID      string `json:"app_id"`
	AppSecret  string `json:"app_secret"`
	ShortToken string `json:"short_token"`
}

// Validate applies the setup form's field-level checks before the request
// ever leaves the client.
func (r *SetupRequest) Validate() error {
	var errs []error

	appID := strings.TrimSpace(r.AppID)
	if appID == "" {
		errs = append(errs, errors.New("app id is required"))
	} else {
		for _, c := range appID {
			if c < '0' || c > '9' {
				errs = append(errs, errors.New("app id must contain only digits"))
				break
			}
		}
	}

	if secret := strings.TrimSpace(r.AppSecret); secret == "" {
		errs = append(errs, errors.New("app secret is required"))
	} else if len(secret) < 32 {
		errs = append(errs, errors.New("app secret must be at least 32 characters"))
	}

	if token := strings.TrimSpace(r.ShortToken); token == "" {
		errs = append(errs, errors.New("short-lived token is required"))
	} else if !strings.HasPrefix(token, "EAA") {
		errs = append(errs, errors.New("short-lived token must start with EAA"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// DiscoveredAccount is an Instagram business account found during setup
type DiscoveredAccount struct {
	InstagramUserID   string `json:"instagram_user_id"`
	Username          string `json:"username"`
	AccountName       string `json:"account_name,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	FacebookPageID    string `json:"facebook_page_id"`
	FacebookPageName  string `json:"facebook_page_name,omitempty"`
	AccessToken       string `json:"access_token"`
	IsNew             bool   `json:"is_new"`
}

// SetupResponse is the POST /api/v1/account-setup/ payload
type SetupResponse struct {
	Success            bool                `json:"success"`
	Message            string              `json:"message"`
	AccountsDiscovered int                 `json:"accounts_discovered"`
	AccountsCreated    int                 `json:"accounts_created"`
	AccountsUpdated    int                 `json:"accounts_updated"`
	DiscoveredAccounts []DiscoveredAccount `json:"discovered_accounts"`
	CreatedAccounts    []Account           `json:"created_accounts"`
	Errors             []string            `json:"errors"`
	Warnings           []string            `json:"warnings"`
}
