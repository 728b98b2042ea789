package api

import (
	"context"

	"igboard/pkg/models"
)

// SetupAccounts runs the account discovery flow on the backend. The request
// is validated locally first so malformed credentials never reach the wire.
func (c *Client) SetupAccounts(ctx context.Context, req models.SetupRequest) (*models.SetupResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var response models.SetupResponse
	if err := c.postJSON(ctx, setupURL(c.baseURL), req, &response); err != nil {
		c.logger.ErrorWithFields("account setup request failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	c.logger.InfoWithFields("account setup completed", map[string]interface{}{
		"discovered": response.AccountsDiscovered,
		"created":    response.AccountsCreated,
		"updated":    response.AccountsUpdated,
	})
	return &response, nil
}

// GetDiscoveredAccounts lists the accounts registered through setup
func (c *Client) GetDiscoveredAccounts(ctx context.Context, params models.GetAccountsParams) (*models.AccountListResponse, error) {
	var response models.AccountListResponse
	if err := c.getJSON(ctx, discoveredAccountsURL(c.baseURL, params), &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch discovered accounts", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return &response, nil
}
