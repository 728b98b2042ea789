package api

import (
	"context"

	"igboard/pkg/models"
)

// GetAccounts fetches the connected account list
func (c *Client) GetAccounts(ctx context.Context, params models.GetAccountsParams) (*models.AccountListResponse, error) {
	var response models.AccountListResponse
	if err := c.getJSON(ctx, accountsURL(c.baseURL, params), &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch accounts", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	c.logger.DebugWithFields("fetched account list", map[string]interface{}{
		"count":        len(response.Accounts),
		"total":        response.Total,
		"active_count": response.ActiveCount,
	})
	return &response, nil
}

// GetAccountDetails fetches a single account by its internal id
func (c *Client) GetAccountDetails(ctx context.Context, accountID string) (*models.Account, error) {
	var account models.Account
	if err := c.getJSON(ctx, accountURL(c.baseURL, accountID), &account); err != nil {
		c.logger.ErrorWithFields("failed to fetch account details", map[string]interface{}{
			"account_id": accountID,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &account, nil
}

// ValidateToken asks the backend to re-check an account's access token
func (c *Client) ValidateToken(ctx context.Context, accountID string) (*models.TokenValidationResponse, error) {
	var result models.TokenValidationResponse
	if err := c.postJSON(ctx, validateTokenURL(c.baseURL, accountID), nil, &result); err != nil {
		c.logger.ErrorWithFields("token validation request failed", map[string]interface{}{
			"account_id": accountID,
			"error":      err.Error(),
		})
		return nil, err
	}

	c.logger.DebugWithFields("token validated", map[string]interface{}{
		"account_id":    result.AccountID,
		"is_valid":      result.IsValid,
		"warning_level": string(result.WarningLevel),
	})
	return &result, nil
}

// GetAccountStatus fetches the connection/token/data status of an account
func (c *Client) GetAccountStatus(ctx context.Context, accountID string) (*models.AccountStatus, error) {
	var status models.AccountStatus
	if err := c.getJSON(ctx, accountStatusURL(c.baseURL, accountID), &status); err != nil {
		c.logger.ErrorWithFields("failed to fetch account status", map[string]interface{}{
			"account_id": accountID,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &status, nil
}
