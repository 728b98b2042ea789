package api

import (
	"context"

	"igboard/pkg/models"
)

// GetPostInsights fetches post analytics for one account. The response is
// returned verbatim; no transformation or caching happens at this layer.
func (c *Client) GetPostInsights(ctx context.Context, params models.PostInsightParams) (*models.PostInsightResponse, error) {
	var response models.PostInsightResponse
	if err := c.getJSON(ctx, postInsightsURL(c.baseURL, params), &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch post insights", map[string]interface{}{
			"account_id": params.AccountID,
			"error":      err.Error(),
		})
		return nil, err
	}

	c.logger.DebugWithFields("fetched post insights", map[string]interface{}{
		"account_id": params.AccountID,
		"posts":      len(response.Posts),
	})
	return &response, nil
}
