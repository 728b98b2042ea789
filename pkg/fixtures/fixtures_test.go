package fixtures

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igboard/pkg/errors"
	"igboard/pkg/models"
)

func TestSourceGetAccounts(t *testing.T) {
	src := New()

	resp, err := src.GetAccounts(context.Background(), models.GetAccountsParams{})
	require.NoError(t, err)
	assert.Len(t, resp.Accounts, 3)
	assert.Equal(t, 2, resp.ActiveCount)

	activeOnly := true
	resp, err = src.GetAccounts(context.Background(), models.GetAccountsParams{ActiveOnly: &activeOnly})
	require.NoError(t, err)
	assert.Len(t, resp.Accounts, 2)
	for _, a := range resp.Accounts {
		assert.True(t, a.IsActive)
	}
}

func TestSourceUnknownAccount(t *testing.T) {
	src := New()

	_, err := src.GetAccountDetails(context.Background(), "nope")
	require.Error(t, err)
	var apiErr *errors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrorTypeNotFound, apiErr.Type)
}

func TestSourceValidateToken(t *testing.T) {
	src := New()

	resp, err := src.ValidateToken(context.Background(), "fixture-acc-2")
	require.NoError(t, err)
	assert.True(t, resp.IsValid)
	assert.Equal(t, models.TokenWarningCritical, resp.WarningLevel)
	assert.True(t, resp.NeedsRefresh)
}

func TestSourcePostInsightsFilters(t *testing.T) {
	src := New()

	resp, err := src.GetPostInsights(context.Background(), models.PostInsightParams{
		AccountID: "fixture-acc-1",
		MediaType: "VIDEO",
		Limit:     3,
	})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 3)
	for _, p := range resp.Posts {
		assert.Equal(t, models.MediaTypeVideo, p.Type)
		require.NotNil(t, p.ViewRate)
	}
	assert.Equal(t, 3, resp.Summary.TotalPosts)
	assert.Equal(t, "acme_outdoors", resp.Meta.Username)
	require.NotNil(t, resp.Meta.Filters.Limit)
	assert.Equal(t, 3, *resp.Meta.Filters.Limit)
}

func TestSourcePostInsightsRequiresAccount(t *testing.T) {
	src := New()

	_, err := src.GetPostInsights(context.Background(), models.PostInsightParams{})
	require.Error(t, err)
	var apiErr *errors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrorTypeValidation, apiErr.Type)
}

func TestSourceDeterministic(t *testing.T) {
	a := New()
	b := New()

	ra, err := a.GetPostInsights(context.Background(), models.PostInsightParams{AccountID: "fixture-acc-1"})
	require.NoError(t, err)
	rb, err := b.GetPostInsights(context.Background(), models.PostInsightParams{AccountID: "fixture-acc-1"})
	require.NoError(t, err)

	require.Equal(t, len(ra.Posts), len(rb.Posts))
	for i := range ra.Posts {
		assert.Equal(t, ra.Posts[i].ID, rb.Posts[i].ID)
		assert.Equal(t, ra.Posts[i].EngagementRate, rb.Posts[i].EngagementRate)
	}
}
