package fixtures

import (
	"context"
	"fmt"
	"time"

	"igboard/pkg/errors"
	"igboard/pkg/models"
)

// Source serves deterministic sample data through the same operations as the
// HTTP client, so the dashboard runs end to end without a backend. Selected
// with the fixtures data source in configuration.
type Source struct {
	accounts []models.Account
	posts    map[string][]models.PostInsight
}

// New creates a source with the built-in sample dataset
func New() *Source {
	s := &Source{posts: make(map[string][]models.PostInsight)}
	s.seed()
	return s
}

func (s *Source) seed() {
	now := time.Now().UTC().Truncate(time.Hour)
	warnDays := 5
	critDays := 1
	warnExpiry := now.AddDate(0, 0, warnDays)
	critExpiry := now.AddDate(0, 0, critDays)

	s.accounts = []models.Account{
		{
			ID:              "fixture-acc-1",
			InstagramUserID: "17841400000000101",
			Username:        "acme_outdoors",
			AccountName:     "Acme Outdoors",
			FacebookPageID:  "101010101010101",
			IsActive:        true,
			IsTokenValid:    true,
			TokenExpiresAt:  &warnExpiry,
			DaysUntilExpiry: &warnDays,
			CreatedAt:       now.AddDate(0, -6, 0),
			UpdatedAt:       now,
		},
		{
			ID:              "fixture-acc-2",
			InstagramUserID: "17841400000000102",
			Username:        "acme_coffee",
			AccountName:     "Acme Coffee",
			FacebookPageID:  "202020202020202",
			IsActive:        true,
			IsTokenValid:    true,
			TokenExpiresAt:  &critExpiry,
			DaysUntilExpiry: &critDays,
			CreatedAt:       now.AddDate(0, -3, 0),
			UpdatedAt:       now,
		},
		{
			ID:              "fixture-acc-3",
			InstagramUserID: "17841400000000103",
			Username:        "acme_legacy",
			AccountName:     "Acme Legacy",
			IsActive:        false,
			IsTokenValid:    false,
			CreatedAt:       now.AddDate(-1, 0, 0),
			UpdatedAt:       now.AddDate(0, -2, 0),
		},
	}

	types := []models.MediaType{
		models.MediaTypeImage,
		models.MediaTypeVideo,
		models.MediaTypeCarousel,
		models.MediaTypeImage,
	}
	for _, acc := range s.accounts[:2] {
		posts := make([]models.PostInsight, 0, 24)
		for i := 0; i < 24; i++ {
			mt := types[i%len(types)]
			p := models.PostInsight{
				ID:        fmt.Sprintf("%s-post-%02d", acc.ID, i+1),
				Date:      now.AddDate(0, 0, -i*3),
				Type:      mt,
				Caption:   fmt.Sprintf("Sample post %d from %s", i+1, acc.Username),
				Permalink: fmt.Sprintf("https://www.instagram.com/p/%s%02d/", acc.Username, i+1),
				Reach:     1200 + i*137,
				Likes:     80 + i*11,
				Comments:  4 + i%9,
				Shares:    2 + i%5,
				Saves:     3 + i%7,
			}
			if mt == models.MediaTypeVideo {
				p.Views = p.Reach * 2
				vr := p.ComputeViewRate()
				p.ViewRate = &vr
			}
			p.TotalInteractions = p.Engagement()
			p.EngagementRate = p.ComputeEngagementRate()
			posts = append(posts, p)
		}
		s.posts[acc.ID] = posts
	}
}

// GetAccounts lists the sample accounts, honoring the active-only filter
func (s *Source) GetAccounts(ctx context.Context, params models.GetAccountsParams) (*models.AccountListResponse, error) {
	accounts := make([]models.Account, 0, len(s.accounts))
	active := 0
	for _, a := range s.accounts {
		if a.IsActive {
			active++
		}
		if params.ActiveOnly != nil && *params.ActiveOnly && !a.IsActive {
			continue
		}
		accounts = append(accounts, a)
	}
	return &models.AccountListResponse{
		Accounts:    accounts,
		Total:       len(accounts),
		ActiveCount: active,
	}, nil
}

// GetAccountDetails returns one sample account
func (s *Source) GetAccountDetails(ctx context.Context, accountID string) (*models.Account, error) {
	for _, a := range s.accounts {
		if a.ID == accountID {
			acc := a
			return &acc, nil
		}
	}
	return nil, &errors.Error{
		Type:    errors.ErrorTypeNotFound,
		Message: fmt.Sprintf("account %s not found", accountID),
		Code:    404,
	}
}

// ValidateToken reports the sample account's token state
func (s *Source) ValidateToken(ctx context.Context, accountID string) (*models.TokenValidationResponse, error) {
	acc, err := s.GetAccountDetails(ctx, accountID)
	if err != nil {
		return nil, err
	}
	warning := acc.TokenWarning()
	return &models.TokenValidationResponse{
		AccountID:       acc.ID,
		IsValid:         acc.IsTokenValid,
		ExpiresAt:       acc.TokenExpiresAt,
		DaysUntilExpiry: acc.DaysUntilExpiry,
		WarningLevel:    warning,
		NeedsRefresh:    warning != models.TokenWarningNone,
	}, nil
}

// GetAccountStatus reports combined token and data state for a sample account
func (s *Source) GetAccountStatus(ctx context.Context, accountID string) (*models.AccountStatus, error) {
	acc, err := s.GetAccountDetails(ctx, accountID)
	if err != nil {
		return nil, err
	}
	connection := "connected"
	if !acc.IsActive {
		connection = "disconnected"
	}
	total := len(s.posts[acc.ID])
	synced := acc.UpdatedAt
	quality := 0.97
	return &models.AccountStatus{
		AccountID:        acc.ID,
		Username:         acc.Username,
		IsActive:         acc.IsActive,
		ConnectionStatus: connection,
		TokenStatus: models.TokenStatus{
			IsValid:         acc.IsTokenValid,
			WarningLevel:    string(acc.TokenWarning()),
			ExpiresAt:       acc.TokenExpiresAt,
			DaysUntilExpiry: acc.DaysUntilExpiry,
		},
		DataStatus: models.DataStatus{
			TotalPosts:       &total,
			LastSyncedAt:     &synced,
			DataQualityScore: &quality,
		},
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}, nil
}

// GetPostInsights serves the sample posts for an account, applying the same
// filters the backend would: date window, media type, then limit.
func (s *Source) GetPostInsights(ctx context.Context, params models.PostInsightParams) (*models.PostInsightResponse, error) {
	if params.AccountID == "" {
		return nil, errors.NewValidationError("account_id is required")
	}
	acc, err := s.GetAccountDetails(ctx, params.AccountID)
	if err != nil {
		return nil, err
	}

	posts := make([]models.PostInsight, 0, len(s.posts[acc.ID]))
	for _, p := range s.posts[acc.ID] {
		if !inDateRange(p.Date, params.FromDate, params.ToDate) {
			continue
		}
		if params.MediaType != "" && string(p.Type) != params.MediaType {
			continue
		}
		posts = append(posts, p)
	}
	if params.Limit > 0 && len(posts) > params.Limit {
		posts = posts[:params.Limit]
	}

	filters := models.PostInsightFilters{MediaType: params.MediaType}
	if params.Limit > 0 {
		limit := params.Limit
		filters.Limit = &limit
	}

	return &models.PostInsightResponse{
		Posts:   posts,
		Summary: models.SummarizePosts(posts),
		Meta: models.PostInsightMeta{
			AccountID:       acc.ID,
			InstagramUserID: acc.InstagramUserID,
			Username:        acc.Username,
			TotalPosts:      len(posts),
			DateRange:       models.DateRange{From: params.FromDate, To: params.ToDate},
			Filters:         filters,
		},
	}, nil
}

func inDateRange(date time.Time, from, to string) bool {
	day := date.Format("2006-01-02")
	if from != "" && day < from {
		return false
	}
	if to != "" && day > to {
		return false
	}
	return true
}
