package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestTokenWarningExpiredOverridesDays(t *testing.T) {
	// An invalid token is expired no matter what days_until_expiry says
	for _, days := range []*int{nil, intPtr(0), intPtr(5), intPtr(100)} {
		a := Account{IsTokenValid: false, DaysUntilExpiry: days}
		assert.Equal(t, TokenWarningExpired, a.TokenWarning())
	}
}

func TestTokenWarningThresholds(t *testing.T) {
	tests := []struct {
		name string
		days *int
		want TokenWarningLevel
	}{
		{"absent", nil, TokenWarningNone},
		{"negative treated as expired", intPtr(-1), TokenWarningExpired},
		{"zero days", intPtr(0), TokenWarningCritical},
		{"one day", intPtr(1), TokenWarningCritical},
		{"two days", intPtr(2), TokenWarningWarning},
		{"seven days", intPtr(7), TokenWarningWarning},
		{"eight days", intPtr(8), TokenWarningNone},
		{"thirty days", intPtr(30), TokenWarningNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Account{IsTokenValid: true, DaysUntilExpiry: tt.days}
			assert.Equal(t, tt.want, a.TokenWarning())
		})
	}
}

func TestSummarize(t *testing.T) {
	a := Account{
		ID:              "a1",
		Username:        "shop1",
		IsActive:        true,
		IsTokenValid:    true,
		DaysUntilExpiry: intPtr(3),
	}

	summary := a.Summarize()
	assert.Equal(t, "a1", summary.ID)
	assert.Equal(t, "shop1", summary.DisplayName)
	assert.True(t, summary.IsActive)
	assert.Equal(t, TokenWarningWarning, summary.TokenWarning)
	assert.Equal(t, 3, *summary.DaysUntilExpiry)
}

func TestDisplayNamePrefersAccountName(t *testing.T) {
	a := Account{Username: "shop1", AccountName: "The Shop"}
	assert.Equal(t, "The Shop", a.DisplayName())

	a.AccountName = ""
	assert.Equal(t, "shop1", a.DisplayName())
}

func TestAvatarFallbackIsDeterministic(t *testing.T) {
	a := Account{Username: "shop one"}
	assert.Equal(t, a.Avatar(), a.Avatar())
	assert.Contains(t, a.Avatar(), "ui-avatars.com")

	a.ProfilePictureURL = "https://cdn.example.com/p.jpg"
	assert.Equal(t, "https://cdn.example.com/p.jpg", a.Avatar())
}

func TestComputeTokenStats(t *testing.T) {
	accounts := []Account{
		{IsActive: true, IsTokenValid: true, DaysUntilExpiry: intPtr(30)}, // valid, none
		{IsActive: true, IsTokenValid: true, DaysUntilExpiry: intPtr(5)},  // valid, warning
		{IsActive: false, IsTokenValid: true, DaysUntilExpiry: intPtr(1)}, // valid, critical
		{IsActive: true, IsTokenValid: false},                             // expired
	}

	stats := ComputeTokenStats(accounts)
	assert.Equal(t, TokenStats{
		Total:    4,
		Active:   3,
		Valid:    3,
		Warning:  1,
		Critical: 1,
		Expired:  1,
	}, stats)
}
