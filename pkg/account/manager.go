package account

import (
	"context"
	"time"

	"igboard/pkg/logger"
	"igboard/pkg/models"
)

const deferredRefreshDelay = 100 * time.Millisecond

// Manager is the selection facade over the Store. It resolves lookups by
// identifier, keeps bad ids from breaking callers, and runs token checks
// against the backend.
type Manager struct {
	store  *Store
	api    API
	logger logger.Logger

	// refreshDelay is the pause before the post-validation background
	// refresh; overridable in tests
	refreshDelay time.Duration
	// refreshDone is signalled after a background refresh finishes; nil
	// outside tests
	refreshDone chan struct{}
}

// NewManager creates a selection manager over the given store
func NewManager(store *Store, api API, log logger.Logger) *Manager {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Manager{
		store:        store,
		api:          api,
		logger:       log,
		refreshDelay: deferredRefreshDelay,
	}
}

// Store exposes the underlying account store
func (m *Manager) Store() *Store {
	return m.store
}

// SelectAccount selects the account with the given internal id. An unknown
// id is a logged no-op; the current selection is left untouched.
func (m *Manager) SelectAccount(id string) {
	account, ok := m.store.GetAccountByID(id)
	if !ok {
		m.logger.WarnWithFields("account not found, selection unchanged", map[string]interface{}{
			"account_id": id,
		})
		return
	}
	m.store.Select(account)
	m.logger.DebugWithFields("account selected", map[string]interface{}{
		"account_id": account.ID,
		"username":   account.Username,
	})
}

// SelectAccountByInstagramID selects the account with the given platform
// identifier. An unknown id is a logged no-op.
func (m *Manager) SelectAccountByInstagramID(instagramUserID string) {
	account, ok := m.store.GetAccountByInstagramID(instagramUserID)
	if !ok {
		m.logger.WarnWithFields("account not found, selection unchanged", map[string]interface{}{
			"instagram_user_id": instagramUserID,
		})
		return
	}
	m.store.Select(account)
	m.logger.DebugWithFields("account selected", map[string]interface{}{
		"account_id": account.ID,
		"username":   account.Username,
	})
}

// ValidateToken checks the stored token for an account against the backend.
// Returns nil when the account is unknown or the check itself fails; token
// validation is advisory and must not break the caller. After the check
// completes, success or failure, a delayed background refresh is scheduled
// so warning levels pick up the new expiry data. The caller does not wait
// on that refresh.
func (m *Manager) ValidateToken(ctx context.Context, accountID string) *models.TokenValidationResponse {
	if _, ok := m.store.GetAccountByID(accountID); !ok {
		m.logger.WarnWithFields("token validation skipped, account unknown", map[string]interface{}{
			"account_id": accountID,
		})
		return nil
	}

	resp, err := m.api.ValidateToken(ctx, accountID)
	if err != nil {
		m.logger.ErrorWithFields("token validation failed", map[string]interface{}{
			"account_id": accountID,
			"error":      err.Error(),
		})
	}

	go func() {
		time.Sleep(m.refreshDelay)
		if err := m.store.Refresh(context.Background()); err != nil {
			m.logger.WarnWithFields("post-validation refresh failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		if m.refreshDone != nil {
			m.refreshDone <- struct{}{}
		}
	}()

	if err != nil {
		return nil
	}
	return resp
}

// GetAccountStatus fetches the combined token and data freshness status for
// an account. Best effort; returns nil when the account is unknown or the
// fetch fails.
func (m *Manager) GetAccountStatus(ctx context.Context, accountID string) *models.AccountStatus {
	if _, ok := m.store.GetAccountByID(accountID); !ok {
		m.logger.WarnWithFields("status skipped, account unknown", map[string]interface{}{
			"account_id": accountID,
		})
		return nil
	}

	status, err := m.api.GetAccountStatus(ctx, accountID)
	if err != nil {
		m.logger.ErrorWithFields("status fetch failed", map[string]interface{}{
			"account_id": accountID,
			"error":      err.Error(),
		})
		return nil
	}
	return status
}
