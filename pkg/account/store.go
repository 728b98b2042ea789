package account

import (
	"context"
	"sync"

	"igboard/pkg/logger"
	"igboard/pkg/models"
)

// API is the slice of the backend client the account layer consumes
type API interface {
	GetAccounts(ctx context.Context, params models.GetAccountsParams) (*models.AccountListResponse, error)
	ValidateToken(ctx context.Context, accountID string) (*models.TokenValidationResponse, error)
	GetAccountStatus(ctx context.Context, accountID string) (*models.AccountStatus, error)
}

// Store holds the session-wide account state: the account list, the currently
// selected account, and loading/error flags. It is constructed once by the
// application root and injected into consumers; all mutation goes through its
// operations. Individual accounts are never mutated in place; Refresh
// replaces the whole list.
type Store struct {
	mu       sync.RWMutex
	accounts []models.Account
	selected *models.Account
	loading  bool
	errMsg   string

	api    API
	logger logger.Logger
}

// NewStore creates an account store backed by the given API
func NewStore(api API, log logger.Logger) *Store {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Store{
		api:    api,
		logger: log,
	}
}

// Refresh fetches the account list and replaces the held list atomically.
// If the previously selected account's id is no longer present, the selection
// is cleared. On failure the last good list is preserved and the failure
// message becomes the store error. The loading flag is never left stuck.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	resp, err := s.api.GetAccounts(ctx, models.GetAccountsParams{})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.errMsg = err.Error()
		s.logger.ErrorWithFields("account refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	s.accounts = resp.Accounts
	if s.selected != nil {
		if _, ok := findByID(s.accounts, s.selected.ID); !ok {
			s.logger.WarnWithFields("selected account disappeared on refresh", map[string]interface{}{
				"account_id": s.selected.ID,
			})
			s.selected = nil
		}
	}

	s.logger.DebugWithFields("account list refreshed", map[string]interface{}{
		"count":        len(resp.Accounts),
		"active_count": resp.ActiveCount,
	})
	return nil
}

// Select sets the current selection. Membership in the current list is not
// validated; passing an unknown account is treated as caller intent.
func (s *Store) Select(account models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := account
	s.selected = &a
}

// ClearSelection drops the current selection
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// ClearError resets the store error; idempotent
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// Accounts returns a copy of the current account list
func (s *Store) Accounts() []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Selected returns the currently selected account, if any
func (s *Store) Selected() (models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return models.Account{}, false
	}
	return *s.selected, true
}

// Loading reports whether a refresh is in flight
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the current error message, empty when none
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// GetAccountByID looks up an account by internal id
func (s *Store) GetAccountByID(id string) (models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.accounts, id)
}

// GetAccountByInstagramID looks up an account by external platform identifier
func (s *Store) GetAccountByInstagramID(instagramUserID string) (models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.InstagramUserID == instagramUserID {
			return a, true
		}
	}
	return models.Account{}, false
}

// GetValidAccounts returns the accounts whose active flag is set
func (s *Store) GetValidAccounts() []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out
}

// GetAccountSummary derives the presentation digest for an account.
// Recomputed on every call, never cached.
func (s *Store) GetAccountSummary(account models.Account) models.AccountSummary {
	return account.Summarize()
}

// TokenStats tallies token warning levels over the current list
func (s *Store) TokenStats() models.TokenStats {
	return models.ComputeTokenStats(s.Accounts())
}

func findByID(accounts []models.Account, id string) (models.Account, bool) {
	for _, a := range accounts {
		if a.ID == id {
			return a, true
		}
	}
	return models.Account{}, false
}
