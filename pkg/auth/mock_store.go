package auth

import (
	"sync"
)

// MockStore implements CredentialStore for testing
type MockStore struct {
	entries map[string]*Credentials
	mu      sync.RWMutex

	// Error injection for testing
	StoreError    error
	RetrieveError error
	ListError     error
	DeleteError   error
}

// NewMockStore creates an in-memory credential store
func NewMockStore() *MockStore {
	return &MockStore{
		entries: make(map[string]*Credentials),
	}
}

// Store saves credentials to the mock store
func (m *MockStore) Store(creds *Credentials) error {
	if m.StoreError != nil {
		return m.StoreError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if creds == nil || creds.Label == "" {
		return ErrInvalidCredentials
	}
	c := *creds
	m.entries[creds.Label] = &c
	return nil
}

// Retrieve gets credentials from the mock store
func (m *MockStore) Retrieve(label string) (*Credentials, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if label == "" {
		return nil, ErrInvalidCredentials
	}
	creds, exists := m.entries[label]
	if !exists {
		return nil, ErrCredentialsNotFound
	}
	c := *creds
	return &c, nil
}

// List returns all stored entries
func (m *MockStore) List() ([]*Credentials, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []*Credentials
	for _, creds := range m.entries {
		c := *creds
		entries = append(entries, &c)
	}
	return entries, nil
}

// Delete removes credentials from the mock store
func (m *MockStore) Delete(label string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if label == "" {
		return ErrInvalidCredentials
	}
	if _, exists := m.entries[label]; !exists {
		return ErrCredentialsNotFound
	}
	delete(m.entries, label)
	return nil
}

// Exists checks if credentials exist in the mock store
func (m *MockStore) Exists(label string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.entries[label]
	return exists
}

// Clear removes all entries
func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*Credentials)
}

// Count returns the number of stored entries
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// NewMockManager creates a Manager backed by a single mock store
func NewMockManager() (*Manager, *MockStore) {
	mockStore := NewMockStore()
	return &Manager{stores: []CredentialStore{mockStore}}, mockStore
}
