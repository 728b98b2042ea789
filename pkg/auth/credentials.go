package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Credentials holds the Meta app secrets used during account setup
type Credentials struct {
	Label        string    `json:"label"`
	AppID        string    `json:"app_id"`
	AppSecret    string    `json:"app_secret"`
	ShortToken   string    `json:"short_token"`
	LastModified time.Time `json:"last_modified"`
}

// CredentialStore stores and retrieves setup credentials
type CredentialStore interface {
	Store(creds *Credentials) error
	Retrieve(label string) (*Credentials, error)
	List() ([]*Credentials, error)
	Delete(label string) error
	Exists(label string) bool
}

// Manager chains credential stores with fallback: system keychain first,
// then an encrypted file, then environment variables.
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a credential manager with the available backends
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)
	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over an explicit store chain
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves credentials to the first store that accepts them
func (m *Manager) Store(creds *Credentials) error {
	if creds.Label == "" {
		return errors.New("label is required")
	}
	if creds.AppID == "" {
		return errors.New("app ID is required")
	}
	if creds.AppSecret == "" {
		return errors.New("app secret is required")
	}

	creds.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(creds); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Retrieve gets credentials from the first store that has them
func (m *Manager) Retrieve(label string) (*Credentials, error) {
	for _, store := range m.stores {
		if creds, err := store.Retrieve(label); err == nil && creds != nil {
			return creds, nil
		}
	}
	return nil, fmt.Errorf("credentials not found: %s", label)
}

// RetrieveDefault gets the environment credentials if present, otherwise the
// first stored entry
func (m *Manager) RetrieveDefault() (*Credentials, error) {
	if envStore, ok := m.stores[len(m.stores)-1].(*EnvironmentStore); ok {
		if creds, err := envStore.Retrieve(""); err == nil && creds != nil {
			return creds, nil
		}
	}

	entries, err := m.List()
	if err == nil && len(entries) > 0 {
		return entries[0], nil
	}
	return nil, errors.New("no credentials found")
}

// List merges the entries of all stores, keeping the most recently modified
// version of each label
func (m *Manager) List() ([]*Credentials, error) {
	byLabel := make(map[string]*Credentials)
	for _, store := range m.stores {
		entries, err := store.List()
		if err != nil {
			continue
		}
		for _, creds := range entries {
			if existing, ok := byLabel[creds.Label]; !ok || creds.LastModified.After(existing.LastModified) {
				byLabel[creds.Label] = creds
			}
		}
	}

	var result []*Credentials
	for _, creds := range byLabel {
		result = append(result, creds)
	}
	return result, nil
}

// Delete removes credentials from every store holding them
func (m *Manager) Delete(label string) error {
	var deleted bool
	var lastErr error
	for _, store := range m.stores {
		if err := store.Delete(label); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("credentials not found: %s", label)
	}
	return nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "igboard")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "igboard")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "igboard")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "igboard")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDir, nil
}

// Sanitize returns a copy with the secrets masked for display
func Sanitize(creds *Credentials) *Credentials {
	if creds == nil {
		return nil
	}
	return &Credentials{
		Label:        creds.Label,
		AppID:        creds.AppID,
		AppSecret:    maskString(creds.AppSecret),
		ShortToken:   maskString(creds.ShortToken),
		LastModified: creds.LastModified,
	}
}

// maskString masks all but the first 4 and last 4 characters
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
