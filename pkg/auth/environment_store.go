package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables,
// mainly for CI and one-shot setups
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(creds *Credentials) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(label string) (*Credentials, error) {
	appID := os.Getenv("IGBOARD_APP_ID")
	appSecret := os.Getenv("IGBOARD_APP_SECRET")
	shortToken := os.Getenv("IGBOARD_SHORT_TOKEN")

	if appID == "" || appSecret == "" {
		return nil, ErrCredentialsNotFound
	}

	if label == "" {
		label = "default"
	}
	return &Credentials{
		Label:        label,
		AppID:        appID,
		AppSecret:    appSecret,
		ShortToken:   shortToken,
		LastModified: time.Now(),
	}, nil
}

// List returns a single entry if environment variables are set
func (e *EnvironmentStore) List() ([]*Credentials, error) {
	creds, err := e.Retrieve("")
	if err != nil {
		return []*Credentials{}, nil
	}
	return []*Credentials{creds}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(label string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(label string) bool {
	return os.Getenv("IGBOARD_APP_ID") != "" && os.Getenv("IGBOARD_APP_SECRET") != ""
}
