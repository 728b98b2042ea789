package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"igboard/pkg/logger"
)

// Session is the dashboard state that survives restarts: which account was
// selected and the last view settings. It is a convenience only; a missing
// or corrupt session file starts a fresh session.
type Session struct {
	SelectedAccountID string    `json:"selected_account_id"`
	MediaTypeFilter   string    `json:"media_type_filter,omitempty"`
	FromDate          string    `json:"from_date,omitempty"`
	ToDate            string    `json:"to_date,omitempty"`
	LastRefreshedAt   time.Time `json:"last_refreshed_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Version           int       `json:"version"`
}

// Manager persists the session file
type Manager struct {
	sessionPath string
	logger      logger.Logger
}

// NewManager creates a session manager writing under the user data directory
func NewManager() (*Manager, error) {
	dataDir, err := getDataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}
	return NewManagerAt(filepath.Join(dataDir, "session.json")), nil
}

// NewManagerAt creates a session manager for an explicit file path
func NewManagerAt(path string) *Manager {
	return &Manager{
		sessionPath: path,
		logger:      logger.GetLogger(),
	}
}

// Load reads the persisted session. A missing file returns (nil, nil); a
// corrupt file is treated the same way, since losing the session only costs
// a re-selection.
func (m *Manager) Load() (*Session, error) {
	file, err := os.Open(m.sessionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer file.Close()

	var session Session
	if err := json.NewDecoder(file).Decode(&session); err != nil {
		m.logger.WarnWithFields("session file unreadable, starting fresh", map[string]interface{}{
			"path":  m.sessionPath,
			"error": err.Error(),
		})
		return nil, nil
	}

	m.logger.DebugWithFields("session loaded", map[string]interface{}{
		"selected_account_id": session.SelectedAccountID,
		"updated_at":          session.UpdatedAt,
	})
	return &session, nil
}

// Save writes the session to disk atomically
func (m *Manager) Save(session *Session) error {
	session.UpdatedAt = time.Now()
	if session.Version == 0 {
		session.Version = 1
	}

	if err := os.MkdirAll(filepath.Dir(m.sessionPath), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tempPath := m.sessionPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary session file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(session); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync session file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close session file: %w", err)
	}

	if err := os.Rename(tempPath, m.sessionPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	m.logger.DebugWithFields("session saved", map[string]interface{}{
		"selected_account_id": session.SelectedAccountID,
	})
	return nil
}

// Delete removes the session file; missing is not an error
func (m *Manager) Delete() error {
	if err := os.Remove(m.sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Exists reports whether a session file is present
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.sessionPath)
	return err == nil
}

// RecordSelection updates the persisted selection
func (m *Manager) RecordSelection(accountID string) error {
	session, err := m.Load()
	if err != nil {
		return err
	}
	if session == nil {
		session = &Session{Version: 1}
	}
	session.SelectedAccountID = accountID
	return m.Save(session)
}

// RecordRefresh stamps the last successful data refresh
func (m *Manager) RecordRefresh(at time.Time) error {
	session, err := m.Load()
	if err != nil {
		return err
	}
	if session == nil {
		session = &Session{Version: 1}
	}
	session.LastRefreshedAt = at
	return m.Save(session)
}

// getDataDirectory returns the per-OS data directory
func getDataDirectory() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "linux":
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "igboard")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "igboard")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "igboard")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "igboard")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dataDir, nil
}
