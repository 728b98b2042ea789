package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"igboard/pkg/dashboard"
	"igboard/pkg/logger"
)

// Snapshot is the metadata written alongside each exported report
type Snapshot struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Username  string    `json:"username"`
	Panels    []string  `json:"panels"`
	PostCount int       `json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager writes dashboard reports to disk as JSON snapshots. Writes are
// atomic and duplicate filenames get a numeric suffix unless overwriting is
// enabled.
type Manager struct {
	outputDir string
	overwrite bool
	mu        sync.Mutex
	logger    logger.Logger
}

// NewManager creates an export manager rooted at outputDir
func NewManager(outputDir string, overwrite bool, log logger.Logger) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Manager{
		outputDir: outputDir,
		overwrite: overwrite,
		logger:    log,
	}, nil
}

// WriteReport exports a dashboard report. Two files are written: the report
// itself and a snapshot metadata file sharing its base name. Returns the
// report path.
func (m *Manager) WriteReport(report *dashboard.Report) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	base := fmt.Sprintf("%s_%s", report.Account.Username, report.GeneratedAt.Format("2006-01-02"))
	reportPath := m.resolvePath(base + ".report.json")

	if err := m.writeJSON(reportPath, report); err != nil {
		return "", err
	}

	snapshot := Snapshot{
		ID:        uuid.NewString(),
		AccountID: report.Account.ID,
		Username:  report.Account.Username,
		Panels:    panelNames(report),
		PostCount: len(report.Posts),
		CreatedAt: time.Now().UTC(),
	}
	metaPath := reportPath[:len(reportPath)-len(".report.json")] + ".meta.json"
	if err := m.writeJSON(metaPath, &snapshot); err != nil {
		return "", err
	}

	m.logger.InfoWithFields("report exported", map[string]interface{}{
		"path":        reportPath,
		"snapshot_id": snapshot.ID,
		"post_count":  snapshot.PostCount,
	})
	return reportPath, nil
}

// panelNames lists the panels present in a report, yearly and monthly
// aggregates ahead of the raw posts
func panelNames(report *dashboard.Report) []string {
	panels := []string{string(dashboard.PanelSummary)}
	if len(report.Yearly) > 0 {
		panels = append(panels, string(dashboard.PanelYearly))
	}
	if len(report.Monthly) > 0 {
		panels = append(panels, string(dashboard.PanelMonthly))
	}
	if len(report.Posts) > 0 {
		panels = append(panels, string(dashboard.PanelPosts))
	}
	return panels
}

// resolvePath picks a collision-free path under the output directory
func (m *Manager) resolvePath(name string) string {
	path := filepath.Join(m.outputDir, name)
	if m.overwrite {
		return path
	}
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		ext := ".report.json"
		base := name[:len(name)-len(ext)]
		path = filepath.Join(m.outputDir, fmt.Sprintf("%s_%d%s", base, i, ext))
	}
}

// writeJSON writes v atomically via a temp file and rename
func (m *Manager) writeJSON(path string, v interface{}) error {
	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync export file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close export file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to finalize export file: %w", err)
	}
	return nil
}

// ListSnapshots reads the snapshot metadata files in the output directory
func (m *Manager) ListSnapshots() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read export directory: %w", err)
	}

	var snapshots []Snapshot
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if len(entry.Name()) < len(".meta.json") || entry.Name()[len(entry.Name())-len(".meta.json"):] != ".meta.json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(m.outputDir, entry.Name()))
		if err != nil {
			continue
		}
		var s Snapshot
		if err := json.Unmarshal(data, &s); err != nil {
			m.logger.WarnWithFields("skipping unreadable snapshot", map[string]interface{}{
				"file":  entry.Name(),
				"error": err.Error(),
			})
			continue
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}
