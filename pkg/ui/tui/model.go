package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"igboard/pkg/dashboard"
	"igboard/pkg/models"
)

// Backend is what the dashboard needs from the application layer
type Backend interface {
	LoadAccounts(ctx context.Context) ([]models.Account, error)
	FetchInsights(ctx context.Context, params models.PostInsightParams) (*models.PostInsightResponse, error)
	ExportReport(report *dashboard.Report) (string, error)
}

// mediaFilters is the cycling order of the media type filter
var mediaFilters = []string{
	models.MediaTypeAll,
	string(models.MediaTypeImage),
	string(models.MediaTypeVideo),
	string(models.MediaTypeCarousel),
	string(models.MediaTypeStory),
}

// Model is the dashboard TUI state
type Model struct {
	backend Backend

	spinner spinner.Model

	// account panel
	accounts      []models.Account
	cursor        int
	selected      int // index into accounts, -1 when none
	loadingAccts  bool
	accountsError string

	// insight panel
	posts        []models.PostInsight
	summary      models.PostInsightSummary
	loadingPosts bool
	postsError   string
	lastFetched  time.Time

	// view state
	panel       int // index into dashboard.Panels
	mediaFilter int // index into mediaFilters
	width       int
	height      int
	showHelp    bool
	statusLine  string

	logMessages    []logEntry
	maxLogMessages int
}

type logEntry struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates the dashboard model
func NewModel(backend Backend) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentCyan)

	return Model{
		backend:        backend,
		spinner:        s,
		selected:       -1,
		maxLogMessages: 50,
	}
}

// Init starts the spinner and loads the account list
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadAccountsCmd())
}

// SelectedAccount returns the selected account, if any
func (m *Model) SelectedAccount() (models.Account, bool) {
	if m.selected < 0 || m.selected >= len(m.accounts) {
		return models.Account{}, false
	}
	return m.accounts[m.selected], true
}

// MediaFilter returns the active media type filter
func (m *Model) MediaFilter() string {
	return mediaFilters[m.mediaFilter]
}

// VisiblePosts returns the held posts after the media filter
func (m *Model) VisiblePosts() []models.PostInsight {
	return models.FilterByMediaType(m.posts, m.MediaFilter())
}

// CurrentPanel returns the active panel
func (m *Model) CurrentPanel() dashboard.Panel {
	return dashboard.Panels[m.panel]
}

func (m *Model) addLog(level, message string) {
	color := dimWhite
	switch level {
	case "ERROR":
		color = accentRed
	case "WARN":
		color = accentOrange
	case "SUCCESS":
		color = accentGreen
	case "INFO":
		color = accentCyan
	}

	m.logMessages = append(m.logMessages, logEntry{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// loadAccountsCmd fetches the account list off the UI goroutine
func (m Model) loadAccountsCmd() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		accounts, err := backend.LoadAccounts(context.Background())
		if err != nil {
			return accountsErrorMsg{Err: err}
		}
		return accountsLoadedMsg{Accounts: accounts}
	}
}

// fetchInsightsCmd fetches post insights for the selected account
func (m Model) fetchInsightsCmd(account models.Account) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		resp, err := backend.FetchInsights(context.Background(), models.PostInsightParams{
			AccountID: account.ID,
		})
		if err != nil {
			return insightsErrorMsg{AccountID: account.ID, Err: err}
		}
		return insightsLoadedMsg{AccountID: account.ID, Response: resp}
	}
}

// exportCmd writes the current report to disk
func (m Model) exportCmd() tea.Cmd {
	account, ok := m.SelectedAccount()
	if !ok {
		return func() tea.Msg {
			return exportDoneMsg{Err: errNoAccountSelected}
		}
	}
	backend := m.backend
	posts := m.VisiblePosts()
	return func() tea.Msg {
		path, err := backend.ExportReport(dashboard.BuildReport(account, posts))
		return exportDoneMsg{Path: path, Err: err}
	}
}
