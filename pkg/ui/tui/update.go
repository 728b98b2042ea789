package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"igboard/pkg/dashboard"
	"igboard/pkg/models"
)

var errNoAccountSelected = errors.New("no account selected")

// Message types for the TUI

type accountsLoadedMsg struct {
	Accounts []models.Account
}

type accountsErrorMsg struct {
	Err error
}

type insightsLoadedMsg struct {
	AccountID string
	Response  *models.PostInsightResponse
}

type insightsErrorMsg struct {
	AccountID string
	Err       error
}

type exportDoneMsg struct {
	Path string
	Err  error
}

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case accountsLoadedMsg:
		m.loadingAccts = false
		m.accountsError = ""
		m.accounts = msg.Accounts
		if m.cursor >= len(m.accounts) {
			m.cursor = 0
		}
		// keep the selection only if its id survived the reload
		if acc, ok := m.SelectedAccount(); ok {
			m.selected = -1
			for i, a := range m.accounts {
				if a.ID == acc.ID {
					m.selected = i
					break
				}
			}
		}
		m.addLog("INFO", fmt.Sprintf("Loaded %d accounts", len(msg.Accounts)))
		return m, nil

	case accountsErrorMsg:
		m.loadingAccts = false
		m.accountsError = msg.Err.Error()
		m.addLog("ERROR", "Account load failed: "+msg.Err.Error())
		return m, nil

	case insightsLoadedMsg:
		if acc, ok := m.SelectedAccount(); !ok || acc.ID != msg.AccountID {
			// stale completion for a previous selection
			m.addLog("WARN", "Discarded stale insight data for "+msg.AccountID)
			return m, nil
		}
		m.loadingPosts = false
		m.postsError = ""
		m.posts = msg.Response.Posts
		m.summary = msg.Response.Summary
		m.addLog("SUCCESS", fmt.Sprintf("Fetched %d posts", len(msg.Response.Posts)))
		return m, nil

	case insightsErrorMsg:
		m.loadingPosts = false
		m.postsError = msg.Err.Error()
		m.addLog("ERROR", "Insight fetch failed: "+msg.Err.Error())
		return m, nil

	case exportDoneMsg:
		if msg.Err != nil {
			m.statusLine = "Export failed: " + msg.Err.Error()
			m.addLog("ERROR", m.statusLine)
		} else {
			m.statusLine = "Exported " + msg.Path
			m.addLog("SUCCESS", m.statusLine)
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.accounts)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		if m.cursor < 0 || m.cursor >= len(m.accounts) {
			return m, nil
		}
		m.selected = m.cursor
		account := m.accounts[m.selected]
		m.loadingPosts = true
		m.postsError = ""
		m.posts = nil
		m.addLog("INFO", "Selected @"+account.Username)
		return m, m.fetchInsightsCmd(account)

	case "tab":
		m.panel = (m.panel + 1) % len(dashboard.Panels)
		return m, nil

	case "shift+tab":
		m.panel = (m.panel - 1 + len(dashboard.Panels)) % len(dashboard.Panels)
		return m, nil

	case "f":
		m.mediaFilter = (m.mediaFilter + 1) % len(mediaFilters)
		m.addLog("INFO", "Media filter: "+m.MediaFilter())
		return m, nil

	case "r":
		cmds := []tea.Cmd{m.loadAccountsCmd()}
		m.loadingAccts = true
		if account, ok := m.SelectedAccount(); ok {
			m.loadingPosts = true
			cmds = append(cmds, m.fetchInsightsCmd(account))
		}
		m.addLog("INFO", "Refreshing...")
		return m, tea.Batch(cmds...)

	case "e":
		return m, m.exportCmd()

	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}

	return m, nil
}
