package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"igboard/pkg/dashboard"
	"igboard/pkg/models"
)

// View renders the dashboard
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, headerStyle.Render("IGBOARD — account analytics"))

	left := m.renderAccountsPanel()
	right := m.renderInsightPanel()
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))

	sections = append(sections, m.renderLogsPanel())

	if m.statusLine != "" {
		sections = append(sections, valueStyle.Render(m.statusLine))
	}
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("↑/↓ move · enter select · tab panel · f filter · r refresh · e export · ? help · q quit"))
	}

	return baseStyle.Width(m.width).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m Model) renderAccountsPanel() string {
	width := (m.width - 6) / 3
	if width < 24 {
		width = 24
	}

	var rows []string
	rows = append(rows, titleStyle.Render(" ACCOUNTS "))

	switch {
	case m.loadingAccts:
		rows = append(rows, rowStyle.Render(m.spinner.View()+" loading..."))
	case m.accountsError != "":
		rows = append(rows, errorStyle.Render(m.accountsError))
	case len(m.accounts) == 0:
		rows = append(rows, rowStyle.Render("no accounts connected"))
	default:
		for i, a := range m.accounts {
			summary := a.Summarize()
			marker := "  "
			if i == m.selected {
				marker = "▸ "
			}
			label := marker + summary.DisplayName
			warning := a.TokenWarning()
			if warning != models.TokenWarningNone {
				label += " " + tokenWarningStyle(string(warning)).Render("["+string(warning)+"]")
			}

			style := rowStyle
			if i == m.cursor {
				style = rowSelectedStyle
			} else if !a.IsActive {
				style = rowInactiveStyle
			}
			rows = append(rows, style.Render(label))
		}
	}

	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderInsightPanel() string {
	width := m.width - (m.width-6)/3 - 8
	if width < 40 {
		width = 40
	}

	var rows []string
	rows = append(rows, m.renderTabs())

	switch {
	case m.selected < 0:
		rows = append(rows, rowStyle.Render("select an account to load insights"))
	case m.loadingPosts:
		rows = append(rows, rowStyle.Render(m.spinner.View()+" fetching insights..."))
	case m.postsError != "":
		rows = append(rows, errorStyle.Render(m.postsError))
	default:
		rows = append(rows, m.renderPanelBody(width)...)
	}

	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, p := range dashboard.Panels {
		style := tabStyle
		if i == m.panel {
			style = tabActiveStyle
		}
		tabs = append(tabs, style.Render(string(p)))
	}
	tabs = append(tabs, tabStyle.Render("· filter: "+m.MediaFilter()))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderPanelBody(width int) []string {
	posts := m.VisiblePosts()

	switch m.CurrentPanel() {
	case dashboard.PanelPosts:
		return m.renderPostRows(posts, width)
	case dashboard.PanelMonthly:
		return renderBuckets(dashboard.AggregateMonthly(posts))
	case dashboard.PanelYearly:
		return renderBuckets(dashboard.AggregateYearly(posts))
	default:
		return m.renderSummary(posts)
	}
}

func (m Model) renderPostRows(posts []models.PostInsight, width int) []string {
	if len(posts) == 0 {
		return []string{rowStyle.Render("no posts match the current filter")}
	}

	var rows []string
	rows = append(rows, labelStyle.Render(fmt.Sprintf("%-12s %-10s %8s %8s %8s", "DATE", "TYPE", "REACH", "ENGAGE", "RATE")))
	max := len(posts)
	if max > 15 {
		max = 15
	}
	for _, p := range posts[:max] {
		rows = append(rows, rowStyle.Render(fmt.Sprintf(
			"%-12s %-10s %8d %8d %7.2f%%",
			p.Date.Format("2006-01-02"), p.Type, p.Reach, p.Engagement(), p.EngagementRate,
		)))
	}
	if len(posts) > max {
		rows = append(rows, rowInactiveStyle.Render(fmt.Sprintf("… and %d more", len(posts)-max)))
	}
	return rows
}

func renderBuckets(buckets []dashboard.Bucket) []string {
	if len(buckets) == 0 {
		return []string{rowStyle.Render("no data")}
	}

	rows := []string{labelStyle.Render(fmt.Sprintf("%-10s %6s %10s %10s %8s", "PERIOD", "POSTS", "REACH", "ENGAGE", "RATE"))}
	for _, b := range buckets {
		rows = append(rows, rowStyle.Render(fmt.Sprintf(
			"%-10s %6d %10d %10d %7.2f%%",
			b.Key, b.Posts, b.Reach, b.Engagement, b.AvgEngagementRate,
		)))
	}
	return rows
}

func (m Model) renderSummary(posts []models.PostInsight) []string {
	summary := models.SummarizePosts(posts)

	rows := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("Posts:"), valueStyle.Render(fmt.Sprintf("%d", summary.TotalPosts))),
		fmt.Sprintf("%s %s", labelStyle.Render("Total reach:"), valueStyle.Render(fmt.Sprintf("%d", summary.TotalReach))),
		fmt.Sprintf("%s %s", labelStyle.Render("Total engagement:"), valueStyle.Render(fmt.Sprintf("%d", summary.TotalEngagement))),
		fmt.Sprintf("%s %s", labelStyle.Render("Avg engagement rate:"), valueStyle.Render(fmt.Sprintf("%.2f%%", summary.AvgEngagementRate))),
	}
	if summary.BestPerformingPost != nil {
		rows = append(rows, fmt.Sprintf("%s %s",
			labelStyle.Render("Best post:"),
			valueStyle.Render(fmt.Sprintf("%s (%.2f%%)", summary.BestPerformingPost.ID, summary.BestPerformingPost.EngagementRate)),
		))
	}
	if len(summary.MediaTypeDistribution) > 0 {
		var parts []string
		for mt, count := range summary.MediaTypeDistribution {
			parts = append(parts, fmt.Sprintf("%s=%d", mt, count))
		}
		rows = append(rows, fmt.Sprintf("%s %s", labelStyle.Render("Media types:"), valueStyle.Render(strings.Join(parts, " "))))
	}
	return rows
}

func (m Model) renderLogsPanel() string {
	var rows []string
	rows = append(rows, titleStyle.Render(" ACTIVITY "))

	start := 0
	if len(m.logMessages) > 5 {
		start = len(m.logMessages) - 5
	}
	if len(m.logMessages) == 0 {
		rows = append(rows, rowInactiveStyle.Render("nothing yet"))
	}
	for _, entry := range m.logMessages[start:] {
		line := fmt.Sprintf("%s %s",
			rowInactiveStyle.Render(entry.Time.Format(time.TimeOnly)),
			lipgloss.NewStyle().Foreground(entry.Color).Render(entry.Message),
		)
		rows = append(rows, line)
	}

	return panelStyle.Width(m.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderHelp() string {
	help := []string{
		"↑/k, ↓/j    move between accounts",
		"enter       select account and fetch insights",
		"tab         next panel (posts, monthly, yearly, summary)",
		"f           cycle media type filter",
		"r           refresh accounts and insights",
		"e           export the current view to disk",
		"?           toggle this help",
		"q           quit",
	}
	return helpStyle.Render(strings.Join(help, "\n"))
}
