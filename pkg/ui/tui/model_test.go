package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"igboard/pkg/dashboard"
	"igboard/pkg/models"
)

type fakeBackend struct {
	accounts    []models.Account
	accountsErr error
	insights    *models.PostInsightResponse
	insightsErr error
	exportPath  string
}

func (f *fakeBackend) LoadAccounts(ctx context.Context) ([]models.Account, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeBackend) FetchInsights(ctx context.Context, params models.PostInsightParams) (*models.PostInsightResponse, error) {
	return f.insights, f.insightsErr
}

func (f *fakeBackend) ExportReport(report *dashboard.Report) (string, error) {
	return f.exportPath, nil
}

func newLoadedModel(t *testing.T, backend *fakeBackend) Model {
	t.Helper()
	model := NewModel(backend)
	updated, _ := model.Update(accountsLoadedMsg{Accounts: backend.accounts})
	return updated.(Model)
}

func testBackend() *fakeBackend {
	return &fakeBackend{
		accounts: []models.Account{
			{ID: "acc-1", Username: "shop1", IsActive: true, IsTokenValid: true},
			{ID: "acc-2", Username: "shop2", IsActive: true, IsTokenValid: true},
		},
		insights: &models.PostInsightResponse{
			Posts: []models.PostInsight{
				{ID: "p1", Type: models.MediaTypeImage},
				{ID: "p2", Type: models.MediaTypeVideo},
			},
		},
	}
}

func TestModelAccountNavigationAndSelection(t *testing.T) {
	model := newLoadedModel(t, testBackend())

	if _, ok := model.SelectedAccount(); ok {
		t.Fatal("No account should be selected initially")
	}

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = updated.(Model)
	if model.cursor != 1 {
		t.Errorf("Expected cursor 1, got %d", model.cursor)
	}

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	if cmd == nil {
		t.Error("Selection should trigger an insight fetch")
	}
	selected, ok := model.SelectedAccount()
	if !ok || selected.ID != "acc-2" {
		t.Errorf("Expected acc-2 selected, got %+v", selected)
	}
	if !model.loadingPosts {
		t.Error("Selection should mark insights as loading")
	}
}

func TestModelInsightsLanding(t *testing.T) {
	backend := testBackend()
	model := newLoadedModel(t, backend)

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)

	updated, _ = model.Update(insightsLoadedMsg{AccountID: "acc-1", Response: backend.insights})
	model = updated.(Model)

	if model.loadingPosts {
		t.Error("Loading flag should clear after data lands")
	}
	if len(model.posts) != 2 {
		t.Errorf("Expected 2 posts, got %d", len(model.posts))
	}
}

func TestModelDiscardsStaleInsights(t *testing.T) {
	backend := testBackend()
	model := newLoadedModel(t, backend)

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)

	// data arrives for an account that is no longer selected
	updated, _ = model.Update(insightsLoadedMsg{AccountID: "acc-2", Response: backend.insights})
	model = updated.(Model)

	if len(model.posts) != 0 {
		t.Error("Stale insight data must not land")
	}
}

func TestModelMediaFilterCycling(t *testing.T) {
	backend := testBackend()
	model := newLoadedModel(t, backend)
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	updated, _ = model.Update(insightsLoadedMsg{AccountID: "acc-1", Response: backend.insights})
	model = updated.(Model)

	if got := model.MediaFilter(); got != models.MediaTypeAll {
		t.Errorf("Expected All filter, got %s", got)
	}
	if len(model.VisiblePosts()) != 2 {
		t.Error("All filter should show every post")
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	model = updated.(Model)
	if got := model.MediaFilter(); got != "IMAGE" {
		t.Errorf("Expected IMAGE filter, got %s", got)
	}
	if len(model.VisiblePosts()) != 1 {
		t.Error("IMAGE filter should show one post")
	}
}

func TestModelPanelCycling(t *testing.T) {
	model := newLoadedModel(t, testBackend())

	if model.CurrentPanel() != dashboard.PanelPosts {
		t.Errorf("Expected posts panel first, got %s", model.CurrentPanel())
	}

	for range dashboard.Panels {
		updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyTab})
		model = updated.(Model)
	}
	if model.CurrentPanel() != dashboard.PanelPosts {
		t.Error("Cycling through all panels should wrap around")
	}
}

func TestModelAccountLoadError(t *testing.T) {
	model := NewModel(testBackend())

	updated, _ := model.Update(accountsErrorMsg{Err: errors.New("backend down")})
	model = updated.(Model)

	if model.accountsError != "backend down" {
		t.Errorf("Expected error captured, got %q", model.accountsError)
	}
	if model.loadingAccts {
		t.Error("Loading flag should clear on error")
	}
}
