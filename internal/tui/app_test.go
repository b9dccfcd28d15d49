package tui

import (
	"context"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mlbcast/internal/fixture"
	"mlbcast/internal/gateway"
	"mlbcast/internal/testutil"
	"mlbcast/internal/wizard"
)

func newTestApp(t *testing.T) (*App, *wizard.Controller) {
	t.Helper()
	logger, _ := testutil.NewBufferLogger()
	gw := gateway.New(gateway.Config{
		BaseURL:    "https://fixture.local/api/v1",
		HTTPClient: &http.Client{Transport: fixture.New()},
		Logger:     logger,
	})
	ctrl := wizard.New(gw, wizard.Options{Logger: logger})
	return NewApp(ctrl, gw, logger), ctrl
}

func TestAppStartsOnTeamSelect(t *testing.T) {
	app, _ := newTestApp(t)

	view := app.View()
	if !strings.Contains(view, "Step 1 of 2") {
		t.Fatalf("expected team-select indicator, got:\n%s", view)
	}
}

func TestFilteredTeamsNarrowsByQuery(t *testing.T) {
	app, ctrl := newTestApp(t)

	if err := ctrl.LoadTeams(context.Background(), false); err != nil {
		t.Fatalf("LoadTeams failed: %v", err)
	}
	model, _ := app.Update(stateChangedMsg{})
	app = model.(*App)

	if got := len(app.filteredTeams()); got != 4 {
		t.Fatalf("expected 4 teams unfiltered, got %d", got)
	}

	app.filter.SetValue("red sox")
	teams := app.filteredTeams()
	if len(teams) != 1 || teams[0].Name != "Boston Red Sox" {
		t.Fatalf("unexpected filter result: %+v", teams)
	}

	app.filter.SetValue("zzz")
	if got := len(app.filteredTeams()); got != 0 {
		t.Fatalf("expected no match, got %d", got)
	}
}

func TestWindowSizeIsStored(t *testing.T) {
	app, _ := newTestApp(t)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(*App)

	if app.width != 120 || app.height != 40 {
		t.Fatalf("unexpected dimensions: %dx%d", app.width, app.height)
	}
}

func TestCtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.Quit")
	}
}

func TestClampBounds(t *testing.T) {
	if clamp(5, 0, 3) != 3 {
		t.Fatal("expected clamp to upper bound")
	}
	if clamp(-1, 0, 3) != 0 {
		t.Fatal("expected clamp to lower bound")
	}
	if clamp(2, 0, 3) != 2 {
		t.Fatal("expected in-range value unchanged")
	}
	if clamp(1, 0, -1) != 0 {
		t.Fatal("empty range should pin to lower bound")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 60); got != "short" {
		t.Fatalf("short strings should pass through, got %q", got)
	}
	long := strings.Repeat("a", 70)
	got := truncate(long, 60)
	if len(got) != 60 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
