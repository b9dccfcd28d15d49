// Package tui renders the podcast wizard. It is view glue only: every
// mutation goes through the wizard controller, every fetch through the
// gateway.
package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mlbcast/internal/domain/podcast"
	"mlbcast/internal/gateway"
	"mlbcast/internal/wizard"
)

// configurePane identifies the focused section of the Configure step.
type configurePane int

const (
	paneLanguage configurePane = iota
	paneGames
	panePlayers
)

const paneCount = 3

// App implements tea.Model for the wizard.
type App struct {
	ctrl   *wizard.Controller
	gw     *gateway.Gateway
	logger *slog.Logger

	width  int
	height int

	snap wizard.Snapshot

	// Team selection
	teamCursor int
	filter     textinput.Model

	// Configure
	pane         configurePane
	langIndex    int
	gameCursor   int
	playerCursor int

	spinner   spinner.Model
	showDebug bool
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Gateway         *gateway.Gateway
	Logger          *slog.Logger
	DefaultLanguage string
}

// Run wires the controller to a bubbletea program and blocks until exit.
func Run(opts RunOpts) error {
	var program *tea.Program

	ctrl := wizard.New(opts.Gateway, wizard.Options{
		Logger:          opts.Logger,
		DefaultLanguage: opts.DefaultLanguage,
		OnChange: func() {
			if program != nil {
				program.Send(stateChangedMsg{})
			}
		},
	})

	app := NewApp(ctrl, opts.Gateway, opts.Logger)
	program = tea.NewProgram(app, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// NewApp builds the model; exported separately from Run for tests.
func NewApp(ctrl *wizard.Controller, gw *gateway.Gateway, logger *slog.Logger) *App {
	filter := textinput.New()
	filter.Placeholder = "type to filter teams"
	filter.Prompt = "/ "
	filter.CharLimit = 40
	filter.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	app := &App{
		ctrl:    ctrl,
		gw:      gw,
		logger:  logger,
		filter:  filter,
		spinner: sp,
	}
	app.snap = ctrl.Snapshot()
	app.syncLangIndex()
	return app
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.loadTeamsCmd(false))
}

func (a *App) loadTeamsCmd(force bool) tea.Cmd {
	return func() tea.Msg {
		// Errors land in the snapshot's global error; nothing to do here.
		_ = a.ctrl.LoadTeams(context.Background(), force)
		return teamsRequestedMsg{}
	}
}

func (a *App) submitCmd() tea.Cmd {
	return func() tea.Msg {
		_ = a.ctrl.Submit(context.Background())
		return submitFinishedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case stateChangedMsg, teamsRequestedMsg, submitFinishedMsg:
		a.snap = a.ctrl.Snapshot()
		a.clampCursors()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	switch a.snap.Step {
	case wizard.StepTeamSelect:
		return a.handleTeamSelectKey(msg)
	case wizard.StepConfigure:
		return a.handleConfigureKey(msg)
	case wizard.StepResult:
		return a.handleResultKey(msg)
	}
	return a, nil
}

func (a *App) handleTeamSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return a, tea.Quit
	case tea.KeyUp:
		if a.teamCursor > 0 {
			a.teamCursor--
		}
		return a, nil
	case tea.KeyDown:
		if a.teamCursor < len(a.filteredTeams())-1 {
			a.teamCursor++
		}
		return a, nil
	case tea.KeyEnter:
		teams := a.filteredTeams()
		if a.teamCursor < len(teams) {
			a.ctrl.SelectTeam(context.Background(), teams[a.teamCursor].Name)
			a.pane = paneLanguage
			a.gameCursor = 0
			a.playerCursor = 0
			a.snap = a.ctrl.Snapshot()
		}
		return a, nil
	case tea.KeyCtrlR:
		return a, a.loadTeamsCmd(true)
	}

	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(msg)
	a.teamCursor = 0
	return a, cmd
}

func (a *App) handleConfigureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc", "b":
		a.ctrl.Back()
		a.snap = a.ctrl.Snapshot()
		return a, nil
	case "d":
		a.showDebug = !a.showDebug
		return a, nil
	case "tab":
		a.pane = (a.pane + 1) % paneCount
		return a, nil
	case "shift+tab":
		a.pane = (a.pane + paneCount - 1) % paneCount
		return a, nil
	case "g", "enter":
		return a, a.submitCmd()
	case "up", "k":
		a.moveCursor(-1)
		return a, nil
	case "down", "j":
		a.moveCursor(1)
		return a, nil
	case "left", "right", " ":
		a.applySelection(msg.String())
		a.snap = a.ctrl.Snapshot()
		return a, nil
	}
	return a, nil
}

func (a *App) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return a, tea.Quit
	case "d":
		a.showDebug = !a.showDebug
		return a, nil
	case "n", "enter":
		a.ctrl.Restart()
		a.snap = a.ctrl.Snapshot()
		a.filter.SetValue("")
		a.teamCursor = 0
		return a, nil
	}
	return a, nil
}

func (a *App) moveCursor(delta int) {
	switch a.pane {
	case paneLanguage:
		langs := podcast.Languages()
		a.langIndex = clamp(a.langIndex+delta, 0, len(langs)-1)
		a.ctrl.SetLanguage(langs[a.langIndex])
		a.snap = a.ctrl.Snapshot()
	case paneGames:
		a.gameCursor = clamp(a.gameCursor+delta, 0, len(a.snap.RecentGames)-1)
	case panePlayers:
		a.playerCursor = clamp(a.playerCursor+delta, 0, len(a.snap.Players)-1)
	}
}

func (a *App) applySelection(key string) {
	switch a.pane {
	case paneLanguage:
		langs := podcast.Languages()
		if key == "left" {
			a.langIndex = clamp(a.langIndex-1, 0, len(langs)-1)
		} else if key == "right" {
			a.langIndex = clamp(a.langIndex+1, 0, len(langs)-1)
		}
		a.ctrl.SetLanguage(langs[a.langIndex])
	case paneGames:
		if key == " " && a.gameCursor < len(a.snap.RecentGames) {
			a.ctrl.SetOpponent(a.snap.RecentGames[a.gameCursor].Opponent)
		}
	case panePlayers:
		if key == " " && a.playerCursor < len(a.snap.Players) {
			a.ctrl.TogglePlayer(a.snap.Players[a.playerCursor].Name)
		}
	}
}

func (a *App) filteredTeams() []teamItem {
	query := strings.ToLower(strings.TrimSpace(a.filter.Value()))
	items := make([]teamItem, 0, len(a.snap.Teams))
	for _, t := range a.snap.Teams {
		if query != "" && !strings.Contains(strings.ToLower(t.Name), query) {
			continue
		}
		items = append(items, teamItem{Name: t.Name, Abbreviation: t.Abbreviation})
	}
	return items
}

type teamItem struct {
	Name         string
	Abbreviation string
}

func (a *App) clampCursors() {
	a.teamCursor = clamp(a.teamCursor, 0, max(0, len(a.filteredTeams())-1))
	a.gameCursor = clamp(a.gameCursor, 0, max(0, len(a.snap.RecentGames)-1))
	a.playerCursor = clamp(a.playerCursor, 0, max(0, len(a.snap.Players)-1))
}

func (a *App) syncLangIndex() {
	for i, lang := range podcast.Languages() {
		if lang == a.snap.Request.Language {
			a.langIndex = i
			return
		}
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
