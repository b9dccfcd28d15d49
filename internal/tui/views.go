package tui

import (
	"fmt"
	"strings"

	"mlbcast/internal/domain/podcast"
	"mlbcast/internal/wizard"
)

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mlbcast — MLB podcast generator"))
	b.WriteString("\n")
	b.WriteString(stepStyle.Render(a.stepIndicator()))
	b.WriteString("\n\n")

	if msg := a.snap.DisplayError(); msg != "" {
		b.WriteString(errorStyle.Render("! " + msg))
		b.WriteString("\n\n")
	}

	switch a.snap.Step {
	case wizard.StepTeamSelect:
		b.WriteString(a.viewTeamSelect())
	case wizard.StepConfigure:
		b.WriteString(a.viewConfigure())
	case wizard.StepResult:
		b.WriteString(a.viewResult())
	}

	if a.showDebug {
		b.WriteString("\n")
		b.WriteString(a.viewDebug())
	}

	b.WriteString(a.helpLine())
	return b.String()
}

func (a *App) stepIndicator() string {
	switch a.snap.Step {
	case wizard.StepTeamSelect:
		return "Step 1 of 2 · pick a team"
	case wizard.StepConfigure:
		return "Step 2 of 2 · configure the podcast"
	default:
		return "Done"
	}
}

func (a *App) viewTeamSelect() string {
	var b strings.Builder

	b.WriteString(a.filter.View())
	b.WriteString("\n\n")

	if a.snap.TeamsState.Loading {
		b.WriteString(itemStyle.Render(a.spinner.View() + " loading teams..."))
		b.WriteString("\n")
		return paneStyle.Render(b.String())
	}

	teams := a.filteredTeams()
	if len(teams) == 0 {
		b.WriteString(dimStyle.Render("  no teams match"))
		b.WriteString("\n")
		return paneStyle.Render(b.String())
	}

	for i, t := range teams {
		line := fmt.Sprintf("%-24s %s", t.Name, dimStyle.Render(t.Abbreviation))
		if i == a.teamCursor {
			b.WriteString(itemSelectedStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return paneStyle.Render(b.String())
}

func (a *App) viewConfigure() string {
	language := a.renderLanguagePane()
	gamesPane := a.renderGamesPane()
	playersPane := a.renderPlayersPane()
	summary := a.renderSummary()

	return strings.Join([]string{language, gamesPane, playersPane, summary}, "\n")
}

func (a *App) renderLanguagePane() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Language (required)"))
	b.WriteString("\n")

	for i, lang := range podcast.Languages() {
		marker := "( )"
		if lang == a.snap.Request.Language {
			marker = checkedStyle.Render("(x)")
		}
		entry := marker + " " + lang
		if a.pane == paneLanguage && i == a.langIndex {
			entry = itemSelectedStyle.Render(entry)
		}
		b.WriteString("  " + entry)
	}
	b.WriteString("\n")
	return a.paneFrame(paneLanguage).Render(b.String())
}

func (a *App) renderGamesPane() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Game (optional)"))
	b.WriteString("\n")

	switch {
	case a.snap.LastState.Loading || a.snap.RecentState.Loading:
		b.WriteString(a.spinner.View() + " loading games...")
		b.WriteString("\n")
	case a.snap.LastState.Err != "":
		b.WriteString(dimStyle.Render("last game unavailable: " + a.snap.LastState.Err))
		b.WriteString("\n")
	case a.snap.LastGame != nil:
		b.WriteString(dimStyle.Render(fmt.Sprintf("last game: vs %s on %s (%s)",
			a.snap.LastGame.Opponent, a.snap.LastGame.Date, a.snap.LastGame.Type)))
		b.WriteString("\n")
	}

	if a.snap.RecentState.Err != "" {
		b.WriteString(dimStyle.Render("history unavailable: " + a.snap.RecentState.Err))
		b.WriteString("\n")
	}

	for i, g := range a.snap.RecentGames {
		marker := "( )"
		if a.snap.Request.Opponent == g.Opponent && g.Opponent != "" {
			marker = checkedStyle.Render("(x)")
		}
		line := fmt.Sprintf("%s vs %-22s %s", marker, g.Opponent, dimStyle.Render(g.Date))
		if a.pane == paneGames && i == a.gameCursor {
			line = itemSelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return a.paneFrame(paneGames).Render(b.String())
}

func (a *App) renderPlayersPane() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Players (optional)"))
	b.WriteString("\n")

	switch {
	case a.snap.PlayerState.Loading:
		b.WriteString(a.spinner.View() + " loading players...")
		b.WriteString("\n")
	case a.snap.PlayerState.Err != "":
		b.WriteString(dimStyle.Render("players unavailable: " + a.snap.PlayerState.Err))
		b.WriteString("\n")
	}

	selected := make(map[string]bool, len(a.snap.Request.Players))
	for _, name := range a.snap.Request.Players {
		selected[name] = true
	}

	for i, p := range a.snap.Players {
		marker := "[ ]"
		if selected[p.Name] {
			marker = checkedStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %-24s %s", marker, p.Name, dimStyle.Render(p.Position))
		if a.pane == panePlayers && i == a.playerCursor {
			line = itemSelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return a.paneFrame(panePlayers).Render(b.String())
}

func (a *App) renderSummary() string {
	req := a.snap.Request
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  team: %s · language: %s\n", req.Team, req.Language))
	game := "last game"
	if req.Opponent != "" {
		game = "vs " + req.Opponent
	}
	b.WriteString(fmt.Sprintf("  game: %s · type: %s\n", game, req.GameType))
	if len(req.Players) > 0 {
		b.WriteString("  players: " + strings.Join(req.Players, ", ") + "\n")
	}
	if a.snap.Submitting {
		b.WriteString("  " + a.spinner.View() + " generating...\n")
	}
	return paneStyle.Render(b.String())
}

func (a *App) viewResult() string {
	res := a.snap.Result
	if res == nil {
		return dimStyle.Render("  nothing generated yet")
	}

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render(res.Title))
	b.WriteString("\n\n")
	b.WriteString("  " + res.URL + "\n")
	if res.Duration > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  duration: %.0fs", res.Duration)))
		b.WriteString("\n")
	}
	if res.Message != "" {
		b.WriteString(dimStyle.Render("  " + res.Message))
		b.WriteString("\n")
	}
	return resultStyle.Render(b.String())
}

func (a *App) viewDebug() string {
	entries := a.gw.DebugEntries()
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render(fmt.Sprintf("Debug console (%d calls)", len(entries))))
	b.WriteString("\n")

	// Most recent last, capped to keep the pane readable.
	start := 0
	if len(entries) > 8 {
		start = len(entries) - 8
	}
	for _, e := range entries[start:] {
		line := fmt.Sprintf("%s  %3d  %s", e.Timestamp.Format("15:04:05"), e.Status, truncate(e.Endpoint, 60))
		b.WriteString(debugEntryStyle.Render(line))
		b.WriteString("\n")
	}
	return paneStyle.Render(b.String())
}

func (a *App) paneFrame(p configurePane) interface{ Render(...string) string } {
	if a.pane == p {
		return paneActiveStyle
	}
	return paneStyle
}

func (a *App) helpLine() string {
	switch a.snap.Step {
	case wizard.StepTeamSelect:
		return helpStyle.Render("↑/↓ move · enter select · ctrl+r refresh · esc quit")
	case wizard.StepConfigure:
		return helpStyle.Render("tab pane · ↑/↓ move · space select · g generate · b back · d debug · q quit")
	default:
		return helpStyle.Render("n new podcast · d debug · q quit")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
