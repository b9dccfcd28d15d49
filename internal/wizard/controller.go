// Package wizard sequences the podcast request flow on top of the data
// gateway: TeamSelect -> Configure -> Result. Dependent fetches fire
// concurrently when a step is entered, each writing to its own state slice,
// so one slow or failing fetch never blocks the others.
package wizard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"mlbcast/internal/domain/games"
	"mlbcast/internal/domain/players"
	"mlbcast/internal/domain/podcast"
	"mlbcast/internal/domain/teams"
	"mlbcast/internal/gateway"
	"mlbcast/internal/logging"
)

// Step identifies a wizard stage.
type Step int

const (
	StepTeamSelect Step = iota
	StepConfigure
	StepResult
)

func (s Step) String() string {
	switch s {
	case StepTeamSelect:
		return "team-select"
	case StepConfigure:
		return "configure"
	case StepResult:
		return "result"
	default:
		return "unknown"
	}
}

// DataGateway is the slice of the gateway the controller depends on.
type DataGateway interface {
	FetchTeams(ctx context.Context, forceRefresh bool) ([]teams.Team, error)
	FetchPlayers(ctx context.Context, teamName string, forceRefresh bool) ([]players.Player, error)
	FetchLastGame(ctx context.Context, teamName string, forceRefresh bool) (*games.Game, error)
	FetchRecentGames(ctx context.Context, teamName string, forceRefresh bool) ([]games.Game, error)
	GeneratePodcast(ctx context.Context, req podcast.Request) (*podcast.Response, error)
}

// SliceState tracks one independently fetched data slice.
type SliceState struct {
	Loading bool
	Loaded  bool
	Err     string
}

// ValidationError reports a missing required field, raised before any
// network call is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " selection is required"
}

// AsValidationError attempts to unwrap an error into a ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// Controller drives the wizard. Safe for concurrent use: the dependent
// fetches run on their own goroutines and join only through the mutex.
type Controller struct {
	gw              DataGateway
	logger          *slog.Logger
	defaultLanguage string
	onChange        func()

	mu          sync.Mutex
	step        Step
	req         podcast.Request
	teams       []teams.Team
	players     []players.Player
	lastGame    *games.Game
	recentGames []games.Game
	result      *podcast.Response

	teamsState  SliceState
	playerState SliceState
	lastState   SliceState
	recentState SliceState

	submitting      bool
	userSetOpponent bool
	userSetGameType bool
	localErr        string
	globalErr       string
}

// Options configures controller construction.
type Options struct {
	Logger          *slog.Logger
	DefaultLanguage string
	// OnChange is invoked (outside the lock) after every state mutation so
	// the view can repaint. May be nil.
	OnChange func()
}

// New constructs a controller at the team-selection step.
func New(gw DataGateway, opts Options) *Controller {
	lang := opts.DefaultLanguage
	if lang == "" {
		lang = podcast.DefaultLanguage
	}
	return &Controller{
		gw:              gw,
		logger:          opts.Logger,
		defaultLanguage: lang,
		onChange:        opts.OnChange,
		step:            StepTeamSelect,
		req:             podcast.NewRequest(lang),
	}
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	Step        Step
	Request     podcast.Request
	Teams       []teams.Team
	Players     []players.Player
	LastGame    *games.Game
	RecentGames []games.Game
	Result      *podcast.Response

	TeamsState  SliceState
	PlayerState SliceState
	LastState   SliceState
	RecentState SliceState

	Submitting  bool
	LocalError  string
	GlobalError string
}

// DisplayError returns the error the view should surface: the step-scoped
// error takes precedence so a stale global error cannot leak into a later
// step.
func (s Snapshot) DisplayError() string {
	if s.LocalError != "" {
		return s.LocalError
	}
	return s.GlobalError
}

// ConfigureLoading reports whether any Configure-step slice is still
// fetching; used only for the aggregate loading indicator, never for
// ordering.
func (s Snapshot) ConfigureLoading() bool {
	return s.PlayerState.Loading || s.LastState.Loading || s.RecentState.Loading
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := c.req
	req.Players = append([]string(nil), c.req.Players...)

	return Snapshot{
		Step:        c.step,
		Request:     req,
		Teams:       append([]teams.Team(nil), c.teams...),
		Players:     append([]players.Player(nil), c.players...),
		LastGame:    copyGame(c.lastGame),
		RecentGames: append([]games.Game(nil), c.recentGames...),
		Result:      copyResult(c.result),
		TeamsState:  c.teamsState,
		PlayerState: c.playerState,
		LastState:   c.lastState,
		RecentState: c.recentState,
		Submitting:  c.submitting,
		LocalError:  c.localErr,
		GlobalError: c.globalErr,
	}
}

// LoadTeams fetches the team list. Called on entry to the flow; safe to call
// again with forceRefresh for a manual reload.
func (c *Controller) LoadTeams(ctx context.Context, forceRefresh bool) error {
	c.mu.Lock()
	c.teamsState = SliceState{Loading: true}
	c.globalErr = ""
	c.mu.Unlock()
	c.notify()

	items, err := c.gw.FetchTeams(ctx, forceRefresh)

	c.mu.Lock()
	defer c.notifyUnlock()

	if errors.Is(err, gateway.ErrFetchInProgress) {
		// Duplicate suppressed: the original call will deliver the update.
		return nil
	}
	if err != nil {
		c.teamsState = SliceState{Err: err.Error()}
		c.globalErr = "Failed to fetch teams: " + err.Error()
		logging.Error(c.logger, "teams load failed", err)
		return err
	}

	c.teams = items
	c.teamsState = SliceState{Loaded: true}
	logging.Info(c.logger, "teams loaded", logging.FieldCount, len(items))
	return nil
}

// SelectTeam stores the team into the in-progress request, advances to
// Configure, and fires the three dependent fetches without blocking the
// transition. Each fetch failure is isolated to its own slice.
func (c *Controller) SelectTeam(ctx context.Context, teamName string) {
	c.mu.Lock()
	c.req.Team = teamName
	c.req.Players = []string{}
	c.req.Opponent = ""
	c.req.GameType = podcast.DefaultGameType
	c.userSetOpponent = false
	c.userSetGameType = false
	c.localErr = ""
	c.players = nil
	c.lastGame = nil
	c.recentGames = nil
	c.playerState = SliceState{Loading: true}
	c.lastState = SliceState{Loading: true}
	c.recentState = SliceState{Loading: true}
	c.step = StepConfigure
	c.mu.Unlock()
	c.notify()

	logging.Info(c.logger, "team selected", logging.FieldTeam, teamName, logging.FieldStep, c.CurrentStep().String())

	go c.loadPlayers(ctx, teamName)
	go c.loadLastGame(ctx, teamName)
	go c.loadRecentGames(ctx, teamName)
}

func (c *Controller) loadPlayers(ctx context.Context, teamName string) {
	items, err := c.gw.FetchPlayers(ctx, teamName, false)

	c.mu.Lock()
	defer c.notifyUnlock()

	if c.req.Team != teamName {
		return // stale completion for a previous selection
	}
	if errors.Is(err, gateway.ErrFetchInProgress) {
		return
	}
	if err != nil {
		c.playerState = SliceState{Err: err.Error()}
		c.localErr = "Failed to fetch players: " + err.Error()
		return
	}
	c.players = items
	c.playerState = SliceState{Loaded: true}
}

func (c *Controller) loadLastGame(ctx context.Context, teamName string) {
	game, err := c.gw.FetchLastGame(ctx, teamName, false)

	c.mu.Lock()
	defer c.notifyUnlock()

	if c.req.Team != teamName {
		return
	}
	if errors.Is(err, gateway.ErrFetchInProgress) {
		return
	}
	if err != nil {
		c.lastState = SliceState{Err: err.Error()}
		c.localErr = "Failed to fetch last game: " + err.Error()
		return
	}

	c.lastGame = game
	c.lastState = SliceState{Loaded: true}

	// Default opponent and game type from the last game, but user input
	// wins: never overwrite a field the user set explicitly.
	if c.step == StepConfigure && game != nil {
		if !c.userSetOpponent && game.Opponent != "" {
			c.req.Opponent = game.Opponent
		}
		if !c.userSetGameType && game.Type != "" {
			c.req.GameType = game.Type
		}
	}
}

func (c *Controller) loadRecentGames(ctx context.Context, teamName string) {
	items, err := c.gw.FetchRecentGames(ctx, teamName, false)

	c.mu.Lock()
	defer c.notifyUnlock()

	if c.req.Team != teamName {
		return
	}
	if errors.Is(err, gateway.ErrFetchInProgress) {
		return
	}
	if err != nil {
		c.recentState = SliceState{Err: err.Error()}
		c.localErr = "Failed to fetch recent games: " + err.Error()
		return
	}
	c.recentGames = items
	c.recentState = SliceState{Loaded: true}
}

// SetLanguage records the language selection. Language is the only field
// whose absence blocks submission.
func (c *Controller) SetLanguage(lang string) {
	c.mu.Lock()
	c.req.Language = lang
	c.mu.Unlock()
	c.notify()
}

// SetOpponent records an explicit opponent choice; auto-defaulting from the
// last game will no longer touch it.
func (c *Controller) SetOpponent(opponent string) {
	c.mu.Lock()
	c.req.Opponent = opponent
	c.userSetOpponent = true
	c.mu.Unlock()
	c.notify()
}

// SetGameType records an explicit game-type choice.
func (c *Controller) SetGameType(gameType string) {
	c.mu.Lock()
	c.req.GameType = gameType
	c.userSetGameType = true
	c.mu.Unlock()
	c.notify()
}

// TogglePlayer adds or removes a player from the request, preserving
// selection order.
func (c *Controller) TogglePlayer(name string) {
	c.mu.Lock()
	found := false
	kept := c.req.Players[:0]
	for _, p := range c.req.Players {
		if p == name {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		kept = append(kept, name)
	}
	c.req.Players = kept
	c.mu.Unlock()
	c.notify()
}

// Submit validates the request, resolves unset optional fields from the last
// game, and calls the generation service. On success the wizard advances to
// Result; on failure it stays on Configure with a step-scoped error.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil
	}
	c.localErr = ""

	if c.req.Team == "" {
		err := &ValidationError{Field: "Team"}
		c.localErr = err.Error()
		c.mu.Unlock()
		c.notify()
		return err
	}
	if c.req.Language == "" {
		err := &ValidationError{Field: "Language"}
		c.localErr = err.Error()
		c.mu.Unlock()
		c.notify()
		return err
	}

	req := c.req
	req.Players = append([]string(nil), c.req.Players...)
	if req.Opponent == "" && c.lastGame != nil {
		req.Opponent = c.lastGame.Opponent
	}
	if req.GameType == "" {
		if c.lastGame != nil && c.lastGame.Type != "" {
			req.GameType = c.lastGame.Type
		} else {
			req.GameType = podcast.DefaultGameType
		}
	}

	c.submitting = true
	c.mu.Unlock()
	c.notify()

	resp, err := c.gw.GeneratePodcast(ctx, req)

	c.mu.Lock()
	defer c.notifyUnlock()
	c.submitting = false

	if errors.Is(err, gateway.ErrFetchInProgress) {
		return nil
	}
	if err != nil {
		c.localErr = err.Error()
		logging.Error(c.logger, "podcast generation failed", err, logging.FieldTeam, req.Team)
		return err
	}

	c.result = resp
	c.step = StepResult
	logging.Info(c.logger, "podcast generated", logging.FieldTeam, req.Team)
	return nil
}

// Restart discards the in-progress request and generated result and returns
// to team selection. The gateway cache is preserved.
func (c *Controller) Restart() {
	c.mu.Lock()
	c.req = podcast.NewRequest(c.defaultLanguage)
	c.result = nil
	c.players = nil
	c.lastGame = nil
	c.recentGames = nil
	c.playerState = SliceState{}
	c.lastState = SliceState{}
	c.recentState = SliceState{}
	c.userSetOpponent = false
	c.userSetGameType = false
	c.localErr = ""
	c.step = StepTeamSelect
	c.mu.Unlock()
	c.notify()
}

// Back steps from Configure to TeamSelect.
func (c *Controller) Back() {
	c.mu.Lock()
	if c.step == StepConfigure {
		c.step = StepTeamSelect
		c.localErr = ""
	}
	c.mu.Unlock()
	c.notify()
}

// CurrentStep returns the active step.
func (c *Controller) CurrentStep() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// notifyUnlock releases the lock then notifies; for use with defer.
func (c *Controller) notifyUnlock() {
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

func copyGame(g *games.Game) *games.Game {
	if g == nil {
		return nil
	}
	copied := *g
	return &copied
}

func copyResult(r *podcast.Response) *podcast.Response {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}
