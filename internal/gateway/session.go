package gateway

import (
	"sync"

	"mlbcast/internal/domain/games"
	"mlbcast/internal/domain/players"
	"mlbcast/internal/domain/teams"
)

// Session is the explicitly-owned, session-scoped store behind the gateway:
// one cache map per resource plus the in-flight key set that gates duplicate
// network calls. A present cache entry is always the full normalized result
// of the most recent successful fetch for its key, never a partial one.
type Session struct {
	mu          sync.Mutex
	teams       []teams.Team
	teamsSet    bool
	players     map[string][]players.Player
	lastGame    map[string]games.Game
	recentGames map[string][]games.Game
	inflight    map[string]struct{}
}

// NewSession constructs an empty session store.
func NewSession() *Session {
	return &Session{
		players:     make(map[string][]players.Player),
		lastGame:    make(map[string]games.Game),
		recentGames: make(map[string][]games.Game),
		inflight:    make(map[string]struct{}),
	}
}

// Acquire marks key as in flight. It returns false when a request for the
// same key is already pending, enforcing at most one active network call per
// key.
func (s *Session) Acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, pending := s.inflight[key]; pending {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

// Release clears the in-flight marker. Callers must invoke it in a deferred
// block so a normalization panic or early return never leaves a key
// permanently blocked.
func (s *Session) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}

// Pending reports whether a request for key is currently in flight.
func (s *Session) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, pending := s.inflight[key]
	return pending
}

// Teams returns the cached team list, if one has been stored.
func (s *Session) Teams() ([]teams.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.teamsSet {
		return nil, false
	}
	return append([]teams.Team(nil), s.teams...), true
}

// SetTeams stores the normalized team list.
func (s *Session) SetTeams(items []teams.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = append([]teams.Team(nil), items...)
	s.teamsSet = true
}

// Players returns the cached player list for a team key.
func (s *Session) Players(team string) ([]players.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.players[team]
	if !ok {
		return nil, false
	}
	return append([]players.Player(nil), items...), true
}

// SetPlayers stores the normalized player list for a team key.
func (s *Session) SetPlayers(team string, items []players.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[team] = append([]players.Player(nil), items...)
}

// LastGame returns the cached last game for a team key.
func (s *Session) LastGame(team string) (games.Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.lastGame[team]
	return g, ok
}

// SetLastGame stores the normalized last game for a team key.
func (s *Session) SetLastGame(team string, g games.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastGame[team] = g
}

// RecentGames returns the cached recent-games list for a team key.
func (s *Session) RecentGames(team string) ([]games.Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.recentGames[team]
	if !ok {
		return nil, false
	}
	return append([]games.Game(nil), items...), true
}

// SetRecentGames stores the normalized recent-games list for a team key.
func (s *Session) SetRecentGames(team string, items []games.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recentGames[team] = append([]games.Game(nil), items...)
}

// Clear resets every cache map to empty. In-flight markers are untouched so
// a concurrent fetch still completes exactly once; the debug log lives
// outside the session store.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = nil
	s.teamsSet = false
	s.players = make(map[string][]players.Player)
	s.lastGame = make(map[string]games.Game)
	s.recentGames = make(map[string][]games.Game)
}
