package gateway

import (
	"testing"

	"mlbcast/internal/domain/games"
	"mlbcast/internal/domain/players"
	"mlbcast/internal/domain/teams"
)

func TestSessionAcquireRelease(t *testing.T) {
	s := NewSession()

	if !s.Acquire("teams") {
		t.Fatal("first acquire should succeed")
	}
	if s.Acquire("teams") {
		t.Fatal("second acquire for the same key should fail")
	}
	if !s.Acquire("players-Boston Red Sox") {
		t.Fatal("acquire for a different key should succeed")
	}
	if !s.Pending("teams") {
		t.Fatal("teams should be pending")
	}

	s.Release("teams")
	if s.Pending("teams") {
		t.Fatal("teams should no longer be pending")
	}
	if !s.Acquire("teams") {
		t.Fatal("acquire after release should succeed")
	}
}

func TestSessionTeamsEmptyListIsACacheEntry(t *testing.T) {
	s := NewSession()

	if _, ok := s.Teams(); ok {
		t.Fatal("empty session should report no teams")
	}

	s.SetTeams([]teams.Team{})
	cached, ok := s.Teams()
	if !ok {
		t.Fatal("stored empty list should count as a cache hit")
	}
	if len(cached) != 0 {
		t.Fatalf("expected empty list, got %+v", cached)
	}
}

func TestSessionReturnsCopies(t *testing.T) {
	s := NewSession()
	s.SetTeams([]teams.Team{{ID: "t1", Name: "Boston Red Sox"}})
	s.SetPlayers("Boston Red Sox", []players.Player{{ID: "p1", Name: "Mookie Betts"}})
	s.SetRecentGames("Boston Red Sox", []games.Game{{ID: "g1"}})

	got, _ := s.Teams()
	got[0].Name = "mutated"
	fresh, _ := s.Teams()
	if fresh[0].Name != "Boston Red Sox" {
		t.Fatal("teams cache mutated through returned slice")
	}

	roster, _ := s.Players("Boston Red Sox")
	roster[0].Name = "mutated"
	freshRoster, _ := s.Players("Boston Red Sox")
	if freshRoster[0].Name != "Mookie Betts" {
		t.Fatal("players cache mutated through returned slice")
	}

	history, _ := s.RecentGames("Boston Red Sox")
	history[0].ID = "mutated"
	freshHistory, _ := s.RecentGames("Boston Red Sox")
	if freshHistory[0].ID != "g1" {
		t.Fatal("recent games cache mutated through returned slice")
	}
}

func TestSessionClearKeepsInflight(t *testing.T) {
	s := NewSession()
	s.SetTeams([]teams.Team{{ID: "t1"}})
	s.SetLastGame("Boston Red Sox", games.Game{ID: "g1"})
	s.Acquire("teams")

	s.Clear()

	if _, ok := s.Teams(); ok {
		t.Fatal("teams cache should be empty after clear")
	}
	if _, ok := s.LastGame("Boston Red Sox"); ok {
		t.Fatal("last game cache should be empty after clear")
	}
	if !s.Pending("teams") {
		t.Fatal("clear must not release in-flight markers")
	}
}
