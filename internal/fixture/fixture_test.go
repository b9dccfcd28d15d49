package fixture

import (
	"context"
	"net/http"
	"testing"

	"mlbcast/internal/auth"
	"mlbcast/internal/domain/podcast"
	"mlbcast/internal/gateway"
	"mlbcast/internal/logging"
)

func newFixtureGateway() *gateway.Gateway {
	return gateway.New(gateway.Config{
		BaseURL:    "https://fixture.local/api/v1",
		HTTPClient: &http.Client{Transport: New()},
		Tokens:     auth.StaticTokenSource(""),
		Logger:     logging.NewLogger(logging.Config{Level: "error"}),
	})
}

func TestFixtureServesAllEndpoints(t *testing.T) {
	gw := newFixtureGateway()
	ctx := context.Background()

	teams, err := gw.FetchTeams(ctx, false)
	if err != nil {
		t.Fatalf("teams: %v", err)
	}
	if len(teams) != 4 {
		t.Fatalf("expected 4 fixture teams, got %d", len(teams))
	}
	if teams[0].ID != "team-boston-red-sox" || teams[0].Abbreviation != "BRS" {
		t.Fatalf("string entries should be synthesized: %+v", teams[0])
	}

	roster, err := gw.FetchPlayers(ctx, teams[0].Name, false)
	if err != nil {
		t.Fatalf("players: %v", err)
	}
	if len(roster) != 4 {
		t.Fatalf("expected 4 fixture players, got %d", len(roster))
	}

	last, err := gw.FetchLastGame(ctx, teams[0].Name, false)
	if err != nil {
		t.Fatalf("last game: %v", err)
	}
	if last.Opponent != "New York Yankees" {
		t.Fatalf("unexpected last game: %+v", last)
	}

	history, err := gw.FetchRecentGames(ctx, teams[0].Name, false)
	if err != nil {
		t.Fatalf("recent games: %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("expected 5 fixture games, got %d", len(history))
	}
	if history[0].ID != "g-100" {
		t.Fatalf("expected most-recent-first ordering: %+v", history[0])
	}

	req := podcast.NewRequest("english")
	req.Team = teams[0].Name
	result, err := gw.GeneratePodcast(ctx, req)
	if err != nil {
		t.Fatalf("podcast: %v", err)
	}
	if result.URL != "https://example.com/podcasts/fixture.mp3" {
		t.Fatalf("audio_url alias should populate url: %+v", result)
	}
	if result.Title != "Podcast: Boston Red Sox" {
		t.Fatalf("expected synthesized title, got %q", result.Title)
	}
}

func TestFixtureUnknownPathIs404(t *testing.T) {
	transport := New()
	req, _ := http.NewRequest(http.MethodGet, "https://fixture.local/api/v1/standings", nil)

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", resp.StatusCode)
	}
}

func TestFixturePodcastRequiresPost(t *testing.T) {
	transport := New()
	req, _ := http.NewRequest(http.MethodGet, "https://fixture.local/api/v1/podcast", nil)

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET /podcast should have no fixture, got %d", resp.StatusCode)
	}
}
