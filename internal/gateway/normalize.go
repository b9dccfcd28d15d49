package gateway

import (
	"encoding/json"
	"errors"
	"strings"

	"mlbcast/internal/domain/games"
	"mlbcast/internal/domain/players"
	"mlbcast/internal/domain/podcast"
	"mlbcast/internal/domain/teams"
)

// The remote service is not guaranteed to return a single consistent shape.
// Each resource accepts a bare array/object, the same nested under its named
// field, or nested one level under "data" (recent games: two levels). The
// probing is exhaustive per resource so an unrecognized shape fails loudly
// instead of silently misparsing.

var (
	errNotObject     = errors.New("body is neither an array nor an object")
	errTeamsMissing  = errors.New("teams array not found")
	errPlayersShape  = errors.New("players array not found")
	errGameShape     = errors.New("game object not found")
	errGamesMissing  = errors.New("games array not found")
	errPodcastShape  = errors.New("podcast object not found")
	errTeamEntryType = errors.New("team entry is neither a string nor an object")
)

func normalizeTeams(raw []byte) ([]teams.Team, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		var env struct {
			Teams []json.RawMessage `json:"teams"`
			Data  struct {
				Teams []json.RawMessage `json:"teams"`
			} `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, errNotObject
		}
		switch {
		case env.Data.Teams != nil:
			entries = env.Data.Teams
		case env.Teams != nil:
			entries = env.Teams
		default:
			return nil, errTeamsMissing
		}
	}

	result := make([]teams.Team, 0, len(entries))
	for _, entry := range entries {
		team, err := decodeTeamEntry(entry)
		if err != nil {
			return nil, err
		}
		result = append(result, team)
	}
	return result, nil
}

// decodeTeamEntry accepts either a full team object or a bare team-name
// string, synthesizing id and abbreviation for the latter.
func decodeTeamEntry(entry json.RawMessage) (teams.Team, error) {
	var name string
	if err := json.Unmarshal(entry, &name); err == nil {
		return synthesizeTeam(name), nil
	}

	var team teams.Team
	if err := json.Unmarshal(entry, &team); err != nil {
		return teams.Team{}, errTeamEntryType
	}
	return team, nil
}

func synthesizeTeam(name string) teams.Team {
	words := strings.Fields(name)

	var initials strings.Builder
	for _, word := range words {
		first := []rune(word)[0]
		initials.WriteString(strings.ToUpper(string(first)))
	}

	return teams.Team{
		ID:           "team-" + strings.ToLower(strings.Join(words, "-")),
		Name:         strings.TrimSpace(name),
		Abbreviation: initials.String(),
	}
}

func normalizePlayers(raw []byte) ([]players.Player, error) {
	var result []players.Player
	if err := json.Unmarshal(raw, &result); err == nil {
		return result, nil
	}

	var env struct {
		Players []players.Player `json:"players"`
		Data    struct {
			Players []players.Player `json:"players"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errNotObject
	}
	switch {
	case env.Data.Players != nil:
		return env.Data.Players, nil
	case env.Players != nil:
		return env.Players, nil
	default:
		return nil, errPlayersShape
	}
}

func normalizeLastGame(raw []byte) (games.Game, error) {
	var env struct {
		Data struct {
			Game *games.Game `json:"game"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return games.Game{}, errGameShape
	}
	if env.Data.Game != nil {
		return *env.Data.Game, nil
	}

	var game games.Game
	if err := json.Unmarshal(raw, &game); err != nil {
		return games.Game{}, errGameShape
	}
	return game, nil
}

func normalizeRecentGames(raw []byte) ([]games.Game, error) {
	var result []games.Game
	if err := json.Unmarshal(raw, &result); err == nil {
		return result, nil
	}

	var env struct {
		Games []games.Game `json:"games"`
		Data  struct {
			Games json.RawMessage `json:"games"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errNotObject
	}

	if env.Games != nil {
		return env.Games, nil
	}
	if env.Data.Games != nil {
		// data.games may be the array itself or wrapped once more.
		if err := json.Unmarshal(env.Data.Games, &result); err == nil {
			return result, nil
		}
		var nested struct {
			Games []games.Game `json:"games"`
		}
		if err := json.Unmarshal(env.Data.Games, &nested); err == nil && nested.Games != nil {
			return nested.Games, nil
		}
		return nil, errGamesMissing
	}
	return nil, errGamesMissing
}

func normalizePodcast(raw []byte, team string) (podcast.Response, error) {
	var resp podcast.Response
	var decoded bool

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return podcast.Response{}, errPodcastShape
	}

	if len(env.Data) > 0 && string(env.Data) != "null" {
		var inner struct {
			Podcast *podcast.Response `json:"podcast"`
		}
		if err := json.Unmarshal(env.Data, &inner); err == nil && inner.Podcast != nil {
			resp = *inner.Podcast
			decoded = true
		} else {
			var dataResp podcast.Response
			if err := json.Unmarshal(env.Data, &dataResp); err == nil && (dataResp.URL != "" || dataResp.AudioURL != "") {
				resp = dataResp
				decoded = true
			}
		}
	}

	if !decoded {
		if err := json.Unmarshal(raw, &resp); err != nil {
			return podcast.Response{}, errPodcastShape
		}
	}

	// Unify the audio_url/url aliases so downstream consumers can rely on a
	// single url field.
	if resp.URL == "" {
		resp.URL = resp.AudioURL
	}
	if resp.AudioURL == "" {
		resp.AudioURL = resp.URL
	}
	if resp.Title == "" {
		resp.Title = podcast.DefaultTitle(team)
	}
	if resp.Message == "" {
		resp.Message = "Your " + team + " podcast is ready."
	}
	return resp, nil
}
