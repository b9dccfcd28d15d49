// Package gateway owns all network I/O to the generation service:
// per-resource caching, per-key in-flight deduplication, response-shape
// normalization, and a rolling debug log of every call made.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mlbcast/internal/auth"
	"mlbcast/internal/domain/games"
	"mlbcast/internal/domain/players"
	"mlbcast/internal/domain/podcast"
	"mlbcast/internal/domain/teams"
	"mlbcast/internal/logging"
	"mlbcast/internal/metrics"
)

const (
	keyTeams         = "teams"
	keyPlayersPrefix = "players-"
	keyLastPrefix    = "lastGame-"
	keyRecentPrefix  = "recentGames-"
	keyPodcastPrefix = "podcast-"

	maxErrorBody = 512
)

// Config controls how the gateway reaches the generation service.
type Config struct {
	BaseURL      string
	HTTPClient   *http.Client
	HTTPTimeout  time.Duration
	Tokens       auth.TokenSource
	HistoryCount int
	Logger       *slog.Logger
	Metrics      *metrics.Recorder
}

// Gateway provides idempotent, cached, deduplicated, shape-normalized access
// to the five remote operations. Leaf component: it has no dependency on
// wizard state.
type Gateway struct {
	baseURL      string
	client       httpDoer
	historyCount int
	session      *Session
	debug        *DebugLog
	logger       *slog.Logger
	metrics      *metrics.Recorder
}

// New constructs a gateway with an empty session store and debug log.
func New(cfg Config) *Gateway {
	history := cfg.HistoryCount
	if history <= 0 {
		history = games.RecentGamesCount
	}
	return &Gateway{
		baseURL:      normalizeBaseURL(cfg.BaseURL),
		client:       &authTransport{tokens: cfg.Tokens, next: resolveHTTPClient(cfg.HTTPClient, cfg.HTTPTimeout)},
		historyCount: history,
		session:      NewSession(),
		debug:        NewDebugLog(),
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
	}
}

// FetchTeams returns the team list, from cache when available.
func (g *Gateway) FetchTeams(ctx context.Context, forceRefresh bool) ([]teams.Team, error) {
	endpoint := g.baseURL + "/teams"

	if !forceRefresh {
		if cached, ok := g.session.Teams(); ok {
			g.metrics.RecordCacheHit(endpoint)
			return cached, nil
		}
	}

	if !g.session.Acquire(keyTeams) {
		g.metrics.RecordDuplicate(endpoint)
		logging.Info(g.logger, "teams request already in progress")
		return nil, ErrFetchInProgress
	}
	defer g.session.Release(keyTeams)

	raw, err := g.getJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	result, err := normalizeTeams(raw)
	if err != nil {
		return nil, g.formatFailure(endpoint, err)
	}

	g.session.SetTeams(result)
	return result, nil
}

// FetchPlayers returns the players for a team, from cache when available.
func (g *Gateway) FetchPlayers(ctx context.Context, teamName string, forceRefresh bool) ([]players.Player, error) {
	endpoint := g.baseURL + "/teams/" + url.PathEscape(teamName) + "/players"

	if !forceRefresh {
		if cached, ok := g.session.Players(teamName); ok {
			g.metrics.RecordCacheHit(endpoint)
			return cached, nil
		}
	}

	key := keyPlayersPrefix + teamName
	if !g.session.Acquire(key) {
		g.metrics.RecordDuplicate(endpoint)
		logging.Info(g.logger, "players request already in progress", logging.FieldTeam, teamName)
		return nil, ErrFetchInProgress
	}
	defer g.session.Release(key)

	raw, err := g.getJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	result, err := normalizePlayers(raw)
	if err != nil {
		return nil, g.formatFailure(endpoint, err)
	}

	g.session.SetPlayers(teamName, result)
	return result, nil
}

// FetchLastGame returns the team's most recent game, from cache when
// available.
func (g *Gateway) FetchLastGame(ctx context.Context, teamName string, forceRefresh bool) (*games.Game, error) {
	endpoint := g.baseURL + "/teams/" + url.PathEscape(teamName) + "/games/last"

	if !forceRefresh {
		if cached, ok := g.session.LastGame(teamName); ok {
			g.metrics.RecordCacheHit(endpoint)
			return &cached, nil
		}
	}

	key := keyLastPrefix + teamName
	if !g.session.Acquire(key) {
		g.metrics.RecordDuplicate(endpoint)
		logging.Info(g.logger, "last game request already in progress", logging.FieldTeam, teamName)
		return nil, ErrFetchInProgress
	}
	defer g.session.Release(key)

	raw, err := g.getJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	result, err := normalizeLastGame(raw)
	if err != nil {
		return nil, g.formatFailure(endpoint, err)
	}

	g.session.SetLastGame(teamName, result)
	return &result, nil
}

// FetchRecentGames returns the team's recent games, most-recent-first, from
// cache when available.
func (g *Gateway) FetchRecentGames(ctx context.Context, teamName string, forceRefresh bool) ([]games.Game, error) {
	endpoint := g.baseURL + "/teams/" + url.PathEscape(teamName) + "/games/history?count=" + strconv.Itoa(g.historyCount)

	if !forceRefresh {
		if cached, ok := g.session.RecentGames(teamName); ok {
			g.metrics.RecordCacheHit(endpoint)
			return cached, nil
		}
	}

	key := keyRecentPrefix + teamName
	if !g.session.Acquire(key) {
		g.metrics.RecordDuplicate(endpoint)
		logging.Info(g.logger, "recent games request already in progress", logging.FieldTeam, teamName)
		return nil, ErrFetchInProgress
	}
	defer g.session.Release(key)

	raw, err := g.getJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	result, err := normalizeRecentGames(raw)
	if err != nil {
		return nil, g.formatFailure(endpoint, err)
	}

	g.session.SetRecentGames(teamName, result)
	return result, nil
}

// GeneratePodcast submits the full request body. It is deduplicated by the
// serialized payload, so identical concurrent submissions collapse to one
// call while distinct payloads proceed independently. The result is never
// cached.
func (g *Gateway) GeneratePodcast(ctx context.Context, req podcast.Request) (*podcast.Response, error) {
	endpoint := g.baseURL + "/podcast"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding podcast request: %w", err)
	}

	key := keyPodcastPrefix + string(body)
	if !g.session.Acquire(key) {
		g.metrics.RecordDuplicate(endpoint)
		logging.Info(g.logger, "podcast generation already in progress", logging.FieldTeam, req.Team)
		return nil, ErrFetchInProgress
	}
	defer g.session.Release(key)

	raw, err := g.postJSON(ctx, endpoint, body)
	if err != nil {
		return nil, err
	}

	result, err := normalizePodcast(raw, req.Team)
	if err != nil {
		return nil, g.formatFailure(endpoint, err)
	}

	return &result, nil
}

// ClearCache resets all cache maps to empty. In-flight markers and the debug
// log are unaffected.
func (g *Gateway) ClearCache() {
	g.session.Clear()
	logging.Info(g.logger, "session cache cleared")
}

// DebugEntries exposes the append-only call log for display.
func (g *Gateway) DebugEntries() []DebugEntry {
	return g.debug.Entries()
}

func (g *Gateway) getJSON(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, g.networkFailure(endpoint, 0, "", err)
	}
	return g.roundTrip(req, endpoint)
}

func (g *Gateway) postJSON(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, g.networkFailure(endpoint, 0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return g.roundTrip(req, endpoint)
}

// roundTrip issues the request and returns the raw 2xx body. Every completed
// attempt lands in the debug log: real status and payload on success, status
// 0 and the error on failure. The cache is never touched here.
func (g *Gateway) roundTrip(req *http.Request, endpoint string) ([]byte, error) {
	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.metrics.RecordCall(endpoint, time.Since(start), err)
		return nil, g.networkFailure(endpoint, 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		callErr := g.networkFailure(endpoint, resp.StatusCode, strings.TrimSpace(string(snippet)), nil)
		g.metrics.RecordCall(endpoint, time.Since(start), callErr)
		return nil, callErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		g.metrics.RecordCall(endpoint, time.Since(start), err)
		return nil, g.networkFailure(endpoint, 0, "", err)
	}

	g.metrics.RecordCall(endpoint, time.Since(start), nil)
	g.debug.Append(endpoint, resp.StatusCode, string(raw))
	logging.Info(g.logger, "gateway call completed",
		logging.FieldEndpoint, endpoint,
		logging.FieldStatusCode, resp.StatusCode,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return raw, nil
}

func (g *Gateway) networkFailure(endpoint string, status int, body string, cause error) error {
	err := &NetworkError{Endpoint: endpoint, StatusCode: status, Body: body, Err: cause}
	g.debug.Append(endpoint, 0, errorPayload(err))
	logging.Error(g.logger, "gateway call failed", err, logging.FieldEndpoint, endpoint)
	return err
}

func (g *Gateway) formatFailure(endpoint string, cause error) error {
	err := &FormatError{Endpoint: endpoint, Reason: cause.Error()}
	g.debug.Append(endpoint, 0, errorPayload(err))
	logging.Error(g.logger, "gateway response unrecognized", err, logging.FieldEndpoint, endpoint)
	return err
}

func errorPayload(err error) string {
	payload, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return err.Error()
	}
	return string(payload)
}
