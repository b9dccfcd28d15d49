package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mlbcast/internal/domain/podcast"
	"mlbcast/internal/metrics"
	"mlbcast/internal/testutil"
)

func newTestGateway(rt testutil.RoundTripperFunc, recorder *metrics.Recorder) *Gateway {
	logger, _ := testutil.NewBufferLogger()
	return New(Config{
		BaseURL:    "https://api.test/api/v1",
		HTTPClient: testutil.Client(rt),
		Logger:     logger,
		Metrics:    recorder,
	})
}

func TestFetchTeamsCachesAfterFirstCall(t *testing.T) {
	var calls int32
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return testutil.JSONResponse(200, `[{"id":"t1","name":"Boston Red Sox","abbreviation":"BOS"}]`), nil
	}, nil)

	first, err := gw.FetchTeams(context.Background(), false)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	second, err := gw.FetchTeams(context.Background(), false)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 network call, got %d", got)
	}
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Fatalf("cache returned a different result: %+v vs %+v", first, second)
	}
}

func TestFetchTeamsForceRefreshBypassesCache(t *testing.T) {
	var calls int32
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return testutil.JSONResponse(200, `[]`), nil
	}, nil)

	if _, err := gw.FetchTeams(context.Background(), false); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	if _, err := gw.FetchTeams(context.Background(), true); err != nil {
		t.Fatalf("refresh fetch failed: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 network calls, got %d", got)
	}
}

func TestFetchTeamsFailureIsNotCached(t *testing.T) {
	var calls int32
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return testutil.JSONResponse(500, `{"error":"boom"}`), nil
		}
		return testutil.JSONResponse(200, `[{"id":"t1","name":"Boston Red Sox","abbreviation":"BOS"}]`), nil
	}, nil)

	if _, err := gw.FetchTeams(context.Background(), false); err == nil {
		t.Fatal("expected first fetch to fail")
	}

	result, err := gw.FetchTeams(context.Background(), false)
	if err != nil {
		t.Fatalf("retry after failure failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 team after retry, got %d", len(result))
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 network calls, got %d", got)
	}
}

func TestFetchTeamsDuplicateSuppressed(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	recorder := metrics.NewRecorder()

	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		close(started)
		<-release
		return testutil.JSONResponse(200, `[]`), nil
	}, recorder)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := gw.FetchTeams(context.Background(), false); err != nil {
			t.Errorf("original fetch failed: %v", err)
		}
	}()

	<-started
	_, err := gw.FetchTeams(context.Background(), false)
	if !errors.Is(err, ErrFetchInProgress) {
		t.Fatalf("expected ErrFetchInProgress, got %v", err)
	}

	close(release)
	wg.Wait()

	endpoint := "https://api.test/api/v1/teams"
	if got := recorder.Duplicates(endpoint); got != 1 {
		t.Fatalf("expected 1 suppressed duplicate, got %d", got)
	}
	if got := recorder.Calls(endpoint); got != 1 {
		t.Fatalf("expected 1 recorded call, got %d", got)
	}
}

func TestFetchPlayersCachedPerTeam(t *testing.T) {
	var calls int32
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return testutil.JSONResponse(200, `{"players":[{"id":"p1","name":"Mookie Betts","position":"RF"}]}`), nil
	}, nil)

	if _, err := gw.FetchPlayers(context.Background(), "Boston Red Sox", false); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if _, err := gw.FetchPlayers(context.Background(), "Boston Red Sox", false); err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if _, err := gw.FetchPlayers(context.Background(), "New York Yankees", false); err != nil {
		t.Fatalf("second team fetch failed: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected one call per team, got %d total", got)
	}
}

func TestFetchLastGameReturnsCopy(t *testing.T) {
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		return testutil.JSONResponse(200, `{"data":{"game":{"id":"g1","opponent":"New York Yankees","type":"Regular Season"}}}`), nil
	}, nil)

	first, err := gw.FetchLastGame(context.Background(), "Boston Red Sox", false)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	first.Opponent = "mutated"

	second, err := gw.FetchLastGame(context.Background(), "Boston Red Sox", false)
	if err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if second.Opponent != "New York Yankees" {
		t.Fatalf("cache was mutated through the returned pointer: %+v", second)
	}
}

func TestFetchRecentGamesUsesHistoryCount(t *testing.T) {
	var gotURL string
	logger, _ := testutil.NewBufferLogger()
	gw := New(Config{
		BaseURL: "https://api.test/api/v1",
		HTTPClient: testutil.Client(func(req *http.Request) (*http.Response, error) {
			gotURL = req.URL.String()
			return testutil.JSONResponse(200, `{"data":{"games":{"games":[{"id":"g1"}]}}}`), nil
		}),
		HistoryCount: 3,
		Logger:       logger,
	})

	result, err := gw.FetchRecentGames(context.Background(), "Boston Red Sox", false)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(result) != 1 || result[0].ID != "g1" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !strings.HasSuffix(gotURL, "/games/history?count=3") {
		t.Fatalf("expected count=3 in request, got %s", gotURL)
	}
}

func TestClearCacheForcesRefetch(t *testing.T) {
	var calls int32
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return testutil.JSONResponse(200, `[]`), nil
	}, nil)

	if _, err := gw.FetchTeams(context.Background(), false); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	gw.ClearCache()
	if _, err := gw.FetchTeams(context.Background(), false); err != nil {
		t.Fatalf("fetch after clear failed: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected refetch after clear, got %d calls", got)
	}
}

func TestGeneratePodcastNeverCached(t *testing.T) {
	var calls int32
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return testutil.JSONResponse(200, `{"data":{"podcast":{"url":"https://cdn/pod.mp3"}}}`), nil
	}, nil)

	req := podcast.NewRequest("english")
	req.Team = "Boston Red Sox"

	for i := 0; i < 2; i++ {
		resp, err := gw.GeneratePodcast(context.Background(), req)
		if err != nil {
			t.Fatalf("generation %d failed: %v", i, err)
		}
		if resp.URL != "https://cdn/pod.mp3" {
			t.Fatalf("unexpected response: %+v", resp)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 network calls, got %d", got)
	}
}

func TestGeneratePodcastDedupedByPayload(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	var calls int32
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
		}
		return testutil.JSONResponse(200, `{"url":"https://cdn/pod.mp3"}`), nil
	}, nil)

	same := podcast.NewRequest("english")
	same.Team = "Boston Red Sox"

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := gw.GeneratePodcast(context.Background(), same); err != nil {
			t.Errorf("original generation failed: %v", err)
		}
	}()

	<-started

	// Identical payload while the original is in flight: suppressed.
	if _, err := gw.GeneratePodcast(context.Background(), same); !errors.Is(err, ErrFetchInProgress) {
		t.Fatalf("expected ErrFetchInProgress for identical payload, got %v", err)
	}

	// Distinct payload proceeds independently.
	other := podcast.NewRequest("spanish")
	other.Team = "New York Yankees"
	if _, err := gw.GeneratePodcast(context.Background(), other); err != nil {
		t.Fatalf("distinct payload should not be suppressed: %v", err)
	}

	close(release)
	wg.Wait()
}

func TestDebugLogRecordsSuccessAndFailure(t *testing.T) {
	var calls int32
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return testutil.JSONResponse(200, `[]`), nil
		}
		return testutil.JSONResponse(503, `{"error":"down"}`), nil
	}, nil)

	if _, err := gw.FetchTeams(context.Background(), false); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	gw.ClearCache()
	if _, err := gw.FetchTeams(context.Background(), false); err == nil {
		t.Fatal("expected second fetch to fail")
	}

	entries := gw.DebugEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 debug entries, got %d", len(entries))
	}

	success := entries[0]
	if success.Status != 200 || success.Data != `[]` {
		t.Fatalf("unexpected success entry: %+v", success)
	}
	if success.ID == "" || success.Timestamp.IsZero() {
		t.Fatalf("success entry missing id or timestamp: %+v", success)
	}

	failure := entries[1]
	if failure.Status != 0 {
		t.Fatalf("failure entry should record status 0, got %d", failure.Status)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(failure.Data), &payload); err != nil {
		t.Fatalf("failure payload is not JSON: %v", err)
	}
	if payload["error"] == "" {
		t.Fatalf("failure payload missing error message: %q", failure.Data)
	}
}

func TestFormatFailureLogsRawBodyAndError(t *testing.T) {
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		return testutil.JSONResponse(200, `{"rows":[]}`), nil
	}, nil)

	_, err := gw.FetchTeams(context.Background(), false)
	fmtErr, ok := AsFormatError(err)
	if !ok {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if !strings.Contains(fmtErr.Endpoint, "/teams") {
		t.Fatalf("format error missing endpoint: %+v", fmtErr)
	}

	// The raw 2xx body is logged first, then the format failure.
	entries := gw.DebugEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 debug entries, got %d", len(entries))
	}
	if entries[0].Status != 200 || entries[0].Data != `{"rows":[]}` {
		t.Fatalf("unexpected raw entry: %+v", entries[0])
	}
	if entries[1].Status != 0 {
		t.Fatalf("expected status-0 format entry, got %+v", entries[1])
	}
}

func TestNetworkErrorCarriesStatusAndBody(t *testing.T) {
	recorder := metrics.NewRecorder()
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		return testutil.JSONResponse(404, `{"error":"no such team"}`), nil
	}, recorder)

	_, err := gw.FetchPlayers(context.Background(), "Boston Red Sox", false)
	netErr, ok := AsNetworkError(err)
	if !ok {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.StatusCode != 404 {
		t.Fatalf("expected status 404, got %d", netErr.StatusCode)
	}
	if !strings.Contains(netErr.Body, "no such team") {
		t.Fatalf("expected body snippet, got %q", netErr.Body)
	}

	endpoint := "https://api.test/api/v1/teams/Boston%20Red%20Sox/players"
	snap := recorder.SnapshotFor(endpoint)
	if snap.Calls != 1 || snap.Errors != 1 {
		t.Fatalf("unexpected metrics snapshot: %+v", snap)
	}
}

func TestCacheHitRecordsMetric(t *testing.T) {
	recorder := metrics.NewRecorder()
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		return testutil.JSONResponse(200, `[]`), nil
	}, recorder)

	if _, err := gw.FetchTeams(context.Background(), false); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if _, err := gw.FetchTeams(context.Background(), false); err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}

	if got := recorder.CacheHits("https://api.test/api/v1/teams"); got != 1 {
		t.Fatalf("expected 1 cache hit, got %d", got)
	}
}

func TestRequestTimeoutSurfacesAsNetworkError(t *testing.T) {
	gw := newTestGateway(func(req *http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	_, err := gw.FetchTeams(ctx, false)
	netErr, ok := AsNetworkError(err)
	if !ok {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.StatusCode != 0 {
		t.Fatalf("transport failure should carry status 0, got %d", netErr.StatusCode)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
