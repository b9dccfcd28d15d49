// Package fixture serves deterministic canned responses in the wire shapes
// the real service is known to produce. Useful for offline runs and tests.
package fixture

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Transport is an http.RoundTripper answering the five service endpoints.
// Each endpoint deliberately uses a different accepted response shape so the
// normalization paths stay exercised end to end.
type Transport struct{}

// New creates a fixture transport.
func New() *Transport { return &Transport{} }

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, status := t.respond(req)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Request:    req,
	}, nil
}

func (t *Transport) respond(req *http.Request) (string, int) {
	path := req.URL.Path

	switch {
	case strings.HasSuffix(path, "/teams"):
		// String entries: the client synthesizes ids and abbreviations.
		return `{"status":"success","data":{"teams":["Boston Red Sox","New York Yankees","Chicago Cubs","Los Angeles Dodgers"]}}`, http.StatusOK

	case strings.HasSuffix(path, "/players"):
		return `{"players":[
			{"id":"p-1","name":"Alex Rivera","position":"P"},
			{"id":"p-2","name":"Sam Okafor","position":"C"},
			{"id":"p-3","name":"Diego Martinez","position":"SS"},
			{"id":"p-4","name":"Ken Tanaka","position":"CF"}
		]}`, http.StatusOK

	case strings.HasSuffix(path, "/games/last"):
		return `{"data":{"game":{"id":"g-100","date":"2026-08-24","opponent":"New York Yankees","type":"Regular Season"}}}`, http.StatusOK

	case strings.Contains(path, "/games/history"):
		// The doubly nested variant the deployed service has been seen to
		// return.
		return `{"data":{"games":{"games":[
			{"id":"g-100","date":"2026-08-24","opponent":"New York Yankees","type":"Regular Season"},
			{"id":"g-99","date":"2026-08-23","opponent":"New York Yankees","type":"Regular Season"},
			{"id":"g-98","date":"2026-08-21","opponent":"Toronto Blue Jays","type":"Regular Season"},
			{"id":"g-97","date":"2026-08-20","opponent":"Toronto Blue Jays","type":"Regular Season"},
			{"id":"g-96","date":"2026-08-19","opponent":"Baltimore Orioles","type":"Regular Season"}
		]}}}`, http.StatusOK

	case strings.HasSuffix(path, "/podcast") && req.Method == http.MethodPost:
		return `{"data":{"podcast":{"audio_url":"https://example.com/podcasts/fixture.mp3","duration":182}}}`, http.StatusOK

	default:
		return fmt.Sprintf(`{"error":"no fixture for %s %s"}`, req.Method, path), http.StatusNotFound
	}
}
