package gateway

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"mlbcast/internal/auth"
)

const (
	defaultHTTPTimeout = 60 * time.Second
	headerRequestID    = "X-Request-ID"

	// The session provider handles login itself; the only endpoint that
	// must not carry a bearer token.
	loginPath = "/users/login"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func resolveHTTPClient(client *http.Client, timeout time.Duration) httpDoer {
	if client != nil {
		return client
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

func normalizeBaseURL(raw string) string {
	return strings.TrimSuffix(raw, "/")
}

// authTransport attaches the bearer token and a generated request ID to
// every outgoing request except login.
type authTransport struct {
	tokens auth.TokenSource
	next   httpDoer
}

func (t *authTransport) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set(headerRequestID, uuid.NewString())

	if t.tokens != nil && !strings.HasSuffix(req.URL.Path, loginPath) {
		token, err := t.tokens.Token(req.Context())
		if err != nil {
			return nil, err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return t.next.Do(req)
}
