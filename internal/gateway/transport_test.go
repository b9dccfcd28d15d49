package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"mlbcast/internal/auth"
	"mlbcast/internal/testutil"
)

func TestAuthTransportSetsBearerAndRequestID(t *testing.T) {
	var got *http.Request
	transport := &authTransport{
		tokens: auth.StaticTokenSource("secret"),
		next: testutil.Client(func(req *http.Request) (*http.Response, error) {
			got = req
			return testutil.JSONResponse(200, `[]`), nil
		}),
	}

	req, _ := http.NewRequest(http.MethodGet, "https://api.test/api/v1/teams", nil)
	resp, err := transport.Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	resp.Body.Close()

	if got.Header.Get("Authorization") != "Bearer secret" {
		t.Fatalf("unexpected Authorization header: %q", got.Header.Get("Authorization"))
	}
	if got.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestAuthTransportSkipsLoginPath(t *testing.T) {
	var got *http.Request
	transport := &authTransport{
		tokens: auth.StaticTokenSource("secret"),
		next: testutil.Client(func(req *http.Request) (*http.Response, error) {
			got = req
			return testutil.JSONResponse(200, `{}`), nil
		}),
	}

	req, _ := http.NewRequest(http.MethodPost, "https://api.test/api/v1/users/login", nil)
	resp, err := transport.Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	resp.Body.Close()

	if got.Header.Get("Authorization") != "" {
		t.Fatalf("login must not carry a bearer token, got %q", got.Header.Get("Authorization"))
	}
	if got.Header.Get("X-Request-ID") == "" {
		t.Fatal("login should still carry a request id")
	}
}

func TestAuthTransportEmptyTokenOmitsHeader(t *testing.T) {
	var got *http.Request
	transport := &authTransport{
		tokens: auth.StaticTokenSource(""),
		next: testutil.Client(func(req *http.Request) (*http.Response, error) {
			got = req
			return testutil.JSONResponse(200, `[]`), nil
		}),
	}

	req, _ := http.NewRequest(http.MethodGet, "https://api.test/api/v1/teams", nil)
	resp, err := transport.Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	resp.Body.Close()

	if got.Header.Get("Authorization") != "" {
		t.Fatalf("empty token must omit the header, got %q", got.Header.Get("Authorization"))
	}
}

func TestAuthTransportTokenErrorAborts(t *testing.T) {
	tokenErr := errors.New("token store unavailable")
	transport := &authTransport{
		tokens: auth.TokenSourceFunc(func(ctx context.Context) (string, error) {
			return "", tokenErr
		}),
		next: testutil.Client(func(req *http.Request) (*http.Response, error) {
			t.Fatal("request must not be sent when the token source fails")
			return nil, nil
		}),
	}

	req, _ := http.NewRequest(http.MethodGet, "https://api.test/api/v1/teams", nil)
	if _, err := transport.Do(req); !errors.Is(err, tokenErr) {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestResolveHTTPClientDefaults(t *testing.T) {
	custom := &http.Client{Timeout: time.Second}
	if resolveHTTPClient(custom, 0) != custom {
		t.Fatal("explicit client should be used as-is")
	}

	doer := resolveHTTPClient(nil, 0)
	client, ok := doer.(*http.Client)
	if !ok {
		t.Fatalf("expected *http.Client, got %T", doer)
	}
	if client.Timeout != defaultHTTPTimeout {
		t.Fatalf("expected default timeout %v, got %v", defaultHTTPTimeout, client.Timeout)
	}

	doer = resolveHTTPClient(nil, 5*time.Second)
	if doer.(*http.Client).Timeout != 5*time.Second {
		t.Fatalf("expected configured timeout, got %v", doer.(*http.Client).Timeout)
	}
}

func TestNormalizeBaseURLTrimsTrailingSlash(t *testing.T) {
	if got := normalizeBaseURL("https://api.test/api/v1/"); got != "https://api.test/api/v1" {
		t.Fatalf("unexpected base url: %q", got)
	}
	if got := normalizeBaseURL("https://api.test/api/v1"); got != "https://api.test/api/v1" {
		t.Fatalf("unexpected base url: %q", got)
	}
}
