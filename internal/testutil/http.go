package testutil

import (
	"io"
	"net/http"
	"strings"
)

// RoundTripperFunc adapts a function to http.RoundTripper for canned
// responses in tests.
type RoundTripperFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// JSONResponse builds an *http.Response with a JSON body.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

// Client wraps a RoundTripperFunc in an http.Client.
func Client(rt RoundTripperFunc) *http.Client {
	return &http.Client{Transport: rt}
}
