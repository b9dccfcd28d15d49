// Package auth supplies the session-token collaborator. The gateway only
// depends on "give me a token"; how the token is obtained is outside the
// orchestration core.
package auth

import "context"

// TokenSource yields the bearer token attached to outgoing calls.
// An empty token with a nil error means "unauthenticated": the request is
// sent without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns the same token for the whole session.
type StaticTokenSource string

func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}
