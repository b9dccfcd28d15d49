package auth

import (
	"context"
	"errors"
	"testing"
)

func TestStaticTokenSource(t *testing.T) {
	src := StaticTokenSource("secret")

	token, err := src.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "secret" {
		t.Fatalf("unexpected token: %q", token)
	}

	empty := StaticTokenSource("")
	token, err = empty.Token(context.Background())
	if err != nil || token != "" {
		t.Fatalf("empty source should yield empty token without error, got %q, %v", token, err)
	}
}

func TestTokenSourceFunc(t *testing.T) {
	wantErr := errors.New("store unavailable")
	src := TokenSourceFunc(func(ctx context.Context) (string, error) {
		return "", wantErr
	})

	if _, err := src.Token(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
