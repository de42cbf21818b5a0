package driven

import (
	"context"
)

// TokenProvider provides access tokens for authenticated API calls.
type TokenProvider interface {
	// GetToken returns a valid access token.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if a token is available.
	IsAuthenticated() bool
}

// StaticTokenProvider serves a fixed personal access token.
type StaticTokenProvider struct {
	Token string
}

// GetToken returns the configured token.
func (p StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	return p.Token, nil
}

// IsAuthenticated reports whether a token is configured.
func (p StaticTokenProvider) IsAuthenticated() bool {
	return p.Token != ""
}
