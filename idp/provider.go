package idp

import (
	"context"

	"golang.org/x/oauth2"
)

// Profile is the subset of the provider's userinfo the platform keeps.
type Profile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// IdentityProvider is one external OAuth2 identity provider.
type IdentityProvider interface {
	// AuthCodeURL builds the consent URL the browser is redirected to
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for provider tokens
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchProfile reads the authenticated user's profile with the exchanged token
	FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error)
}
