package idp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/lexora/lexora-server/internal/config"
	"golang.org/x/oauth2"
	googleOAuth2 "golang.org/x/oauth2/google"
)

const (
	GoogleIssuer      = "https://accounts.google.com"
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	googleJWKSURL     = "https://www.googleapis.com/oauth2/v3/certs"
)

// Endpoints lets tests point the provider at a local server.
type Endpoints struct {
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// GoogleEndpoints returns Google's published endpoints.
func GoogleEndpoints() Endpoints {
	return Endpoints{
		AuthURL:     googleOAuth2.Endpoint.AuthURL,
		TokenURL:    googleOAuth2.Endpoint.TokenURL,
		UserInfoURL: googleUserInfoURL,
	}
}

// GoogleProvider implements IdentityProvider with golang.org/x/oauth2 for the
// code exchange and go-oidc for the userinfo call.
type GoogleProvider struct {
	oauth2Config *oauth2.Config
	provider     *oidc.Provider
	httpClient   *http.Client
}

var _ IdentityProvider = (*GoogleProvider)(nil)

// NewGoogleProvider builds the provider from static endpoints. No discovery
// request is made.
func NewGoogleProvider(ctx context.Context, cfg config.OAuthConfig, endpoints Endpoints) (*GoogleProvider, error) {
	if cfg.GetGoogleClientID() == "" || cfg.GetGoogleClientSecret() == "" {
		return nil, fmt.Errorf("[idp NewGoogleProvider] client id and secret are required")
	}

	providerConfig := oidc.ProviderConfig{
		IssuerURL:   GoogleIssuer,
		AuthURL:     endpoints.AuthURL,
		TokenURL:    endpoints.TokenURL,
		UserInfoURL: endpoints.UserInfoURL,
		JWKSURL:     googleJWKSURL,
		Algorithms:  []string{oidc.RS256},
	}

	timeout := cfg.GetOAuthTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GetGoogleClientID(),
			ClientSecret: cfg.GetGoogleClientSecret(),
			RedirectURL:  cfg.GetRedirectURL(),
			Scopes:       cfg.GetOAuthScopes(),
			Endpoint: oauth2.Endpoint{
				AuthURL:   endpoints.AuthURL,
				TokenURL:  endpoints.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		provider:   providerConfig.NewProvider(ctx),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.oauth2Config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	token, err := g.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("[GoogleProvider Exchange] %w", err)
	}
	return token, nil
}

func (g *GoogleProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	ctx = oidc.ClientContext(ctx, g.httpClient)
	userInfo, err := g.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("[GoogleProvider FetchProfile] userinfo: %w", err)
	}

	var claims struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := userInfo.Claims(&claims); err != nil {
		return nil, fmt.Errorf("[GoogleProvider FetchProfile] claims: %w", err)
	}

	return &Profile{
		Subject:       userInfo.Subject,
		Email:         userInfo.Email,
		EmailVerified: userInfo.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}
