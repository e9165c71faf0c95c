package config

import "time"

const (
	googleClientIDVar     = "GOOGLE_CLIENT_ID"
	googleClientSecretVar = "GOOGLE_CLIENT_SECRET"

	GoogleCallbackPath = "/api/oauth/google/callback"
)

type OAuthConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetRedirectURL() string
	GetOAuthScopes() []string
	GetStateTTL() time.Duration
	GetSuccessURL() string
	GetFailureURL() string
	GetSelfSignupRoles() []string
	GetOAuthTimeout() time.Duration
	GetStateLength() int
}

type OAuth struct {
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	StateTTL           time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m"`
	SuccessPath        string        `env:"OAUTH_SUCCESS_PATH" envDefault:"/"`
	FailurePath        string        `env:"OAUTH_FAILURE_PATH" envDefault:"/"`
	SelfSignupRoles    []string      `env:"OAUTH_SELF_SIGNUP_ROLES" envSeparator:"," envDefault:"user,lawyer"`
	Timeout            time.Duration `env:"OAUTH_TIMEOUT" envDefault:"10s"`
}

var _ OAuthConfig = mainConfig{}

func (o OAuth) GetGoogleClientID() string {
	return o.GoogleClientID
}

func (o OAuth) GetGoogleClientSecret() string {
	return o.GoogleClientSecret
}

func (OAuth) GetOAuthScopes() []string {
	return []string{"openid", "email", "profile"}
}

func (o OAuth) GetStateTTL() time.Duration {
	return o.StateTTL
}

func (o OAuth) GetSelfSignupRoles() []string {
	return o.SelfSignupRoles
}

func (o OAuth) GetOAuthTimeout() time.Duration {
	return o.Timeout
}

func (OAuth) GetStateLength() int {
	return 32 // 32 bytes = 256 bits
}
