package config

import (
	"net/http"
	"strings"
	"time"
)

const (
	sessionSecretVar  = "SESSION_SECRET"
	cookieSameSiteVar = "COOKIE_SAMESITE"
	featurePolicyVar  = "FEATURE_POLICY"

	FeaturePolicyAllowAll          = "allow-all"
	FeaturePolicyRoleGated         = "role-gated"
	FeaturePolicySubscriptionGated = "subscription-gated"
)

type SecurityConfig interface {
	GetSessionSecret() []byte
	GetMaxSessionAge() time.Duration
	GetCookieSecure() bool
	GetCookieSameSite() http.SameSite
	GetRateLimitPerMinute() int
	GetRateLimitBurst() int
	GetFeaturePolicy() string
}

type Security struct {
	SessionSecret      string        `env:"SESSION_SECRET"`
	SessionMaxAge      time.Duration `env:"SESSION_MAX_AGE" envDefault:"24h"`
	CookieSameSite     string        `env:"COOKIE_SAMESITE" envDefault:"lax"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
	FeaturePolicy      string        `env:"FEATURE_POLICY" envDefault:"allow-all"`
}

var _ SecurityConfig = mainConfig{}

// GetSessionSecret is never empty on a loaded config: validation demands one
// outside plain-http DEV, and DEV without one gets a random per-process value.
func (s Security) GetSessionSecret() []byte {
	return []byte(s.SessionSecret)
}

func (s Security) GetMaxSessionAge() time.Duration {
	return s.SessionMaxAge
}

func (s Security) GetCookieSameSite() http.SameSite {
	switch strings.ToLower(s.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (s Security) GetRateLimitPerMinute() int {
	return s.RateLimitPerMinute
}

func (s Security) GetRateLimitBurst() int {
	return s.RateLimitBurst
}

func (s Security) GetFeaturePolicy() string {
	return s.FeaturePolicy
}
