package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	apperrors "github.com/lexora/lexora-server/internal/errors"
)

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
	SecurityConfig
	StorageConfig
	AIConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsDev() bool
	GetLogLevel() string
	GetLogPretty() bool
	GetFrontendURL() string
	GetBackendURL() string
	GetUploadDir() string
	GetMaxUploadBytes() int64
}

type CorsConfig interface {
	GetAllowedOrigins() []string
	GetAllowedMethods() []string
	GetAllowedHeaders() []string
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
	Security
	Storage
	AI
}

var _ Config = mainConfig{}

// Load reads the process environment once. Callers hold on to the result and
// pass it down; nothing else in the module reads the environment.
func Load() (Config, error) {
	return LoadFromEnvironment(env.ToMap(os.Environ()))
}

// LoadFromEnvironment parses the given variables instead of the process environment.
func LoadFromEnvironment(environment map[string]string) (Config, error) {
	var cfg mainConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return nil, apperrors.Configuration("invalid environment", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, apperrors.Configuration("generating session secret", err)
		}
		cfg.SessionSecret = secret
	}
	return cfg, nil
}

// randomSecret backs DEV runs that set no SESSION_SECRET. Sessions signed with
// it do not survive a restart.
func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (c mainConfig) validate() error {
	var missing []string
	if c.GoogleClientID == "" {
		missing = append(missing, googleClientIDVar)
	}
	if c.GoogleClientSecret == "" {
		missing = append(missing, googleClientSecretVar)
	}
	if c.FrontendURL == "" {
		missing = append(missing, frontendURLVar)
	}
	if c.SessionSecret == "" && (!c.IsDev() || c.GetCookieSecure()) {
		missing = append(missing, sessionSecretVar)
	}
	if len(missing) > 0 {
		return apperrors.Configuration(
			fmt.Sprintf("missing required environment variables: %s", strings.Join(missing, ", ")), nil)
	}

	if _, err := url.ParseRequestURI(c.BackendURL); err != nil {
		return apperrors.Configuration("BACKEND_URL must be an absolute URL", err)
	}
	if _, err := url.ParseRequestURI(c.FrontendURL); err != nil {
		return apperrors.Configuration("FRONTEND_URL must be an absolute URL", err)
	}

	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{storeBackendVar, c.StoreBackend, []string{StoreBackendMemory, StoreBackendRedis}},
		{dbDriverVar, c.DBDriver, []string{DBDriverSqlite, DBDriverPostgres, DBDriverMysql}},
		{featurePolicyVar, c.FeaturePolicy, []string{FeaturePolicyAllowAll, FeaturePolicyRoleGated, FeaturePolicySubscriptionGated}},
		{aiProviderVar, c.Provider, []string{AIProviderGroq, AIProviderGemini}},
		{cookieSameSiteVar, strings.ToLower(c.CookieSameSite), []string{"lax", "strict", "none"}},
	}
	for _, check := range checks {
		if !contains(check.allowed, check.value) {
			return apperrors.Configuration(
				fmt.Sprintf("%s must be one of %s, got %q", check.name, strings.Join(check.allowed, "|"), check.value), nil)
		}
	}
	return nil
}

// GetRedirectURL is always derived from BACKEND_URL. Request headers never
// take part in building it.
func (c mainConfig) GetRedirectURL() string {
	return strings.TrimRight(c.BackendURL, "/") + GoogleCallbackPath
}

func (c mainConfig) GetSuccessURL() string {
	return joinURL(c.FrontendURL, c.SuccessPath)
}

func (c mainConfig) GetFailureURL() string {
	return joinURL(c.FrontendURL, c.FailurePath)
}

func (c mainConfig) GetCookieSecure() bool {
	u, err := url.Parse(c.BackendURL)
	return err == nil && u.Scheme == "https"
}

func (c mainConfig) GetAllowedOrigins() []string {
	if len(c.AllowedOrigins) > 0 {
		return c.AllowedOrigins
	}
	return []string{strings.TrimRight(c.FrontendURL, "/")}
}

func joinURL(base, path string) string {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + path
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
