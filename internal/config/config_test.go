package config_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/lexora/lexora-server/internal/config"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/stretchr/testify/require"
)

func validEnvironment() map[string]string {
	return map[string]string{
		"GOOGLE_CLIENT_ID":     "client-id",
		"GOOGLE_CLIENT_SECRET": "client-secret",
		"FRONTEND_URL":         "http://localhost:3000",
	}
}

func TestLoad_MissingRequiredListsEveryName(t *testing.T) {
	_, err := config.LoadFromEnvironment(map[string]string{})
	require.Error(t, err)
	require.Equal(t, apperrors.KindConfiguration, apperrors.KindOf(err))
	require.Contains(t, err.Error(), "GOOGLE_CLIENT_ID")
	require.Contains(t, err.Error(), "GOOGLE_CLIENT_SECRET")
	require.Contains(t, err.Error(), "FRONTEND_URL")
	require.NotContains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_SessionSecretRequiredOutsideDev(t *testing.T) {
	environment := validEnvironment()
	environment["ENV"] = "PROD"

	_, err := config.LoadFromEnvironment(environment)
	require.Error(t, err)
	require.Contains(t, err.Error(), "SESSION_SECRET")

	environment["SESSION_SECRET"] = "prod-secret"
	cfg, err := config.LoadFromEnvironment(environment)
	require.NoError(t, err)
	require.Equal(t, []byte("prod-secret"), cfg.GetSessionSecret())
}

func TestLoad_SessionSecretRequiredForHTTPSBackend(t *testing.T) {
	environment := validEnvironment()
	environment["BACKEND_URL"] = "https://api.lexora.example"

	_, err := config.LoadFromEnvironment(environment)
	require.Error(t, err)
	require.Equal(t, apperrors.KindConfiguration, apperrors.KindOf(err))
	require.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_DevSecretIsRandomPerLoad(t *testing.T) {
	first, err := config.LoadFromEnvironment(validEnvironment())
	require.NoError(t, err)
	second, err := config.LoadFromEnvironment(validEnvironment())
	require.NoError(t, err)

	require.Len(t, first.GetSessionSecret(), 64)
	require.NotEqual(t, first.GetSessionSecret(), second.GetSessionSecret())
	require.NotEqual(t, []byte("lexora-dev-session-secret"), first.GetSessionSecret())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadFromEnvironment(validEnvironment())
	require.NoError(t, err)

	require.Equal(t, ":5001", cfg.GetPort())
	require.Equal(t, "http://localhost:5001", cfg.GetBackendURL())
	require.Equal(t, "http://localhost:5001/api/oauth/google/callback", cfg.GetRedirectURL())
	require.Equal(t, 10*time.Minute, cfg.GetStateTTL())
	require.Equal(t, 24*time.Hour, cfg.GetMaxSessionAge())
	require.Equal(t, "http://localhost:3000/", cfg.GetSuccessURL())
	require.Equal(t, "http://localhost:3000/", cfg.GetFailureURL())
	require.Equal(t, []string{"user", "lawyer"}, cfg.GetSelfSignupRoles())
	require.Equal(t, []string{"http://localhost:3000"}, cfg.GetAllowedOrigins())
	require.Equal(t, config.StoreBackendMemory, cfg.GetStoreBackend())
	require.Equal(t, config.FeaturePolicyAllowAll, cfg.GetFeaturePolicy())
	require.Equal(t, config.AIProviderGroq, cfg.GetAIProvider())
	require.Equal(t, "llama-3.1-8b-instant", cfg.GetGroqModel())
	require.Equal(t, http.SameSiteLaxMode, cfg.GetCookieSameSite())
	require.False(t, cfg.GetCookieSecure())
	require.True(t, cfg.IsDev())
	require.NotEmpty(t, cfg.GetSessionSecret())
}

func TestLoad_DerivedValues(t *testing.T) {
	environment := validEnvironment()
	environment["BACKEND_URL"] = "https://api.lexora.example/"
	environment["SESSION_SECRET"] = "derived-secret"
	environment["OAUTH_SUCCESS_PATH"] = "dashboard"
	environment["OAUTH_FAILURE_PATH"] = "/login"
	environment["CORS_ALLOWED_ORIGINS"] = "https://a.example,https://b.example"
	environment["COOKIE_SAMESITE"] = "None"

	cfg, err := config.LoadFromEnvironment(environment)
	require.NoError(t, err)

	require.Equal(t, "https://api.lexora.example/api/oauth/google/callback", cfg.GetRedirectURL())
	require.Equal(t, "http://localhost:3000/dashboard", cfg.GetSuccessURL())
	require.Equal(t, "http://localhost:3000/login", cfg.GetFailureURL())
	require.True(t, cfg.GetCookieSecure())
	require.Equal(t, http.SameSiteNoneMode, cfg.GetCookieSameSite())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.GetAllowedOrigins())
}

func TestLoad_RejectsUnknownChoices(t *testing.T) {
	cases := map[string]string{
		"STORE_BACKEND":   "memcached",
		"DB_DRIVER":       "oracle",
		"FEATURE_POLICY":  "deny-all",
		"AI_PROVIDER":     "openai",
		"COOKIE_SAMESITE": "sometimes",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			environment := validEnvironment()
			environment[name] = value

			_, err := config.LoadFromEnvironment(environment)
			require.Error(t, err)
			require.Contains(t, err.Error(), name)
		})
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	environment := validEnvironment()
	environment["OAUTH_STATE_TTL"] = "ten minutes"

	_, err := config.LoadFromEnvironment(environment)
	require.Error(t, err)
	require.Equal(t, apperrors.KindConfiguration, apperrors.KindOf(err))
}
