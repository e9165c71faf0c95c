package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/lexora/lexora-server/auth"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/rs/zerolog/log"
)

// GoogleLoginHandler starts the handshake for the requested role and sends
// the browser to the provider.
func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := s.auth.BeginLogin(r.Context(), r.URL.Query().Get("role"))
		if err != nil {
			writeError(w, err)
			return
		}

		s.setFlowCookie(w, start.FlowID, start.ExpiresAt)
		http.Redirect(w, r, start.AuthURL, http.StatusFound)
	}
}

// GoogleCallbackHandler finishes the handshake. Every outcome is a redirect
// to the frontend; failures carry only the error code.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		params := auth.CallbackParams{
			State:         query.Get("state"),
			Code:          query.Get("code"),
			ProviderError: query.Get("error"),
		}
		if cookie, err := r.Cookie(flowCookieName); err == nil {
			params.FlowID = cookie.Value
		}
		s.clearFlowCookie(w)

		result, err := s.auth.CompleteLogin(r.Context(), params)
		if err != nil {
			code := apperrors.CodeOf(err, auth.CodeOAuthFailed)
			s.metrics.Login(code)
			log.Info().Str("code", code).Msg("[GoogleCallbackHandler] login failed")
			http.Redirect(w, r, frontendRedirect(s.config.GetFailureURL(), url.Values{"error": {code}}), http.StatusFound)
			return
		}

		s.metrics.Login("success")
		s.setSessionCookie(w, result.Token, result.Session.ExpiresAt)

		query = url.Values{}
		if result.Created {
			query.Set("welcome", "true")
		}
		log.Info().Str("user_id", result.User.ID).Bool("created", result.Created).Msg("[GoogleCallbackHandler] login succeeded")
		http.Redirect(w, r, frontendRedirect(s.config.GetSuccessURL(), query), http.StatusFound)
	}
}

// MeHandler answers with the stored user itself: {id, email, name, role, ...}.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())
		user, err := s.auth.CurrentUser(r.Context(), identity)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())
		if err := s.auth.Logout(r.Context(), identity.SessionID); err != nil {
			writeError(w, err)
			return
		}
		s.clearSessionCookie(w)
		writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
	}
}

type oauthHealthResponse struct {
	Status    string    `json:"status"`
	OAuth     string    `json:"oauth"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) OAuthHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, oauthHealthResponse{Status: "ok", OAuth: "ready", Timestamp: time.Now().UTC()})
	}
}
