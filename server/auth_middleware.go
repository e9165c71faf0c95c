package server

import (
	"context"
	"net/http"

	"github.com/lexora/lexora-server/access"
	"github.com/lexora/lexora-server/auth"
	"github.com/lexora/lexora-server/users"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyIdentity stores the authenticated *auth.Identity
const ContextKeyIdentity ContextKey = "identity"

// IdentityFromContext returns the identity attached by RequireAuth or OptionalAuth.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(ContextKeyIdentity).(*auth.Identity)
	return identity, ok && identity != nil
}

func withIdentity(r *http.Request, identity *auth.Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextKeyIdentity, identity))
}

// RequireAuth resolves the session credential from the session cookie or a
// Bearer header and rejects the request with 401 when it is missing, invalid
// or expired.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, err := s.auth.Authenticate(r.Context(), sessionTokenFromRequest(r))
			if err != nil {
				writeError(w, err)
				return
			}
			next(w, withIdentity(r, identity))
		}
	}
}

// OptionalAuth attaches an identity when the request carries a valid
// credential and otherwise continues anonymously.
func (s *Server) OptionalAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := sessionTokenFromRequest(r)
			if token == "" {
				next(w, r)
				return
			}
			identity, err := s.auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Debug().Err(err).Msg("[OptionalAuth] continuing anonymously")
				next(w, r)
				return
			}
			next(w, withIdentity(r, identity))
		}
	}
}

// RequireRole must be chained after RequireAuth.
func (s *Server) RequireRole(roles ...users.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Authentication required", Code: auth.CodeAuthRequired})
				return
			}
			if !identity.Role.In(roles...) {
				writeJSON(w, http.StatusForbidden, errorResponse{Error: "Insufficient permissions", Code: "INSUFFICIENT_ROLE"})
				return
			}
			next(w, r)
		}
	}
}

type featureDeniedResponse struct {
	Error        string `json:"error"`
	Code         string `json:"code"`
	Feature      string `json:"feature"`
	Reason       string `json:"reason"`
	RequiredTier string `json:"requiredTier,omitempty"`
}

// RequireFeature consults the access policy. It must be chained after RequireAuth.
func (s *Server) RequireFeature(feature access.Feature) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Authentication required", Code: auth.CodeAuthRequired})
				return
			}

			decision := s.policy.Check(r.Context(), *identity, feature)
			if !decision.Allowed {
				writeJSON(w, http.StatusForbidden, featureDeniedResponse{
					Error:        access.Message(decision),
					Code:         "FEATURE_RESTRICTED",
					Feature:      string(feature),
					Reason:       decision.Reason,
					RequiredTier: decision.RequiredTier,
				})
				return
			}
			next(w, r)
		}
	}
}
