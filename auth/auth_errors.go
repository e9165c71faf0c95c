package auth

import apperrors "github.com/lexora/lexora-server/internal/errors"

// Failure codes appended to the frontend failure redirect as ?error=<code>.
const (
	CodeInvalidRole    = "invalid_role"
	CodeOAuthDenied    = "oauth_denied"
	CodeMissingParams  = "missing_params"
	CodeInvalidState   = "invalid_state"
	CodeOAuthFailed    = "oauth_failed"
	CodeNoProfile      = "no_profile"
	CodeRoleNotAllowed = "role_not_allowed"
)

// Codes returned by session validation.
const (
	CodeAuthRequired   = "AUTH_REQUIRED"
	CodeInvalidToken   = "INVALID_TOKEN"
	CodeSessionExpired = "SESSION_EXPIRED"
)

func loginError(kind apperrors.Kind, code string, err error) *apperrors.Error {
	return &apperrors.Error{Kind: kind, Code: code, Message: "login failed", Err: err}
}
