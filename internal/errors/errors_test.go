package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestError_HTTPStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    *apperrors.Error
		status int
	}{
		{"authentication", apperrors.Authentication("AUTH_REQUIRED", "Authentication required"), http.StatusUnauthorized},
		{"authorization", apperrors.Authorization("INSUFFICIENT_ROLE", "Access denied"), http.StatusForbidden},
		{"not found", apperrors.NotFound("Form not found"), http.StatusNotFound},
		{"validation", apperrors.Validation("Title and category are required"), http.StatusBadRequest},
		{"state", apperrors.StateValidation("invalid_state", apperrors.ErrStateMismatch), http.StatusBadRequest},
		{"internal", apperrors.Internal("boom", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.status, tc.err.HTTPStatus())
		})
	}
}

func TestKindAndCodeThroughWrapping(t *testing.T) {
	base := apperrors.ProviderExchange("oauth_failed", fmt.Errorf("connection refused"))
	wrapped := apperrors.Wrapf(base, "[auth CompleteLogin] exchange")

	require.Equal(t, apperrors.KindProviderExchange, apperrors.KindOf(wrapped))
	require.Equal(t, "oauth_failed", apperrors.CodeOf(wrapped, "fallback"))
	require.Equal(t, "fallback", apperrors.CodeOf(fmt.Errorf("plain"), "fallback"))
	require.Equal(t, apperrors.KindInternal, apperrors.KindOf(fmt.Errorf("plain")))
}

func TestWrapfNil(t *testing.T) {
	require.NoError(t, apperrors.Wrapf(nil, "nothing"))
}

func TestNotFoundMatchesSentinel(t *testing.T) {
	require.True(t, apperrors.Is(apperrors.NotFound("gone"), apperrors.ErrNotFound))
}
