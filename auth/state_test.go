package auth_test

import (
	"testing"

	"github.com/lexora/lexora-server/auth"
	"github.com/lexora/lexora-server/users"
	"github.com/stretchr/testify/require"
)

func TestGenerateState(t *testing.T) {
	first, err := auth.GenerateState(32)
	require.NoError(t, err)
	require.Len(t, first, 64)
	require.Regexp(t, "^[0-9a-f]{64}$", first)

	second, err := auth.GenerateState(32)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestComposeAndParseState(t *testing.T) {
	composite := auth.ComposeState("abc123", users.RoleLawyer)
	require.Equal(t, "abc123:lawyer", composite)

	nonce, role, err := auth.ParseState(composite)
	require.NoError(t, err)
	require.Equal(t, "abc123", nonce)
	require.Equal(t, users.RoleLawyer, role)

	for _, bad := range []string{"", "abc", ":lawyer", "abc:", "abc:king"} {
		_, _, err := auth.ParseState(bad)
		require.Error(t, err, bad)
	}
}

func TestStatesEqual(t *testing.T) {
	require.True(t, auth.StatesEqual("abc:user", "abc:user"))
	require.False(t, auth.StatesEqual("abc:user", "abc:admin"))
	require.False(t, auth.StatesEqual("abc:user", ""))
}
