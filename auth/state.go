package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/lexora/lexora-server/users"
)

// GenerateState returns length random bytes, hex encoded.
func GenerateState(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("[auth GenerateState] %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ComposeState joins the nonce and the requested role into the value sent
// to the provider as the state parameter.
func ComposeState(nonce string, role users.RoleType) string {
	return nonce + ":" + string(role)
}

// ParseState splits a composite state. The role follows the last colon.
func ParseState(composite string) (string, users.RoleType, error) {
	idx := strings.LastIndex(composite, ":")
	if idx <= 0 || idx == len(composite)-1 {
		return "", "", fmt.Errorf("malformed state")
	}
	role, err := users.ParseRole(composite[idx+1:])
	if err != nil {
		return "", "", err
	}
	return composite[:idx], role, nil
}

// StatesEqual compares two states in constant time.
func StatesEqual(issued, returned string) bool {
	return subtle.ConstantTimeCompare([]byte(issued), []byte(returned)) == 1
}
