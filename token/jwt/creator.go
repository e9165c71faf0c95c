package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lexora/lexora-server/token/keys"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// SessionClaims are the claims carried by a session credential.
type SessionClaims struct {
	SessionID string
	UserID    string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}

// Creator signs session credentials.
type Creator struct {
	signer keys.Signer
}

// NewCreator creates a new JWT creator
func NewCreator(signer keys.Signer) *Creator {
	return &Creator{signer: signer}
}

// CreateSessionToken signs a credential referencing a server-side session.
// The credential never outlives the session it points at.
func (c *Creator) CreateSessionToken(sessionID, userID, role string, expiresAt time.Time) (string, error) {
	claims := jwtlib.MapClaims{
		"sid":  sessionID,            // Server-side session the credential belongs to
		"sub":  userID,               // Internal user ID
		"role": role,                 // Role at login time
		"iat":  NowTimeFunc().Unix(), // Issued At
		"exp":  expiresAt.Unix(),     // Expiry, same as the session
		"jti":  uuid.New().String(),  // Unique token ID
	}

	signedToken, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signedToken, nil
}
