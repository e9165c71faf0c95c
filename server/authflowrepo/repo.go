package authflowrepo

import (
	"context"
	"time"
)

// AuthFlowState is the server-side half of one OAuth handshake, keyed by the
// flow id carried in the oauth_flow cookie.
type AuthFlowState struct {
	State     string    `json:"state"` // Composite "<nonce>:<role>" sent to the provider
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *AuthFlowState) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Repo stores flow states. Consume returns and removes the state in one step
// so a state can satisfy at most one callback. A missing or expired flow
// returns an error matching errors.ErrStateNotFound.
type Repo interface {
	Upsert(ctx context.Context, flowID string, authState *AuthFlowState) error
	Consume(ctx context.Context, flowID string) (*AuthFlowState, error)
	Delete(ctx context.Context, flowID string) error
}
