package loginsession

import (
	"context"
	"time"
)

// Session is an authenticated server-side session. The signed credential
// handed to the browser only references it by ID.
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Repo stores sessions until ExpiresAt. Get returns an error matching
// errors.ErrSessionNotFound for unknown or expired sessions.
type Repo interface {
	Upsert(ctx context.Context, session Session) error
	Get(ctx context.Context, sessionID string) (Session, error)
	Delete(ctx context.Context, sessionID string) error
}
