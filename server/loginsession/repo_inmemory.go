package loginsession

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
	apperrors "github.com/lexora/lexora-server/internal/errors"
)

var _ Repo = (*InMemoryLoginSessionRepo)(nil)

// InMemoryLoginSessionRepo is a ttlcache-backed Repo for single-process deployments.
type InMemoryLoginSessionRepo struct {
	cache *ttlcache.Cache[string, Session]
}

// NewInMemoryLoginSessionRepo starts the cache's expiry loop. Call Close to stop it.
func NewInMemoryLoginSessionRepo(maxAge time.Duration) *InMemoryLoginSessionRepo {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, Session](maxAge),
		ttlcache.WithDisableTouchOnHit[string, Session](),
	)
	go cache.Start()

	return &InMemoryLoginSessionRepo{cache: cache}
}

func (r *InMemoryLoginSessionRepo) Upsert(_ context.Context, session Session) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is required")
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return apperrors.ErrSessionExpired
	}
	r.cache.Set(session.ID, session, ttl)
	return nil
}

func (r *InMemoryLoginSessionRepo) Get(_ context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}

	item := r.cache.Get(sessionID)
	if item == nil {
		return Session{}, apperrors.ErrSessionNotFound
	}
	session := item.Value()
	if session.Expired(time.Now()) {
		return Session{}, apperrors.ErrSessionNotFound
	}
	return session, nil
}

func (r *InMemoryLoginSessionRepo) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}
	r.cache.Delete(sessionID)
	return nil
}

func (r *InMemoryLoginSessionRepo) Close() {
	r.cache.Stop()
}
