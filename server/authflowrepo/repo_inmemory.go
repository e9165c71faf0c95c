package authflowrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jellydator/ttlcache/v3"
	apperrors "github.com/lexora/lexora-server/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo keeps flow states in a ttlcache. It only works for a single
// server process.
type InMemoryRepo struct {
	cache *ttlcache.Cache[string, AuthFlowState]
}

// NewInMemoryRepo starts the cache's expiry loop. Call Close to stop it.
func NewInMemoryRepo(defaultTTL time.Duration) *InMemoryRepo {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, AuthFlowState](defaultTTL),
		ttlcache.WithDisableTouchOnHit[string, AuthFlowState](),
	)
	go cache.Start()

	return &InMemoryRepo{cache: cache}
}

func (r *InMemoryRepo) Upsert(_ context.Context, flowID string, authState *AuthFlowState) error {
	if flowID == "" {
		return errors.New("flowID cannot be empty")
	}
	if authState == nil {
		return errors.New("authState cannot be nil")
	}

	ttl := time.Until(authState.ExpiresAt)
	if ttl <= 0 {
		return apperrors.ErrStateExpired
	}
	r.cache.Set(flowID, *authState, ttl)
	return nil
}

func (r *InMemoryRepo) Consume(_ context.Context, flowID string) (*AuthFlowState, error) {
	if flowID == "" {
		return nil, apperrors.ErrStateNotFound
	}

	item, ok := r.cache.GetAndDelete(flowID)
	if !ok || item == nil {
		return nil, apperrors.ErrStateNotFound
	}
	authState := item.Value()
	if authState.Expired(time.Now()) {
		return nil, apperrors.ErrStateNotFound
	}
	return &authState, nil
}

func (r *InMemoryRepo) Delete(_ context.Context, flowID string) error {
	if flowID == "" {
		return errors.New("flowID cannot be empty")
	}
	r.cache.Delete(flowID)
	return nil
}

func (r *InMemoryRepo) Close() {
	r.cache.Stop()
}
