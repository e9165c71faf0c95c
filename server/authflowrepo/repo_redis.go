package authflowrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "oauth_flow:"

var _ Repo = (*RedisRepo)(nil)

// RedisRepo shares flow states between server replicas. Consume uses GETDEL
// so two replicas cannot both accept the same callback.
type RedisRepo struct {
	client redis.UniversalClient
}

func NewRedisRepo(client redis.UniversalClient) *RedisRepo {
	return &RedisRepo{client: client}
}

func (r *RedisRepo) Upsert(ctx context.Context, flowID string, authState *AuthFlowState) error {
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
	data, err := json.Marshal(authState)
	if err != nil {
		return fmt.Errorf("[RedisRepo Upsert] marshal: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+flowID, data, ttl).Err(); err != nil {
		return fmt.Errorf("[RedisRepo Upsert] set: %w", err)
	}
	return nil
}

func (r *RedisRepo) Consume(ctx context.Context, flowID string) (*AuthFlowState, error) {
	if flowID == "" {
		return nil, apperrors.ErrStateNotFound
	}

	data, err := r.client.GetDel(ctx, redisKeyPrefix+flowID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[RedisRepo Consume] getdel: %w", err)
	}

	var authState AuthFlowState
	if err := json.Unmarshal(data, &authState); err != nil {
		return nil, fmt.Errorf("[RedisRepo Consume] unmarshal: %w", err)
	}
	if authState.Expired(time.Now()) {
		return nil, apperrors.ErrStateNotFound
	}
	return &authState, nil
}

func (r *RedisRepo) Delete(ctx context.Context, flowID string) error {
	if flowID == "" {
		return errors.New("flowID cannot be empty")
	}
	if err := r.client.Del(ctx, redisKeyPrefix+flowID).Err(); err != nil {
		return fmt.Errorf("[RedisRepo Delete] del: %w", err)
	}
	return nil
}
