package loginsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

var _ Repo = (*RedisLoginSessionRepo)(nil)

// RedisLoginSessionRepo stores sessions as JSON values with a TTL matching ExpiresAt.
type RedisLoginSessionRepo struct {
	client redis.UniversalClient
}

func NewRedisLoginSessionRepo(client redis.UniversalClient) *RedisLoginSessionRepo {
	return &RedisLoginSessionRepo{client: client}
}

func (r *RedisLoginSessionRepo) Upsert(ctx context.Context, session Session) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is required")
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return apperrors.ErrSessionExpired
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("[RedisLoginSessionRepo Upsert] marshal: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("[RedisLoginSessionRepo Upsert] set: %w", err)
	}
	return nil
}

func (r *RedisLoginSessionRepo) Get(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}

	data, err := r.client.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("[RedisLoginSessionRepo Get] get: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("[RedisLoginSessionRepo Get] unmarshal: %w", err)
	}
	if session.Expired(time.Now()) {
		return Session{}, apperrors.ErrSessionNotFound
	}
	return session, nil
}

func (r *RedisLoginSessionRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}
	if err := r.client.Del(ctx, redisKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("[RedisLoginSessionRepo Delete] del: %w", err)
	}
	return nil
}
