package loginsession_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lexora/lexora-server/internal/config"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/lexora/lexora-server/server/loginsession"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func repos(t *testing.T) map[string]loginsession.Repo {
	memory := loginsession.NewInMemoryLoginSessionRepo(time.Hour)
	t.Cleanup(memory.Close)
	result := map[string]loginsession.Repo{"memory": memory}

	if addr := config.GetEnv("REDIS_TEST_ADDR", ""); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		t.Cleanup(func() { _ = client.Close() })
		result["redis"] = loginsession.NewRedisLoginSessionRepo(client)
	}
	return result
}

func newSession(ttl time.Duration) loginsession.Session {
	now := time.Now()
	return loginsession.Session{
		ID:        uuid.NewString(),
		UserID:    "user-1",
		Role:      "lawyer",
		Email:     "lawyer@example.com",
		Name:      "Ada Lawyer",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestRepo_UpsertGetDelete(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			session := newSession(time.Minute)
			require.NoError(t, repo.Upsert(ctx, session))

			got, err := repo.Get(ctx, session.ID)
			require.NoError(t, err)
			require.Equal(t, session.UserID, got.UserID)
			require.Equal(t, session.Role, got.Role)
			require.Equal(t, session.Email, got.Email)

			require.NoError(t, repo.Delete(ctx, session.ID))
			_, err = repo.Get(ctx, session.ID)
			require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	}
}

func TestRepo_ExpiredSessionIsGone(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			session := newSession(50 * time.Millisecond)
			require.NoError(t, repo.Upsert(ctx, session))

			time.Sleep(100 * time.Millisecond)
			_, err := repo.Get(ctx, session.ID)
			require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	}
}

func TestRepo_RejectsInvalidSessions(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.Error(t, repo.Upsert(ctx, loginsession.Session{}))
			require.ErrorIs(t, repo.Upsert(ctx, newSession(-time.Second)), apperrors.ErrSessionExpired)

			_, err := repo.Get(ctx, "")
			require.Error(t, err)
		})
	}
}
