package authflowrepo_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lexora/lexora-server/internal/config"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/lexora/lexora-server/server/authflowrepo"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newState(ttl time.Duration) *authflowrepo.AuthFlowState {
	now := time.Now()
	return &authflowrepo.AuthFlowState{
		State:     "abc123:lawyer",
		Role:      "lawyer",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func repos(t *testing.T) map[string]authflowrepo.Repo {
	memory := authflowrepo.NewInMemoryRepo(time.Minute)
	t.Cleanup(memory.Close)
	result := map[string]authflowrepo.Repo{"memory": memory}

	if addr := config.GetEnv("REDIS_TEST_ADDR", ""); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		t.Cleanup(func() { _ = client.Close() })
		result["redis"] = authflowrepo.NewRedisRepo(client)
	}
	return result
}

func TestRepo_ConsumeIsSingleUse(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			flowID := uuid.NewString()
			require.NoError(t, repo.Upsert(ctx, flowID, newState(time.Minute)))

			got, err := repo.Consume(ctx, flowID)
			require.NoError(t, err)
			require.Equal(t, "abc123:lawyer", got.State)
			require.Equal(t, "lawyer", got.Role)

			_, err = repo.Consume(ctx, flowID)
			require.ErrorIs(t, err, apperrors.ErrStateNotFound)
		})
	}
}

func TestRepo_ConcurrentConsumeOnlyOneWins(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			flowID := uuid.NewString()
			require.NoError(t, repo.Upsert(ctx, flowID, newState(time.Minute)))

			var wins atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := repo.Consume(ctx, flowID); err == nil {
						wins.Add(1)
					}
				}()
			}
			wg.Wait()
			require.Equal(t, int32(1), wins.Load())
		})
	}
}

func TestRepo_ExpiredStateIsNotReturned(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			flowID := uuid.NewString()
			require.NoError(t, repo.Upsert(ctx, flowID, newState(50*time.Millisecond)))

			time.Sleep(100 * time.Millisecond)
			_, err := repo.Consume(ctx, flowID)
			require.ErrorIs(t, err, apperrors.ErrStateNotFound)
		})
	}
}

func TestRepo_UpsertRejectsBadInput(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.Error(t, repo.Upsert(ctx, "", newState(time.Minute)))
			require.Error(t, repo.Upsert(ctx, "flow", nil))
			require.ErrorIs(t, repo.Upsert(ctx, "flow", newState(-time.Second)), apperrors.ErrStateExpired)
		})
	}
}

func TestRepo_DeleteDiscardsFlow(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			flowID := uuid.NewString()
			require.NoError(t, repo.Upsert(ctx, flowID, newState(time.Minute)))
			require.NoError(t, repo.Delete(ctx, flowID))

			_, err := repo.Consume(ctx, flowID)
			require.ErrorIs(t, err, apperrors.ErrStateNotFound)
		})
	}
}
