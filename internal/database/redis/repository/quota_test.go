package repository

import (
	"context"
	"sync"
	"testing"

	"vocalis/internal/telemetry"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuotaRepository(t *testing.T) (*QuotaRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { redisClient.Close() })
	return &QuotaRepository{trace: &telemetry.Trace{}, client: redisClient}, server
}

func TestQuotaConsumeCountsDown(t *testing.T) {
	repo, _ := newTestQuotaRepository(t)
	ctx := context.Background()

	remaining, err := repo.Consume(ctx, "u1", "2026-08-28", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	remaining, err = repo.Consume(ctx, "u1", "2026-08-28", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	remaining, err = repo.Consume(ctx, "u1", "2026-08-28", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// 第四次超限
	remaining, err = repo.Consume(ctx, "u1", "2026-08-28", 3)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 0, remaining)
}

func TestQuotaDayRolloverUsesFreshKey(t *testing.T) {
	repo, _ := newTestQuotaRepository(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Consume(ctx, "u1", "2026-08-27", 5)
		require.NoError(t, err)
	}
	_, err := repo.Consume(ctx, "u1", "2026-08-27", 5)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	// 換日 → 新 key，從頭計數；舊 key 保留
	remaining, err := repo.Consume(ctx, "u1", "2026-08-28", 5)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)

	old, err := repo.GetCurrent(ctx, "u1", "2026-08-27", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, old)
}

func TestQuotaUsersAreIsolated(t *testing.T) {
	repo, _ := newTestQuotaRepository(t)
	ctx := context.Background()

	_, err := repo.Consume(ctx, "u1", "2026-08-28", 1)
	require.NoError(t, err)
	_, err = repo.Consume(ctx, "u1", "2026-08-28", 1)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	remaining, err := repo.Consume(ctx, "u2", "2026-08-28", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestQuotaGetCurrentWithoutUsage(t *testing.T) {
	repo, _ := newTestQuotaRepository(t)

	remaining, err := repo.GetCurrent(context.Background(), "fresh", "2026-08-28", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
}

func TestQuotaConcurrentConsumeNeverOversells(t *testing.T) {
	repo, _ := newTestQuotaRepository(t)
	ctx := context.Background()

	const limit = 10
	const workers = 40

	var wg sync.WaitGroup
	granted := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Consume(ctx, "hot", "2026-08-28", limit); err == nil {
				granted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(granted)

	assert.Equal(t, limit, len(granted))
}

func TestQuotaReset(t *testing.T) {
	repo, _ := newTestQuotaRepository(t)
	ctx := context.Background()

	_, err := repo.Consume(ctx, "u1", "2026-08-28", 2)
	require.NoError(t, err)

	require.NoError(t, repo.Reset(ctx, "u1", "2026-08-28", 2))

	remaining, err := repo.GetCurrent(ctx, "u1", "2026-08-28", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}
