package service

import (
	"context"
	"errors"
	"testing"

	"vocalis/config"
	"vocalis/internal/core"
	"vocalis/internal/database/mongodb/model"
	redisRepo "vocalis/internal/database/redis/repository"
	cErr "vocalis/internal/pkg/error"
	"vocalis/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeQuotaStore 模擬 Redis 當日倒數計數
type fakeQuotaStore struct {
	counts map[string]int
	err    error
}

func (f *fakeQuotaStore) key(userID, day string) string { return userID + ":" + day }

func (f *fakeQuotaStore) Consume(_ context.Context, userID, day string, limit int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	k := f.key(userID, day)
	remaining, ok := f.counts[k]
	if !ok {
		remaining = limit
	}
	if remaining <= 0 {
		return 0, redisRepo.ErrQuotaExceeded
	}
	remaining--
	f.counts[k] = remaining
	return remaining, nil
}

func (f *fakeQuotaStore) GetCurrent(_ context.Context, userID, day string, limit int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if remaining, ok := f.counts[f.key(userID, day)]; ok {
		return remaining, nil
	}
	return limit, nil
}

type fakeUsageMirror struct {
	increments int
	err        error
}

func (f *fakeUsageMirror) Increment(context.Context, primitive.ObjectID, string) error {
	f.increments++
	return f.err
}

func (f *fakeUsageMirror) ListByUser(context.Context, primitive.ObjectID, int64) ([]*model.Usage, error) {
	return nil, nil
}

func newTestQuotaService(limit int) (*QuotaService, *fakeQuotaStore, *fakeUsageMirror) {
	store := &fakeQuotaStore{counts: map[string]int{}}
	mirror := &fakeUsageMirror{}
	svc := &QuotaService{
		trace:     &telemetry.Trace{},
		logger:    zap.NewNop(),
		metric:    &telemetry.Metric{},
		conf:      &config.Configuration{Quota: config.Quota{FreeDailyLimit: limit}},
		quotaRepo: store,
		usageRepo: mirror,
	}
	return svc, store, mirror
}

func freeIdentity() *core.Identity {
	return &core.Identity{UserID: primitive.NewObjectID(), Plan: core.PlanFree, Role: core.RoleUser}
}

func TestQuotaServiceFreePlanExhausts(t *testing.T) {
	svc, _, mirror := newTestQuotaService(2)
	identity := freeIdentity()
	day := "2026-08-28"

	remaining, err := svc.Consume(context.Background(), identity, day)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	remaining, err = svc.Consume(context.Background(), identity, day)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = svc.Consume(context.Background(), identity, day)
	require.Error(t, err)
	appErr, ok := err.(*cErr.Error)
	require.True(t, ok)
	assert.Equal(t, 429, appErr.HttpCode())

	// 超限的那次不進使用量鏡像
	assert.Equal(t, 2, mirror.increments)
}

func TestQuotaServiceUnlimitedPlansBypass(t *testing.T) {
	svc, store, mirror := newTestQuotaService(1)
	identity := &core.Identity{UserID: primitive.NewObjectID(), Plan: core.PlanPro, Role: core.RoleUser}

	for i := 0; i < 10; i++ {
		remaining, err := svc.Consume(context.Background(), identity, "2026-08-28")
		require.NoError(t, err)
		assert.Equal(t, QuotaUnlimited, remaining)
	}
	// 不受限方案不碰計數，但仍記使用量
	assert.Empty(t, store.counts)
	assert.Equal(t, 10, mirror.increments)
}

func TestQuotaServiceRemainingDoesNotConsume(t *testing.T) {
	svc, _, _ := newTestQuotaService(5)
	identity := freeIdentity()
	day := "2026-08-28"

	remaining, err := svc.Remaining(context.Background(), identity, day)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	_, err = svc.Consume(context.Background(), identity, day)
	require.NoError(t, err)

	remaining, err = svc.Remaining(context.Background(), identity, day)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
}

func TestQuotaServiceUnsetLimitFallsBackToDefault(t *testing.T) {
	// 漏設上限不能變成 0（否則 free 方案全被 429）
	svc, _, _ := newTestQuotaService(0)
	identity := freeIdentity()
	day := "2026-08-28"

	for i := 0; i < config.DefaultFreeDailyLimit; i++ {
		_, err := svc.Consume(context.Background(), identity, day)
		require.NoError(t, err)
	}

	_, err := svc.Consume(context.Background(), identity, day)
	require.Error(t, err)
	appErr, ok := err.(*cErr.Error)
	require.True(t, ok)
	assert.Equal(t, 429, appErr.HttpCode())
}

func TestQuotaServiceStoreOutageFailsClosed(t *testing.T) {
	svc, store, _ := newTestQuotaService(5)
	store.err = errors.New("connection refused")

	_, err := svc.Consume(context.Background(), freeIdentity(), "2026-08-28")
	require.Error(t, err)
	appErr, ok := err.(*cErr.Error)
	require.True(t, ok)
	assert.Equal(t, 503, appErr.HttpCode())
}

func TestQuotaServiceMirrorFailureDoesNotBlock(t *testing.T) {
	svc, _, mirror := newTestQuotaService(5)
	mirror.err = errors.New("mongo down")

	remaining, err := svc.Consume(context.Background(), freeIdentity(), "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
}
