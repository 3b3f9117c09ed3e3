package repository

import (
	"github.com/google/wire"
)

// 統一管理所有 Redis repository
type RedisRepository struct {
	quotaRepo *QuotaRepository
}

// 建立 Redis repository 物件
func NewRedisRepository(
	quotaRepo *QuotaRepository,
) *RedisRepository {
	return &RedisRepository{
		quotaRepo: quotaRepo,
	}
}

// Wire 依賴提供
var ProviderSet = wire.NewSet(
	NewQuotaRepository,
	NewRedisRepository)
