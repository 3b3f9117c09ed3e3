package database

import (
	client "vocalis/internal/database/client"
	fluentdRepo "vocalis/internal/database/fluentd/repository"
	mongoRepo "vocalis/internal/database/mongodb/repository"
	redisRepo "vocalis/internal/database/redis/repository"

	"github.com/google/wire"
)

// ProviderSet 定義所有 DB Client 的依賴
var ProviderSet = wire.NewSet(
	client.NewMongoClient,
	client.NewRedisClient,
	client.NewFluentdClient,
	mongoRepo.ProviderSet,
	redisRepo.ProviderSet,
	fluentdRepo.ProviderSet,
)
