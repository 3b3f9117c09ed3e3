package repository

import (
	"context"
	"errors"
	"fmt"

	"vocalis/internal/core"
	client "vocalis/internal/database/client"
	"vocalis/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

type QuotaRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
}

func NewQuotaRepository(trace *telemetry.Trace, client *client.RedisClient) *QuotaRepository {
	return &QuotaRepository{trace: trace, client: client.Client()}
}

var ErrQuotaExceeded = errors.New("daily quota exceeded")

// Consume 消耗當日一次配額。key 以日曆日為尾碼，跨日自然換新 key，
// 舊 key 不設 TTL、保留做為歷史計數。SETNX / DECR 皆為單一 Redis 指令，
// 檢查與扣抵不會與併發請求交錯。
// 回傳：remaining（當日剩餘次數）、err（超限為 ErrQuotaExceeded）
func (repository *QuotaRepository) Consume(
	contextValue context.Context,
	userID string,
	day string,
	limitCount int,
) (remainingCount int, returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		endSpan(returnedError)
	}()

	traceMetadata := core.TraceQuotaMeta{
		UserID: userID,
		Day:    day,
		Limit:  limitCount,
		Op:     "consume",
	}
	repository.trace.ApplyTraceAttributes(span, traceMetadata)

	redisKey := repository.buildKey(userID, day)

	// 嘗試初始化：SETNX key (limit-1)，無 TTL
	wasSet, setError := repository.client.SetNX(
		contextValue,
		redisKey,
		limitCount-1, // 本次消耗一次，所以初始值 = 總額-1
		0,
	).Result()
	if setError != nil {
		returnedError = setError
		return 0, returnedError
	}
	if wasSet {
		remainingCount = limitCount - 1
		if remainingCount < 0 {
			remainingCount = 0
			returnedError = ErrQuotaExceeded
		}
		traceMetadata.Remaining, traceMetadata.Allowed = remainingCount, returnedError == nil
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
		return remainingCount, returnedError
	}

	// Key 已存在 → 執行 DECR 扣一次
	newValue, decrError := repository.client.Decr(contextValue, redisKey).Result()
	if decrError != nil {
		returnedError = decrError
		return 0, returnedError
	}

	if newValue < 0 {
		remainingCount = 0
		traceMetadata.Remaining, traceMetadata.Allowed = 0, false
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
		returnedError = ErrQuotaExceeded
		return remainingCount, returnedError
	}

	remainingCount = int(newValue)
	traceMetadata.Remaining, traceMetadata.Allowed = remainingCount, true
	repository.trace.ApplyTraceAttributes(span, traceMetadata)
	return remainingCount, nil
}

// GetCurrent 查詢指定日的剩餘次數。key 不存在代表當日尚未使用。
func (repository *QuotaRepository) GetCurrent(
	contextValue context.Context,
	userID string,
	day string,
	limitCount int,
) (remainingCount int, returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	traceMetadata := core.TraceQuotaMeta{
		UserID: userID,
		Day:    day,
		Limit:  limitCount,
		Op:     "get",
	}
	repository.trace.ApplyTraceAttributes(span, traceMetadata)

	redisKey := repository.buildKey(userID, day)

	value, getError := repository.client.Get(contextValue, redisKey).Int()
	if getError == redis.Nil {
		remainingCount = limitCount
		traceMetadata.Remaining, traceMetadata.Allowed = remainingCount, true
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
		return remainingCount, nil
	}
	if getError != nil {
		returnedError = getError
		return 0, returnedError
	}

	remainingCount = value // value 就是剩餘（倒數語意）
	if remainingCount < 0 {
		remainingCount = 0
	}

	traceMetadata.Remaining, traceMetadata.Allowed = remainingCount, remainingCount > 0
	repository.trace.ApplyTraceAttributes(span, traceMetadata)
	return remainingCount, nil
}

// Reset 強制重設指定日的剩餘次數（管理用）。
func (repository *QuotaRepository) Reset(
	contextValue context.Context,
	userID string,
	day string,
	limitCount int,
) (returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	if limitCount < 0 {
		limitCount = 0
	}

	traceMetadata := core.TraceQuotaMeta{
		UserID:    userID,
		Day:       day,
		Limit:     limitCount,
		Remaining: limitCount,
		Op:        "reset",
	}
	repository.trace.ApplyTraceAttributes(span, traceMetadata)

	redisKey := repository.buildKey(userID, day)
	returnedError = repository.client.Set(contextValue, redisKey, limitCount, 0).Err()
	return returnedError
}

// buildKey 建構配額計數的 Redis key，例如 vocalis:quota:<userID>:2026-08-28
func (r *QuotaRepository) buildKey(userID string, day string) string {
	return fmt.Sprintf("%s:%s:%s:%s", core.RedisKeyServerName, core.RedisKeyQuota, userID, day)
}
