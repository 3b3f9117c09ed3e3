package service

import (
	"context"

	"vocalis/config"
	"vocalis/internal/core"
	"vocalis/internal/database/mongodb/model"
	mongoRepo "vocalis/internal/database/mongodb/repository"
	redisRepo "vocalis/internal/database/redis/repository"
	"vocalis/internal/dto"
	cErr "vocalis/internal/pkg/error"
	"vocalis/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// QuotaUnlimited 無限制方案的 remaining 回傳值
const QuotaUnlimited = -1

// 窄介面：測試可注入假件
type quotaStore interface {
	Consume(ctx context.Context, userID, day string, limit int) (int, error)
	GetCurrent(ctx context.Context, userID, day string, limit int) (int, error)
}

type usageMirror interface {
	Increment(ctx context.Context, userID primitive.ObjectID, day string) error
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*model.Usage, error)
}

type QuotaService struct {
	trace     *telemetry.Trace
	logger    *zap.Logger
	metric    *telemetry.Metric
	conf      *config.Configuration
	quotaRepo quotaStore
	usageRepo usageMirror
}

func NewQuotaService(
	trace *telemetry.Trace,
	logger *zap.Logger,
	metric *telemetry.Metric,
	conf *config.Configuration,
	quotaRepo *redisRepo.QuotaRepository,
	usageRepo *mongoRepo.UsageRepository,
) *QuotaService {
	return &QuotaService{
		trace:     trace,
		logger:    logger,
		metric:    metric,
		conf:      conf,
		quotaRepo: quotaRepo,
		usageRepo: usageRepo,
	}
}

// Consume 消耗呼叫者當日一次配額。
// 不受限方案直接放行（remaining = QuotaUnlimited），不碰 Redis 計數。
// 超限回傳 429；放行後 best-effort 同步 Mongo 使用量鏡像（報表用）。
func (s *QuotaService) Consume(ctx context.Context, identity *core.Identity, day string) (remaining int, err error) {
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanQuotaCheck))
	defer func() { end(err) }()

	if !identity.Plan.Limited() {
		s.trace.ApplyTraceAttributes(span, core.TraceQuotaMeta{
			UserID:  identity.UserID.Hex(),
			Plan:    string(identity.Plan),
			Day:     day,
			Allowed: true,
			Op:      "consume",
		})
		s.mirrorUsage(ctx, identity, day)
		return QuotaUnlimited, nil
	}

	limit := s.conf.Quota.Limit()
	remaining, consumeErr := s.quotaRepo.Consume(ctx, identity.UserID.Hex(), day, limit)
	if consumeErr == redisRepo.ErrQuotaExceeded {
		if s.metric.QuotaRejectedTotal != nil {
			s.metric.QuotaRejectedTotal.WithLabelValues("daily_limit").Inc()
		}
		err = cErr.QuotaExceeded("daily quota exceeded for plan " + string(identity.Plan))
		return 0, err
	}
	if consumeErr != nil {
		// Redis 不可用時不放行：配額是計費邊界
		err = cErr.ServiceUnavailable("quota store unavailable")
		return 0, err
	}

	s.mirrorUsage(ctx, identity, day)
	return remaining, nil
}

// Remaining 查詢當日剩餘配額，不扣次數
func (s *QuotaService) Remaining(ctx context.Context, identity *core.Identity, day string) (int, error) {
	if !identity.Plan.Limited() {
		return QuotaUnlimited, nil
	}
	remaining, err := s.quotaRepo.GetCurrent(ctx, identity.UserID.Hex(), day, s.conf.Quota.Limit())
	if err != nil {
		return 0, cErr.ServiceUnavailable("quota store unavailable")
	}
	return remaining, nil
}

// mirrorUsage 使用量鏡像失敗只記 log，不影響請求
func (s *QuotaService) mirrorUsage(ctx context.Context, identity *core.Identity, day string) {
	if s.usageRepo == nil {
		return
	}
	if err := s.usageRepo.Increment(ctx, identity.UserID, day); err != nil {
		s.logger.Warn("usage mirror increment failed",
			zap.String("userID", identity.UserID.Hex()),
			zap.String("day", day),
			zap.Error(err),
		)
	}
}

// ListUsage 管理端：列出使用者的每日計數，最新的日子在前
func (s *QuotaService) ListUsage(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*dto.UsageResponseDto, error) {
	usages, err := s.usageRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, cErr.DatabaseError("database ListUsage error")
	}
	items := make([]*dto.UsageResponseDto, len(usages))
	for i, u := range usages {
		items[i] = &dto.UsageResponseDto{Day: u.Day, Count: u.Count}
	}
	return items, nil
}
