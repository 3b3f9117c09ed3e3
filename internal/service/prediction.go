package service

import (
	"context"
	"os"
	"time"

	"vocalis/config"
	"vocalis/internal/core"
	fluentdModel "vocalis/internal/database/fluentd/model"
	fluentdRepo "vocalis/internal/database/fluentd/repository"
	"vocalis/internal/database/mongodb/model"
	mongoRepo "vocalis/internal/database/mongodb/repository"
	"vocalis/internal/dsp"
	"vocalis/internal/dto"
	"vocalis/internal/inference"
	cErr "vocalis/internal/pkg/error"
	"vocalis/internal/telemetry"
	"vocalis/utils/validate"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// 窄介面：測試可注入假件，正式環境由 wire 綁定具象型別
type featureExtractor interface {
	ExtractFile(path string) ([]float64, error)
}

type predictionStore interface {
	Insert(ctx context.Context, prediction *model.Prediction) (*model.Prediction, error)
	GetByID(ctx context.Context, id int64) (*model.Prediction, error)
	ApplyFeedback(ctx context.Context, id int64, feedback mongoRepo.FeedbackUpdate) error
	ListCorrected(ctx context.Context, opts core.ListOptions) ([]*model.Prediction, error)
}

type quotaGate interface {
	Consume(ctx context.Context, identity *core.Identity, day string) (int, error)
}

type modelBundleSource interface {
	Bundle() (*inference.Bundle, error)
}

type PredictionService struct {
	trace   *telemetry.Trace
	logger  *zap.Logger
	metric  *telemetry.Metric
	conf    *config.Configuration
	quota   quotaGate
	store   predictionStore
	models  modelBundleSource
	extract featureExtractor
	fluentd *fluentdRepo.LogRepository

	// 推論入口抽成欄位，單元測試可替換
	classifyGender func(*inference.Bundle, []float64) (*inference.GenderResult, error)
	classifyAge    func(*inference.Bundle, []float64, core.GenderLabel) (*inference.AgeResult, error)
}

func NewPredictionService(
	trace *telemetry.Trace,
	logger *zap.Logger,
	metric *telemetry.Metric,
	conf *config.Configuration,
	quotaService *QuotaService,
	predictionRepo *mongoRepo.PredictionRepository,
	registry *inference.Registry,
	extractor *dsp.Extractor,
	fluentd *fluentdRepo.LogRepository,
) *PredictionService {
	return &PredictionService{
		trace:          trace,
		logger:         logger,
		metric:         metric,
		conf:           conf,
		quota:          quotaService,
		store:          predictionRepo,
		models:         registry,
		extract:        extractor,
		fluentd:        fluentd,
		classifyGender: inference.ClassifyGender,
		classifyAge:    inference.ClassifyAge,
	}
}

// Predict 推論主流程。配額先於任何檔案檢查（含缺檔），與計費語意一致：
// 一次呼叫就是一次扣抵。filePath 為空代表呼叫端沒收到檔案。
// 暫存檔離開此函式前一律刪除。
func (s *PredictionService) Predict(
	ctx context.Context,
	identity *core.Identity,
	requestID string,
	fileName string,
	filePath string,
) (_ *dto.PredictResponseDto, err error) {

	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(err) }()

	if filePath != "" {
		defer os.Remove(filePath)
	}

	startedAt := time.Now()
	day := core.DayKey(startedAt)

	remaining, quotaErr := s.quota.Consume(ctx, identity, day)
	if quotaErr != nil {
		err = quotaErr
		return nil, err
	}

	if filePath == "" {
		err = cErr.MissingAudioFile("no audio file in request")
		return nil, err
	}
	if !validate.IsAllowedAudioFile(fileName, s.conf.Models.AllowedExtensions) {
		err = cErr.UnsupportedAudioFormat("unsupported audio format: " + fileName)
		return nil, err
	}

	bundle, bundleErr := s.models.Bundle()
	if bundleErr != nil {
		s.logger.Error("model bundle unavailable", zap.Error(bundleErr))
		err = cErr.ServiceUnavailable("models not loaded")
		return nil, err
	}

	// 特徵抽取
	extractStart := time.Now()
	features, extractErr := s.extract.ExtractFile(filePath)
	if extractErr != nil {
		s.failStage("extract", "decode_or_extract", extractErr)
		err = cErr.ExtractionFailed("feature extraction failed: " + extractErr.Error())
		return nil, err
	}
	s.observeStage("extract", extractStart)

	// 性別：雙模型取信心值較高者
	genderStart := time.Now()
	genderResult, genderErr := s.classifyGender(bundle, features)
	if genderErr != nil {
		s.failStage("gender", "ensemble", genderErr)
		err = cErr.ClassificationFailed("gender classification failed")
		return nil, err
	}
	s.observeStage("gender", genderStart)

	// 年齡：兩段級聯，child 在第一段短路
	ageStart := time.Now()
	ageResult, ageErr := s.classifyAge(bundle, features, genderResult.Label)
	if ageErr != nil {
		s.failStage("age", "cascade", ageErr)
		err = cErr.ClassificationFailed("age classification failed")
		return nil, err
	}
	s.observeStage("age", ageStart)

	prediction := &model.Prediction{
		UserID:           identity.UserID,
		FileName:         fileName,
		Gender:           genderResult.Label,
		GenderConfidence: genderResult.Confidence,
		GenderModel:      genderResult.Model,
		AgeGroup:         ageResult.Bracket,
		AgeConfidence:    ageResult.Confidence,
		AgeStage:         ageResult.Stage,
		Features:         features,
	}
	stored, insertErr := s.store.Insert(ctx, prediction)
	if insertErr != nil {
		s.failStage("store", "insert", insertErr)
		err = cErr.DatabaseError("database Predict error")
		return nil, err
	}

	if s.metric.PredictionsTotal != nil {
		s.metric.PredictionsTotal.WithLabelValues(string(genderResult.Label), string(ageResult.Bracket)).Inc()
	}

	durationMs := float64(time.Since(startedAt).Milliseconds())
	s.trace.ApplyTraceAttributes(span, core.TracePipelineMeta{
		UserID:       identity.UserID.Hex(),
		FileName:     fileName,
		FeatureCount: len(features),
		Gender:       string(genderResult.Label),
		GenderConf:   genderResult.Confidence,
		GenderModel:  genderResult.Model,
		Bracket:      string(ageResult.Bracket),
		AgeConf:      ageResult.Confidence,
		AgeStage:     ageResult.Stage,
		DurationMs:   durationMs,
		Status:       "ok",
	})

	// 稽核 log best-effort
	if s.fluentd != nil {
		if logErr := s.fluentd.LogPrediction(ctx, fluentdModel.PredictionLog{
			RequestID:        requestID,
			UserID:           identity.UserID.Hex(),
			Plan:             string(identity.Plan),
			PredictionID:     stored.ID,
			FileName:         fileName,
			Gender:           string(genderResult.Label),
			GenderConfidence: genderResult.Confidence,
			GenderModel:      genderResult.Model,
			AgeGroup:         string(ageResult.Bracket),
			AgeConfidence:    ageResult.Confidence,
			AgeStage:         ageResult.Stage,
			QuotaRemaining:   remaining,
			DurationMs:       durationMs,
			Status:           "success",
		}); logErr != nil {
			s.logger.Warn("fluentd prediction log failed", zap.Error(logErr))
		}
	}

	return &dto.PredictResponseDto{
		ID:               stored.ID,
		Gender:           genderResult.Label,
		GenderConfidence: genderResult.Confidence,
		GenderModel:      genderResult.Model,
		AgeGroup:         ageResult.Bracket,
		AgeConfidence:    ageResult.Confidence,
		AgeStage:         ageResult.Stage,
	}, nil
}

// GetPrediction 讀取單筆預測紀錄；非管理員只能讀自己的，
// 不存在與無權限同樣回 404，不洩漏紀錄存在與否。
func (s *PredictionService) GetPrediction(ctx context.Context, identity *core.Identity, id int64) (*dto.PredictionRecordDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	prediction, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, cErr.PredictionNotFound("prediction not found")
		}
		return nil, cErr.DatabaseError("database GetPrediction error")
	}
	if identity.Role != core.RoleAdmin && prediction.UserID != identity.UserID {
		return nil, cErr.PredictionNotFound("prediction not found")
	}
	return predictionToRecordDto(prediction), nil
}

// Feedback 套用使用者回饋。可重複提交，後寫覆蓋先寫。
func (s *PredictionService) Feedback(ctx context.Context, identity *core.Identity, in *dto.FeedbackDto) (err error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(err) }()

	if *in.IsCorrect != int(core.CorrectnessCorrect) && *in.IsCorrect != int(core.CorrectnessIncorrect) {
		err = cErr.BadRequestParams("is_correct must be 0 or 1")
		return err
	}
	if in.CorrectedGender != nil && !validate.IsValidGender(string(*in.CorrectedGender)) {
		err = cErr.BadRequestParams("invalid corrected_gender")
		return err
	}
	if in.CorrectedAge != nil && !validate.IsValidAgeBracket(string(*in.CorrectedAge)) {
		err = cErr.BadRequestParams("invalid corrected_age_group")
		return err
	}

	// 所有權檢查走同一條讀取路徑
	if _, getErr := s.GetPrediction(ctx, identity, in.ID); getErr != nil {
		err = getErr
		return err
	}

	update := mongoRepo.FeedbackUpdate{
		IsCorrect:       core.Correctness(*in.IsCorrect),
		CorrectedGender: in.CorrectedGender,
		CorrectedAge:    in.CorrectedAge,
		Comment:         in.Comment,
	}
	if applyErr := s.store.ApplyFeedback(ctx, in.ID, update); applyErr != nil {
		if applyErr == mongo.ErrNoDocuments {
			err = cErr.PredictionNotFound("prediction not found")
			return err
		}
		err = cErr.DatabaseError("database Feedback error")
		return err
	}

	if s.metric.FeedbackTotal != nil {
		status := "incorrect"
		if *in.IsCorrect == int(core.CorrectnessCorrect) {
			status = "correct"
		}
		s.metric.FeedbackTotal.WithLabelValues(status).Inc()
	}
	return nil
}

// ListFeedback 管理端：已標記回饋的紀錄，最新在前
func (s *PredictionService) ListFeedback(ctx context.Context, page, size int64) ([]*dto.PredictionRecordDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	predictions, err := s.store.ListCorrected(ctx, core.ListOptions{Page: page, Size: size})
	if err != nil {
		return nil, cErr.DatabaseError("database ListFeedback error")
	}
	records := make([]*dto.PredictionRecordDto, len(predictions))
	for i, p := range predictions {
		records[i] = predictionToRecordDto(p)
	}
	return records, nil
}

func (s *PredictionService) observeStage(stage string, start time.Time) {
	if s.metric.StageDuration != nil {
		s.metric.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

func (s *PredictionService) failStage(stage, reason string, cause error) {
	s.logger.Warn("prediction stage failed", zap.String("stage", stage), zap.Error(cause))
	if s.metric.PredictionFailTotal != nil {
		s.metric.PredictionFailTotal.WithLabelValues(stage, reason).Inc()
	}
}

func predictionToRecordDto(p *model.Prediction) *dto.PredictionRecordDto {
	return &dto.PredictionRecordDto{
		ID:               p.ID,
		FileName:         p.FileName,
		Gender:           p.Gender,
		GenderConfidence: p.GenderConfidence,
		GenderModel:      p.GenderModel,
		AgeGroup:         p.AgeGroup,
		AgeConfidence:    p.AgeConfidence,
		AgeStage:         p.AgeStage,
		IsCorrect:        p.IsCorrect,
		CorrectedGender:  p.CorrectedGender,
		CorrectedAge:     p.CorrectedAge,
		Comment:          p.Comment,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
