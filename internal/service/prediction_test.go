package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"vocalis/config"
	"vocalis/internal/core"
	"vocalis/internal/database/mongodb/model"
	mongoRepo "vocalis/internal/database/mongodb/repository"
	"vocalis/internal/dto"
	"vocalis/internal/inference"
	cErr "vocalis/internal/pkg/error"
	"vocalis/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeQuota struct {
	remaining int
	err       error
	calls     int
}

func (f *fakeQuota) Consume(ctx context.Context, identity *core.Identity, day string) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.remaining, nil
}

type fakeExtractor struct {
	features []float64
	err      error
	calls    int
}

func (f *fakeExtractor) ExtractFile(path string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.features, nil
}

type fakeStore struct {
	nextID    int64
	insertErr error
	inserted  *model.Prediction
	records   map[int64]*model.Prediction
	feedback  map[int64]mongoRepo.FeedbackUpdate
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:   1,
		records:  map[int64]*model.Prediction{},
		feedback: map[int64]mongoRepo.FeedbackUpdate{},
	}
}

func (f *fakeStore) Insert(ctx context.Context, p *model.Prediction) (*model.Prediction, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	p.ID = f.nextID
	p.IsCorrect = core.CorrectnessUnknown
	f.nextID++
	f.inserted = p
	f.records[p.ID] = p
	return p, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*model.Prediction, error) {
	p, ok := f.records[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return p, nil
}

func (f *fakeStore) ApplyFeedback(ctx context.Context, id int64, update mongoRepo.FeedbackUpdate) error {
	if _, ok := f.records[id]; !ok {
		return mongo.ErrNoDocuments
	}
	f.feedback[id] = update
	return nil
}

func (f *fakeStore) ListCorrected(ctx context.Context, opts core.ListOptions) ([]*model.Prediction, error) {
	var out []*model.Prediction
	for id := range f.feedback {
		out = append(out, f.records[id])
	}
	return out, nil
}

type fakeBundleSource struct {
	bundle *inference.Bundle
	err    error
}

func (f *fakeBundleSource) Bundle() (*inference.Bundle, error) {
	return f.bundle, f.err
}

func testIdentity() *core.Identity {
	return &core.Identity{UserID: primitive.NewObjectID(), Plan: core.PlanFree, Role: core.RoleUser}
}

func newTestService(quota *fakeQuota, store *fakeStore, extractor *fakeExtractor) *PredictionService {
	return &PredictionService{
		trace:  &telemetry.Trace{},
		logger: zap.NewNop(),
		metric: &telemetry.Metric{},
		conf: &config.Configuration{
			Models: config.Models{AllowedExtensions: []string{".wav"}},
		},
		quota:   quota,
		store:   store,
		models:  &fakeBundleSource{bundle: &inference.Bundle{}},
		extract: extractor,
		classifyGender: func(*inference.Bundle, []float64) (*inference.GenderResult, error) {
			return &inference.GenderResult{Label: core.GenderFemale, Confidence: 93.5, Model: "svm"}, nil
		},
		classifyAge: func(*inference.Bundle, []float64, core.GenderLabel) (*inference.AgeResult, error) {
			return &inference.AgeResult{Bracket: core.BracketTwenties, Confidence: 71.2, Stage: 2}, nil
		},
	}
}

func tempAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))
	return path
}

func TestPredictHappyPath(t *testing.T) {
	quota := &fakeQuota{remaining: 4}
	store := newFakeStore()
	extractor := &fakeExtractor{features: make([]float64, 78)}
	svc := newTestService(quota, store, extractor)

	path := tempAudioFile(t)
	result, err := svc.Predict(context.Background(), testIdentity(), "req-1", "clip.wav", path)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.ID)
	assert.Equal(t, core.GenderFemale, result.Gender)
	assert.Equal(t, core.BracketTwenties, result.AgeGroup)
	assert.Equal(t, 2, result.AgeStage)

	// 紀錄落庫：特徵向量保留、回饋狀態從未知開始
	require.NotNil(t, store.inserted)
	assert.Len(t, store.inserted.Features, 78)
	assert.Equal(t, core.CorrectnessUnknown, store.inserted.IsCorrect)

	// 暫存檔刪除
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPredictQuotaCheckedBeforeFileValidation(t *testing.T) {
	quota := &fakeQuota{err: cErr.QuotaExceeded("daily quota exceeded")}
	store := newFakeStore()
	extractor := &fakeExtractor{features: make([]float64, 78)}
	svc := newTestService(quota, store, extractor)

	// 連檔案都沒附也要先吃配額錯誤
	_, err := svc.Predict(context.Background(), testIdentity(), "req-1", "", "")
	require.Error(t, err)
	appErr, ok := err.(*cErr.Error)
	require.True(t, ok)
	assert.Equal(t, 429, appErr.HttpCode())
	assert.Equal(t, 1, quota.calls)
	assert.Equal(t, 0, extractor.calls)
}

func TestPredictMissingFileAfterQuota(t *testing.T) {
	quota := &fakeQuota{remaining: 4}
	svc := newTestService(quota, newFakeStore(), &fakeExtractor{})

	_, err := svc.Predict(context.Background(), testIdentity(), "req-1", "", "")
	require.Error(t, err)
	appErr, ok := err.(*cErr.Error)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HttpCode())
	// 配額已被消耗（與計費語意一致）
	assert.Equal(t, 1, quota.calls)
}

func TestPredictRejectsUnsupportedExtension(t *testing.T) {
	quota := &fakeQuota{remaining: 4}
	extractor := &fakeExtractor{features: make([]float64, 78)}
	svc := newTestService(quota, newFakeStore(), extractor)

	path := tempAudioFile(t)
	_, err := svc.Predict(context.Background(), testIdentity(), "req-1", "clip.mp3", path)
	require.Error(t, err)
	appErr, ok := err.(*cErr.Error)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HttpCode())
	assert.Equal(t, 0, extractor.calls)

	// 不支援格式也要刪暫存檔
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPredictExtractionFailureIs422(t *testing.T) {
	quota := &fakeQuota{remaining: 4}
	extractor := &fakeExtractor{err: assert.AnError}
	svc := newTestService(quota, newFakeStore(), extractor)

	_, err := svc.Predict(context.Background(), testIdentity(), "req-1", "clip.wav", tempAudioFile(t))
	require.Error(t, err)
	appErr, ok := err.(*cErr.Error)
	require.True(t, ok)
	assert.Equal(t, 422, appErr.HttpCode())
}

func TestPredictInsertFailureFailsRequest(t *testing.T) {
	quota := &fakeQuota{remaining: 4}
	store := newFakeStore()
	store.insertErr = assert.AnError
	svc := newTestService(quota, store, &fakeExtractor{features: make([]float64, 78)})

	_, err := svc.Predict(context.Background(), testIdentity(), "req-1", "clip.wav", tempAudioFile(t))
	require.Error(t, err)
	appErr, ok := err.(*cErr.Error)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.HttpCode())
}

func TestGetPredictionOwnership(t *testing.T) {
	store := newFakeStore()
	owner := testIdentity()
	stranger := testIdentity()

	store.records[7] = &model.Prediction{ID: 7, UserID: owner.UserID, Gender: core.GenderMale}

	svc := newTestService(&fakeQuota{}, store, &fakeExtractor{})

	record, err := svc.GetPrediction(context.Background(), owner, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), record.ID)

	// 別人的紀錄與不存在的紀錄同樣回 404
	_, err = svc.GetPrediction(context.Background(), stranger, 7)
	require.Error(t, err)
	appErr, ok := err.(*cErr.Error)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HttpCode())

	_, err = svc.GetPrediction(context.Background(), owner, 99)
	require.Error(t, err)
}

func TestGetPredictionAdminSeesAll(t *testing.T) {
	store := newFakeStore()
	owner := testIdentity()
	admin := &core.Identity{UserID: primitive.NewObjectID(), Plan: core.PlanEnterprise, Role: core.RoleAdmin}
	store.records[3] = &model.Prediction{ID: 3, UserID: owner.UserID}

	svc := newTestService(&fakeQuota{}, store, &fakeExtractor{})
	_, err := svc.GetPrediction(context.Background(), admin, 3)
	assert.NoError(t, err)
}

func intPtr(v int) *int { return &v }

func TestFeedbackAppliesUpdate(t *testing.T) {
	store := newFakeStore()
	owner := testIdentity()
	store.records[5] = &model.Prediction{ID: 5, UserID: owner.UserID}

	svc := newTestService(&fakeQuota{}, store, &fakeExtractor{})

	corrected := core.GenderMale
	bracket := core.BracketThirties
	err := svc.Feedback(context.Background(), owner, &dto.FeedbackDto{
		ID:              5,
		IsCorrect:       intPtr(0),
		CorrectedGender: &corrected,
		CorrectedAge:    &bracket,
	})
	require.NoError(t, err)

	update, ok := store.feedback[5]
	require.True(t, ok)
	assert.Equal(t, core.CorrectnessIncorrect, update.IsCorrect)
	assert.Equal(t, core.GenderMale, *update.CorrectedGender)
	assert.Equal(t, core.BracketThirties, *update.CorrectedAge)
}

func TestFeedbackValidatesInput(t *testing.T) {
	store := newFakeStore()
	owner := testIdentity()
	store.records[5] = &model.Prediction{ID: 5, UserID: owner.UserID}
	svc := newTestService(&fakeQuota{}, store, &fakeExtractor{})

	// is_correct 只能是 0 或 1
	err := svc.Feedback(context.Background(), owner, &dto.FeedbackDto{ID: 5, IsCorrect: intPtr(2)})
	require.Error(t, err)

	bad := core.GenderLabel("robot")
	err = svc.Feedback(context.Background(), owner, &dto.FeedbackDto{ID: 5, IsCorrect: intPtr(1), CorrectedGender: &bad})
	require.Error(t, err)

	// 不存在的紀錄
	err = svc.Feedback(context.Background(), owner, &dto.FeedbackDto{ID: 404, IsCorrect: intPtr(1)})
	require.Error(t, err)
	appErr, ok := err.(*cErr.Error)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HttpCode())
}

func TestFeedbackIsRepeatable(t *testing.T) {
	store := newFakeStore()
	owner := testIdentity()
	store.records[5] = &model.Prediction{ID: 5, UserID: owner.UserID}
	svc := newTestService(&fakeQuota{}, store, &fakeExtractor{})

	require.NoError(t, svc.Feedback(context.Background(), owner, &dto.FeedbackDto{ID: 5, IsCorrect: intPtr(1)}))
	require.NoError(t, svc.Feedback(context.Background(), owner, &dto.FeedbackDto{ID: 5, IsCorrect: intPtr(0)}))

	// 後寫覆蓋先寫
	assert.Equal(t, core.CorrectnessIncorrect, store.feedback[5].IsCorrect)
}
