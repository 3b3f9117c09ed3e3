package repository

import (
	"context"

	"vocalis/internal/core"
	client "vocalis/internal/database/client"
	"vocalis/internal/database/mongodb/model"
	"vocalis/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PredictionRepository struct {
	trace      *telemetry.Trace
	collection *mongo.Collection
	counters   *CounterRepository
}

func NewPredictionRepository(trace *telemetry.Trace, mongoClient *client.MongoClient, counters *CounterRepository) *PredictionRepository {
	repository := &PredictionRepository{
		trace:      trace,
		collection: mongoClient.Client().Database(string(core.MongoDBVocalis)).Collection(string(core.MongoCollectionPredictions)),
		counters:   counters,
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *PredictionRepository) ensureIndexes(contextValue context.Context) error {
	ctx := contextValue

	indexModels := []mongo.IndexModel{
		{ // 依使用者查歷史預測
			Keys:    bson.D{{Key: "userID", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_userID_createdAt"),
		},
		{ // 回饋檢視：只撈已標記的紀錄
			Keys:    bson.D{{Key: "isCorrect", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index().SetName("idx_isCorrect_updatedAt"),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(ctx, indexModels)
	return nil
}

// Insert：寫入一筆預測紀錄，_id 取自 counters 序列（單調遞增）。
// 只新增、不覆寫；回饋走 ApplyFeedback 的部分更新。
func (repository *PredictionRepository) Insert(
	contextValue context.Context,
	prediction *model.Prediction,
) (_ *model.Prediction, returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue, string(core.SpanPredictionStore))
	defer func() { endSpan(returnedError) }()

	nextID, nextError := repository.counters.Next(contextValue, SequencePredictions)
	if nextError != nil {
		returnedError = nextError
		return nil, returnedError
	}
	prediction.ID = nextID
	// 新紀錄一律從「未回饋」狀態開始
	prediction.IsCorrect = core.CorrectnessUnknown

	nowUTC := timeNowUTC()
	prediction.CreatedAt = nowUTC
	prediction.UpdatedAt = nowUTC

	repository.trace.ApplyTraceAttributes(span, core.TracePredictionStoreMeta{
		Op:           "insert",
		PredictionID: prediction.ID,
	})

	if _, returnedError = repository.collection.InsertOne(contextValue, prediction); returnedError != nil {
		return nil, returnedError
	}
	return prediction, nil
}

// GetByID：單筆讀取，不存在回傳 mongo.ErrNoDocuments
func (repository *PredictionRepository) GetByID(
	contextValue context.Context,
	predictionIdentifier int64,
) (_ *model.Prediction, returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TracePredictionStoreMeta{
		Op:           "get",
		PredictionID: predictionIdentifier,
	})

	var prediction model.Prediction
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": predictionIdentifier}).Decode(&prediction); returnedError != nil {
		return nil, returnedError
	}
	return &prediction, nil
}

// FeedbackUpdate 回饋要寫入的欄位；nil 欄位不更動
type FeedbackUpdate struct {
	IsCorrect       core.Correctness
	CorrectedGender *core.GenderLabel
	CorrectedAge    *core.AgeBracket
	Comment         *string
}

// ApplyFeedback：依 id 套用回饋。可重複呼叫，後寫的覆蓋先寫的；
// id 不存在回傳 mongo.ErrNoDocuments。
func (repository *PredictionRepository) ApplyFeedback(
	contextValue context.Context,
	predictionIdentifier int64,
	feedback FeedbackUpdate,
) (returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	setFields := bson.M{"isCorrect": feedback.IsCorrect}
	if feedback.CorrectedGender != nil {
		setFields["correctedGender"] = *feedback.CorrectedGender
	}
	if feedback.CorrectedAge != nil {
		setFields["correctedAgeGroup"] = *feedback.CorrectedAge
	}
	if feedback.Comment != nil {
		setFields["comment"] = *feedback.Comment
	}

	update := bson.M{"$set": setFields}
	result, updateError := repository.collection.UpdateOne(contextValue, bson.M{"_id": predictionIdentifier}, withUpdatedAt(update))
	if updateError != nil {
		returnedError = updateError
		return returnedError
	}

	repository.trace.ApplyTraceAttributes(span, core.TracePredictionStoreMeta{
		Op:           "feedback",
		PredictionID: predictionIdentifier,
		Matched:      result.MatchedCount,
		Modified:     result.ModifiedCount,
	})

	if result.MatchedCount == 0 {
		returnedError = mongo.ErrNoDocuments
		return returnedError
	}
	return nil
}

// ListCorrected：回饋檢視用，只撈已標記（isCorrect != -1）的紀錄，最新在前
func (repository *PredictionRepository) ListCorrected(
	contextValue context.Context,
	listOptions core.ListOptions,
) (_ []*model.Prediction, returnedError error) {

	filter := bson.M{"isCorrect": bson.M{"$ne": core.CorrectnessUnknown}}
	for key, value := range listOptions.Filter {
		filter[key] = value
	}

	findOptions := options.Find().
		SetSkip(int64(listOptions.Page) * int64(listOptions.Size)).
		SetLimit(int64(listOptions.Size)).
		SetSort(bson.M{"updatedAt": -1})

	cursor, findError := repository.collection.Find(contextValue, filter, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var predictions []*model.Prediction
	if returnedError = cursor.All(contextValue, &predictions); returnedError != nil {
		return nil, returnedError
	}
	return predictions, nil
}
