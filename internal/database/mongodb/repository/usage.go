package repository

import (
	"context"
	"time"

	"vocalis/internal/core"
	client "vocalis/internal/database/client"
	"vocalis/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UsageRepository struct {
	collection *mongo.Collection
}

func NewUsageRepository(mongoClient *client.MongoClient) *UsageRepository {
	repository := &UsageRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBVocalis)).Collection(string(core.MongoCollectionUsage)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *UsageRepository) ensureIndexes(contextValue context.Context) error {
	ctx := contextValue

	indexModels := []mongo.IndexModel{
		{ // 每使用者每日一筆
			Keys:    bson.D{{Key: "userID", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index().SetName("idx_userID_day_unique").SetUnique(true),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(ctx, indexModels)
	return nil
}

// Increment：$inc upsert，第一次呼叫自動建檔
func (repository *UsageRepository) Increment(
	contextValue context.Context,
	userIdentifier primitive.ObjectID,
	day string,
) (returnedError error) {

	update := bson.M{
		"$inc":         bson.M{"count": 1},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	_, returnedError = repository.collection.UpdateOne(
		contextValue,
		bson.M{"userID": userIdentifier, "day": day},
		withUpdatedAt(update),
		options.Update().SetUpsert(true),
	)
	return returnedError
}

// GetByUserAndDay：單日讀取，不存在回傳 mongo.ErrNoDocuments
func (repository *UsageRepository) GetByUserAndDay(
	contextValue context.Context,
	userIdentifier primitive.ObjectID,
	day string,
) (_ *model.Usage, returnedError error) {

	var usage model.Usage
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"userID": userIdentifier, "day": day}).Decode(&usage); returnedError != nil {
		return nil, returnedError
	}
	return &usage, nil
}

// ListByUser：依使用者列出每日計數，最新的日子在前
func (repository *UsageRepository) ListByUser(
	contextValue context.Context,
	userIdentifier primitive.ObjectID,
	limit int64,
) (_ []*model.Usage, returnedError error) {

	findOptions := options.Find().SetSort(bson.M{"day": -1})
	if limit > 0 {
		findOptions = findOptions.SetLimit(limit)
	}

	cursor, findError := repository.collection.Find(contextValue, bson.M{"userID": userIdentifier}, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var usages []*model.Usage
	if returnedError = cursor.All(contextValue, &usages); returnedError != nil {
		return nil, returnedError
	}
	return usages, nil
}

// TotalSince：自某日（含）起的總次數，每日快照 cron 用
func (repository *UsageRepository) TotalSince(
	contextValue context.Context,
	day string,
) (_ int64, returnedError error) {

	matchStage := bson.D{{Key: "$match", Value: bson.M{"day": bson.M{"$gte": day}}}}
	groupStage := bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$count"}}}}

	cursor, aggregateError := repository.collection.Aggregate(contextValue, mongo.Pipeline{matchStage, groupStage})
	if aggregateError != nil {
		return 0, aggregateError
	}
	defer cursor.Close(contextValue)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if returnedError = cursor.All(contextValue, &results); returnedError != nil {
		return 0, returnedError
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
