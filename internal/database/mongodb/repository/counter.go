package repository

import (
	"context"

	"vocalis/internal/core"
	client "vocalis/internal/database/client"
	"vocalis/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SequencePredictions = "predictions"

type CounterRepository struct {
	collection *mongo.Collection
}

func NewCounterRepository(mongoClient *client.MongoClient) *CounterRepository {
	return &CounterRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBVocalis)).Collection(string(core.MongoCollectionCounters)),
	}
}

// Next 取得序列的下一個值。FindOneAndUpdate + $inc 是單一文件上的
// 原子操作，併發請求各自拿到唯一且遞增的號碼。
func (repository *CounterRepository) Next(
	contextValue context.Context,
	sequenceName string,
) (_ int64, returnedError error) {

	var counter model.Counter
	findOptions := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	returnedError = repository.collection.FindOneAndUpdate(
		contextValue,
		bson.M{"_id": sequenceName},
		bson.M{"$inc": bson.M{"seq": 1}},
		findOptions,
	).Decode(&counter)
	if returnedError != nil {
		return 0, returnedError
	}
	return counter.Value, nil
}
