package core

import "go.mongodb.org/mongo-driver/bson"

// ─── Database Types ────────────────────────────────────────────────────────────

type MongoDatabaseName string
type MongoCollection string
type RedisKey string
type FluentdSubTag string

// ─── MongoDB ───────────────────────────────────────────────────────────────────
const (
	MongoDBVocalis MongoDatabaseName = "vocalis"
)

// MongoDB collections
const (
	MongoCollectionUsers       MongoCollection = "vocalis_users"
	MongoCollectionPredictions MongoCollection = "vocalis_predictions"
	MongoCollectionUsage       MongoCollection = "vocalis_usage"
	MongoCollectionCounters    MongoCollection = "vocalis_counters"
)

// ─── Redis Keys ────────────────────────────────────────────────────────────────

const (
	RedisKeyServerName RedisKey = "vocalis" // key prefix
	RedisKeyQuota      RedisKey = "quota"   // 每日配額計數
)

const (
	FluentdRequest    FluentdSubTag = "request_log"
	FluentdResponse   FluentdSubTag = "response_log"
	FluentdPrediction FluentdSubTag = "vocalis_prediction_log"
)

type ListOptions struct {
	Filter bson.M `json:"filter,omitempty" bson:"filter,omitempty"`
	Page   int64  `json:"page,omitempty" bson:"page,omitempty"`
	Size   int64  `json:"size,omitempty" bson:"size,omitempty"`
}
