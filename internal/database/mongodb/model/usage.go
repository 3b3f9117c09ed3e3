package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Usage 每使用者每日曆日一筆的使用量鏡射，Redis 計數器的永久報表來源
type Usage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`              // 紀錄唯一識別碼
	UserID    primitive.ObjectID `json:"userID" bson:"userID"`       // 使用者 ID
	Day       string             `json:"day" bson:"day"`             // 日曆日（UTC，YYYY-MM-DD）
	Count     int64              `json:"count" bson:"count"`         // 當日累計次數
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"` // 更新時間
}
