package model

import (
	"time"

	"vocalis/internal/core"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Prediction struct {
	ID               int64              `json:"id" bson:"_id"`                                                  // 單調遞增流水號
	UserID           primitive.ObjectID `json:"userID" bson:"userID"`                                           // 發出請求的使用者
	FileName         string             `json:"fileName" bson:"fileName"`                                       // 原始上傳檔名
	Gender           core.GenderLabel   `json:"gender" bson:"gender"`                                           // 性別預測
	GenderConfidence float64            `json:"genderConfidence" bson:"genderConfidence"`                       // 性別信心值
	GenderModel      string             `json:"genderModel" bson:"genderModel"`                                 // 勝出的性別模型
	AgeGroup         core.AgeBracket    `json:"ageGroup" bson:"ageGroup"`                                       // 年齡區間預測
	AgeConfidence    float64            `json:"ageConfidence" bson:"ageConfidence"`                             // 年齡信心值
	AgeStage         int                `json:"ageStage" bson:"ageStage"`                                       // 命中的串接階段（1 或 2）
	Features         []float64          `json:"features,omitempty" bson:"features,omitempty"`                   // 抽出的 78 維特徵向量
	IsCorrect        core.Correctness   `json:"isCorrect" bson:"isCorrect"`                                     // 回饋三態，初始 -1
	CorrectedGender  core.GenderLabel   `json:"correctedGender,omitempty" bson:"correctedGender,omitempty"`     // 回饋更正的性別
	CorrectedAge     core.AgeBracket    `json:"correctedAgeGroup,omitempty" bson:"correctedAgeGroup,omitempty"` // 回饋更正的年齡區間
	Comment          string             `json:"comment,omitempty" bson:"comment,omitempty"`                     // 回饋備註
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`                                     // 建立時間
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`                                     // 更新時間
}
