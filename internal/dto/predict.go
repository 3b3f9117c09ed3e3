package dto

import (
	"time"

	"vocalis/internal/core"
)

// 預測回應（POST /api/v1/predict）
type PredictResponseDto struct {
	ID               int64            `json:"id"`
	Gender           core.GenderLabel `json:"gender"`
	GenderConfidence float64          `json:"gender_confidence"` // 百分比 [0,100]
	GenderModel      string           `json:"gender_model"`
	AgeGroup         core.AgeBracket  `json:"age_group"`
	AgeConfidence    float64          `json:"age_confidence"` // 百分比 [0,100]
	AgeStage         int              `json:"age_stage"`      // 1 = 粗分類短路
}

// 預測紀錄讀取（GET /api/v1/predictions/:id）
type PredictionRecordDto struct {
	ID               int64            `json:"id"`
	FileName         string           `json:"fileName"`
	Gender           core.GenderLabel `json:"gender"`
	GenderConfidence float64          `json:"genderConfidence"`
	GenderModel      string           `json:"genderModel"`
	AgeGroup         core.AgeBracket  `json:"ageGroup"`
	AgeConfidence    float64          `json:"ageConfidence"`
	AgeStage         int              `json:"ageStage"`
	IsCorrect        core.Correctness `json:"isCorrect"`
	CorrectedGender  core.GenderLabel `json:"correctedGender,omitempty"`
	CorrectedAge     core.AgeBracket  `json:"correctedAgeGroup,omitempty"`
	Comment          string           `json:"comment,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}
