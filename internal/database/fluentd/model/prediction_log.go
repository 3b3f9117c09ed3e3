package model

type PredictionLog struct {
	// 身份/追蹤
	RequestID        string  `bson:"request_id,omitempty" json:"request_id"`
	UserID           string  `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Plan             string  `bson:"plan,omitempty" json:"plan,omitempty"`
	PredictionID     int64   `bson:"prediction_id,omitempty" json:"prediction_id,omitempty"`
	FileName         string  `bson:"file_name,omitempty" json:"file_name,omitempty"`
	Gender           string  `bson:"gender,omitempty" json:"gender,omitempty"`
	GenderConfidence float64 `bson:"gender_confidence,omitempty" json:"gender_confidence,omitempty"`
	GenderModel      string  `bson:"gender_model,omitempty" json:"gender_model,omitempty"`
	AgeGroup         string  `bson:"age_group,omitempty" json:"age_group,omitempty"`
	AgeConfidence    float64 `bson:"age_confidence,omitempty" json:"age_confidence,omitempty"`
	AgeStage         int     `bson:"age_stage,omitempty" json:"age_stage,omitempty"`
	QuotaRemaining   int     `bson:"quota_remaining,omitempty" json:"quota_remaining,omitempty"`
	DurationMs       float64 `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	Status           string  `bson:"status" json:"status"`
	Error            string  `bson:"error,omitempty" json:"error,omitempty"`
	Version          string  `bson:"version" json:"version"`
	LoggedAt         string  `bson:"logged_at" json:"logged_at"`
}
