package dto

import "vocalis/internal/core"

// 回饋提交（POST /api/v1/feedback）。
// IsCorrect 用指標避免 0（incorrect）被當成未填。
type FeedbackDto struct {
	ID              int64             `json:"id" binding:"required"`
	IsCorrect       *int              `json:"is_correct" binding:"required"`
	CorrectedGender *core.GenderLabel `json:"corrected_gender,omitempty"`
	CorrectedAge    *core.AgeBracket  `json:"corrected_age_group,omitempty"`
	Comment         *string           `json:"comment,omitempty"`
}
