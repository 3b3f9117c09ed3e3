package dto

// 每日使用量（GET /admin/usage/:userID）
type UsageResponseDto struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}
