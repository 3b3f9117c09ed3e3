package dto

import (
	"time"

	"vocalis/internal/core"
)

// 建立用戶（管理端）
type CreateUserDto struct {
	DisplayName string        `json:"displayName" binding:"required"`            // 顯示名稱
	Email       string        `json:"email,omitempty" binding:"omitempty,email"` // 信箱可選且格式驗證
	Plan        core.PlanTier `json:"plan" binding:"required"`                   // 訂閱方案
	Role        core.Role     `json:"role,omitempty"`                            // 角色，預設 user
}

// 修改用戶狀態
type UpdateUserStatusDto struct {
	Status core.Status `json:"status" binding:"required"`
}

// 修改用戶方案
type UpdateUserPlanDto struct {
	Plan core.PlanTier `json:"plan" binding:"required"`
}

type UserResponseDto struct {
	ID          string        `json:"id"`
	DisplayName string        `json:"displayName"`
	Email       string        `json:"email,omitempty"`
	Plan        core.PlanTier `json:"plan"`
	Role        core.Role     `json:"role"`
	Status      core.Status   `json:"status"`
	APIKey      string        `json:"apiKey,omitempty"` // 只在建立時回傳一次
	CreatedAt   time.Time     `json:"createdAt"`
}
