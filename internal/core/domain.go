package core

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenderLabel 性別分類結果
type GenderLabel string

const (
	GenderMale   GenderLabel = "male"
	GenderFemale GenderLabel = "female"
)

// GenderCode 模型輸出的數值編碼（0 = male, 1 = female）
func (g GenderLabel) Code() float64 {
	if g == GenderFemale {
		return 1
	}
	return 0
}

func GenderFromCode(code int) GenderLabel {
	if code == 1 {
		return GenderFemale
	}
	return GenderMale
}

// AgeBracket 年齡區間；child 為粗分類唯一的終端結果
type AgeBracket string

const (
	BracketChild     AgeBracket = "child"
	BracketTeen      AgeBracket = "teen"
	BracketTwenties  AgeBracket = "twenties"
	BracketThirties  AgeBracket = "thirties"
	BracketFourties  AgeBracket = "fourties"
	BracketFifties   AgeBracket = "fifties"
	BracketSixties   AgeBracket = "sixties"
	BracketSeventies AgeBracket = "seventies"
	BracketEighties  AgeBracket = "eighties"
)

// AgeClassMap 第二階段模型數值類別 → 年齡區間。
// 順序承襲訓練時 label encoder 的字典序，不可重排。
var AgeClassMap = map[int]AgeBracket{
	0: BracketEighties,
	1: BracketFifties,
	2: BracketFourties,
	3: BracketSeventies,
	4: BracketSixties,
	5: BracketTeen,
	6: BracketThirties,
	7: BracketTwenties,
}

// PlanTier 呼叫者的訂閱方案；只有 free 受每日配額限制
type PlanTier string

const (
	PlanFree       PlanTier = "free"
	PlanPro        PlanTier = "pro"
	PlanEnterprise PlanTier = "enterprise"
)

// Limited 是否受每日配額管制
func (p PlanTier) Limited() bool {
	return p == PlanFree
}

type Role string

const (
	RoleAdmin Role = "admin" // 管理員：可建立使用者、查回饋
	RoleUser  Role = "user"  // 一般使用者
)

type Status string

const (
	StatusActive  Status = "active"  // 正常可用
	StatusBlocked Status = "blocked" // 被封鎖（例如濫用）
	StatusDeleted Status = "deleted" // 已刪除（軟刪除）
)

// Correctness 預測紀錄的回饋三態
type Correctness int

const (
	CorrectnessUnknown   Correctness = -1
	CorrectnessIncorrect Correctness = 0
	CorrectnessCorrect   Correctness = 1
)

// Identity 驗證後的呼叫者身份（內部 id + 方案）
type Identity struct {
	UserID primitive.ObjectID
	Plan   PlanTier
	Role   Role
}

// DayKey 配額計數使用的日曆日鍵（UTC）
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
