package config

// DefaultFreeDailyLimit free 方案未設定時的每日上限
const DefaultFreeDailyLimit = 5

type Quota struct {
	// free 方案每日請求上限；未設定（<=0）時採 DefaultFreeDailyLimit
	FreeDailyLimit int `mapstructure:"FREE_DAILY_LIMIT" json:"free_daily_limit" yaml:"free_daily_limit"`
}

// Limit 回傳生效的每日上限
func (q Quota) Limit() int {
	if q.FreeDailyLimit > 0 {
		return q.FreeDailyLimit
	}
	return DefaultFreeDailyLimit
}
