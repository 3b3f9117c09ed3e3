package config

// MongoDB 連線設定；URI 不含 query 參數，Options 另外帶（例如 retryWrites=false）
type MongoDB struct {
	URI     string `mapstructure:"URI" json:"uri" yaml:"uri"`
	Options string `mapstructure:"OPTIONS" json:"options" yaml:"options"`
}
