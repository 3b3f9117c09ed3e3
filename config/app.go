package config

type App struct {
	Env  string `mapstructure:"ENV" json:"env" yaml:"env"`
	Port uint32 `mapstructure:"PORT" json:"port" yaml:"port"`
	Name string `mapstructure:"NAME" json:"name" yaml:"name"`
	// 服務版本，隨回應的 X-App-Version header 輸出
	Version string `mapstructure:"VERSION" json:"version" yaml:"version"`
	// API Key 簽章用的 HMAC secret
	SecretKey      string `mapstructure:"SECRET_KEY" json:"secret_key" yaml:"secret_key"`
	SwaggerEnabled bool   `mapstructure:"SWAGGER_ENABLED" json:"swagger_enabled" yaml:"swagger_enabled"`
}
