package config

// Models 描述模型資產目錄與上傳暫存設定。
// Dir 內的檔案佈局是 ModelRegistry 的合約，缺一不可。
type Models struct {
	// 模型資產目錄（gender/age 模型、scaler、feature list）
	Dir string `mapstructure:"DIR" json:"dir" yaml:"dir"`
	// 上傳音檔暫存目錄
	UploadDir string `mapstructure:"UPLOAD_DIR" json:"upload_dir" yaml:"upload_dir"`
	// 允許的上傳副檔名（預設 .wav）
	AllowedExtensions []string `mapstructure:"ALLOWED_EXTENSIONS" json:"allowed_extensions" yaml:"allowed_extensions"`
}
