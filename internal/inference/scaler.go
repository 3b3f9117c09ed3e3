package inference

import (
	"encoding/json"
	"fmt"
	"os"
)

// Scaler 標準化器（訓練端匯出的 mean / scale）。
// FeatureNames 為該 scaler 期望的欄位順序；有值時投影必須以名稱對齊。
type Scaler struct {
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	FeatureNames []string  `json:"feature_names,omitempty"`
}

func LoadScaler(path string) (*Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scaler %s: %w", path, err)
	}
	var scaler Scaler
	if err := json.Unmarshal(data, &scaler); err != nil {
		return nil, fmt.Errorf("parse scaler %s: %w", path, err)
	}
	if len(scaler.Mean) == 0 || len(scaler.Mean) != len(scaler.Scale) {
		return nil, fmt.Errorf("scaler %s: mean/scale length mismatch", path)
	}
	return &scaler, nil
}

// Transform 標準化輸入向量，長度不符是硬錯誤
func (s *Scaler) Transform(vector []float64) ([]float64, error) {
	if len(vector) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(vector))
	}
	scaled := make([]float64, len(vector))
	for i, v := range vector {
		divisor := s.Scale[i]
		if divisor == 0 {
			divisor = 1
		}
		scaled[i] = (v - s.Mean[i]) / divisor
	}
	return scaled, nil
}
