package inference

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Scorer 一個已訓練模型的評分介面：輸入已標準化特徵，
// 輸出離散類別編碼與信心值（最大後驗機率 × 100）。
type Scorer interface {
	Name() string
	Predict(scaled []float64) (class int, confidence float64, err error)
	// Probabilities 各類別後驗，順序對應類別編碼
	Probabilities(scaled []float64) ([]float64, error)
}

// modelArtifact 訓練端匯出的線性模型 JSON
type modelArtifact struct {
	Name      string      `json:"name"`
	Kind      string      `json:"kind"` // "logistic" 或 "svm_platt"
	Weights   [][]float64 `json:"weights"`
	Intercept []float64   `json:"intercept"`
	PlattA    float64     `json:"platt_a,omitempty"`
	PlattB    float64     `json:"platt_b,omitempty"`
}

// LoadScorer 讀取模型 artifact 並依 kind 建立對應 Scorer
func LoadScorer(path string) (Scorer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	if len(artifact.Weights) == 0 || len(artifact.Weights) != len(artifact.Intercept) {
		return nil, fmt.Errorf("model %s: weights/intercept shape mismatch", path)
	}

	switch artifact.Kind {
	case "logistic":
		return &logisticScorer{artifact: artifact}, nil
	case "svm_platt":
		if len(artifact.Weights) != 1 {
			return nil, fmt.Errorf("model %s: svm_platt expects a single decision row", path)
		}
		return &svmScorer{artifact: artifact}, nil
	default:
		return nil, fmt.Errorf("model %s: unknown kind %q", path, artifact.Kind)
	}
}

// logisticScorer 線性機率分類器。單列權重視為二元（sigmoid），
// 多列為 softmax 多類別。
type logisticScorer struct {
	artifact modelArtifact
}

func (s *logisticScorer) Name() string { return s.artifact.Name }

func (s *logisticScorer) Probabilities(scaled []float64) ([]float64, error) {
	if err := s.checkWidth(scaled); err != nil {
		return nil, err
	}
	if len(s.artifact.Weights) == 1 {
		p := sigmoid(dot(s.artifact.Weights[0], scaled) + s.artifact.Intercept[0])
		return []float64{1 - p, p}, nil
	}

	scores := make([]float64, len(s.artifact.Weights))
	maxScore := math.Inf(-1)
	for c, row := range s.artifact.Weights {
		scores[c] = dot(row, scaled) + s.artifact.Intercept[c]
		if scores[c] > maxScore {
			maxScore = scores[c]
		}
	}
	total := 0.0
	for c := range scores {
		scores[c] = math.Exp(scores[c] - maxScore)
		total += scores[c]
	}
	for c := range scores {
		scores[c] /= total
	}
	return scores, nil
}

func (s *logisticScorer) Predict(scaled []float64) (int, float64, error) {
	probabilities, err := s.Probabilities(scaled)
	if err != nil {
		return 0, 0, err
	}
	return argmaxConfidence(probabilities)
}

func (s *logisticScorer) checkWidth(scaled []float64) error {
	if len(scaled) != len(s.artifact.Weights[0]) {
		return fmt.Errorf("model %s expects %d features, got %d", s.artifact.Name, len(s.artifact.Weights[0]), len(scaled))
	}
	return nil
}

// svmScorer 線性 SVM，Platt scaling 校準成機率
type svmScorer struct {
	artifact modelArtifact
}

func (s *svmScorer) Name() string { return s.artifact.Name }

func (s *svmScorer) Probabilities(scaled []float64) ([]float64, error) {
	if len(scaled) != len(s.artifact.Weights[0]) {
		return nil, fmt.Errorf("model %s expects %d features, got %d", s.artifact.Name, len(s.artifact.Weights[0]), len(scaled))
	}
	decision := dot(s.artifact.Weights[0], scaled) + s.artifact.Intercept[0]
	p := sigmoid(-(s.artifact.PlattA*decision + s.artifact.PlattB))
	return []float64{1 - p, p}, nil
}

func (s *svmScorer) Predict(scaled []float64) (int, float64, error) {
	probabilities, err := s.Probabilities(scaled)
	if err != nil {
		return 0, 0, err
	}
	return argmaxConfidence(probabilities)
}

// argmaxConfidence 回傳最大後驗的類別編碼與百分比信心
func argmaxConfidence(probabilities []float64) (int, float64, error) {
	if len(probabilities) == 0 {
		return 0, 0, fmt.Errorf("empty probability vector")
	}
	best := 0
	for c, p := range probabilities {
		if p > probabilities[best] {
			best = c
		}
	}
	return best, probabilities[best] * 100, nil
}

func dot(weights, values []float64) float64 {
	sum := 0.0
	for i, w := range weights {
		sum += w * values[i]
	}
	return sum
}

func sigmoid(v float64) float64 {
	return 1.0 / (1.0 + math.Exp(-v))
}
