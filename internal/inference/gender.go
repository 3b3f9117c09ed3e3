package inference

import (
	"fmt"

	"vocalis/internal/core"
)

// GenderResult 集成結果
type GenderResult struct {
	Label      core.GenderLabel
	Confidence float64 // 百分比 [0,100]
	Model      string  // 勝出的 scorer 名稱
}

// ClassifyGender 以共用 scaler 標準化一次，跑過每個 scorer，
// 取信心值最高者；同分時先註冊的勝出。不設低信心門檻。
func ClassifyGender(bundle *Bundle, features []float64) (*GenderResult, error) {
	scaled, err := bundle.GenderScaler.Transform(features)
	if err != nil {
		return nil, err
	}
	if len(bundle.GenderScorers) == 0 {
		return nil, fmt.Errorf("no gender scorers registered")
	}

	var best *GenderResult
	for _, scorer := range bundle.GenderScorers {
		class, confidence, err := scorer.Predict(scaled)
		if err != nil {
			return nil, fmt.Errorf("scorer %s: %w", scorer.Name(), err)
		}
		if best == nil || confidence > best.Confidence {
			best = &GenderResult{
				Label:      core.GenderFromCode(class),
				Confidence: confidence,
				Model:      scorer.Name(),
			}
		}
	}
	return best, nil
}
