package inference

import (
	"fmt"

	"vocalis/internal/core"
)

// AgeResult 兩階段年齡分類結果
type AgeResult struct {
	Bracket    core.AgeBracket
	Confidence float64 // 百分比 [0,100]
	Stage      int     // 1 = 粗分類短路，2 = 細分類
}

// ClassifyAge 兩階段年齡分類：
//  1. 把性別編碼放到向量最前，依 stage scaler 的欄位名稱重排（名稱投影，不信任位置）
//  2. 粗分類出 "child" 直接返回（stage=1）
//  3. 其餘走細分類，數值類別查 AgeClassMap；查不到退回 label decoder（stage=2）
func ClassifyAge(bundle *Bundle, features []float64, gender core.GenderLabel) (*AgeResult, error) {
	named := make(map[string]float64, len(features)+1)
	named["gender"] = gender.Code()
	if len(features) != len(bundle.FeatureList) {
		return nil, fmt.Errorf("feature vector length %d, feature list %d", len(features), len(bundle.FeatureList))
	}
	for i, name := range bundle.FeatureList {
		named[name] = features[i]
	}

	projected, err := projectByName(named, bundle.Step1Scaler.FeatureNames)
	if err != nil {
		return nil, fmt.Errorf("stage-1 projection: %w", err)
	}

	scaled, err := bundle.Step1Scaler.Transform(projected)
	if err != nil {
		return nil, err
	}
	class, confidence, err := bundle.Step1Model.Predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("stage-1 predict: %w", err)
	}
	if class < 0 || class >= len(bundle.Step1Decoder) {
		return nil, fmt.Errorf("stage-1 class %d outside decoder range", class)
	}
	if bundle.Step1Decoder[class] == string(core.BracketChild) {
		return &AgeResult{Bracket: core.BracketChild, Confidence: confidence, Stage: 1}, nil
	}

	// 細分類用同一份重排向量，換 stage-2 scaler 再標準化
	scaled, err = bundle.Step2Scaler.Transform(projected)
	if err != nil {
		return nil, err
	}
	class, confidence, err = bundle.Step2Model.Predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("stage-2 predict: %w", err)
	}

	bracket, ok := bundle.AgeClassMap[class]
	if !ok {
		// 對照表沒有的類別編碼退回模型自帶的 label decoder
		if class < 0 || class >= len(bundle.Step2Decoder) {
			return nil, fmt.Errorf("stage-2 class %d outside decoder range", class)
		}
		bracket = core.AgeBracket(bundle.Step2Decoder[class])
	}
	return &AgeResult{Bracket: bracket, Confidence: confidence, Stage: 2}, nil
}

// projectByName 依欄位名稱挑出向量值；缺欄位是硬錯誤
func projectByName(named map[string]float64, order []string) ([]float64, error) {
	if len(order) == 0 {
		return nil, fmt.Errorf("scaler carries no feature names")
	}
	projected := make([]float64, len(order))
	for i, name := range order {
		value, ok := named[name]
		if !ok {
			return nil, fmt.Errorf("missing feature %q", name)
		}
		projected[i] = value
	}
	return projected, nil
}
