package inference

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"vocalis/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubScorer struct {
	name  string
	class int
	conf  float64
	seen  []float64
}

func (s *stubScorer) Name() string { return s.name }
func (s *stubScorer) Predict(scaled []float64) (int, float64, error) {
	s.seen = append([]float64(nil), scaled...)
	return s.class, s.conf, nil
}
func (s *stubScorer) Probabilities(scaled []float64) ([]float64, error) {
	return nil, nil
}

func identityScaler(n int, names ...string) *Scaler {
	mean := make([]float64, n)
	scale := make([]float64, n)
	for i := range scale {
		scale[i] = 1
	}
	return &Scaler{Mean: mean, Scale: scale, FeatureNames: names}
}

func TestScalerTransform(t *testing.T) {
	s := &Scaler{Mean: []float64{1, 2}, Scale: []float64{2, 4}}

	out, err := s.Transform([]float64{3, 10})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, out)

	_, err = s.Transform([]float64{1})
	assert.Error(t, err)
}

func TestScalerTransformZeroScale(t *testing.T) {
	s := &Scaler{Mean: []float64{5}, Scale: []float64{0}}
	out, err := s.Transform([]float64{7})
	require.NoError(t, err)
	// scale 為 0 時視為 1，不做除法爆炸
	assert.Equal(t, []float64{2}, out)
}

func TestLogisticScorerBinary(t *testing.T) {
	scorer := &logisticScorer{artifact: modelArtifact{
		Name:      "lr",
		Kind:      "logistic",
		Weights:   [][]float64{{1, -1}},
		Intercept: []float64{0},
	}}

	// w·x = 0 → p = 0.5 → 類別 0（嚴格大於才換）
	class, conf, err := scorer.Predict([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 0, class)
	assert.InDelta(t, 50, conf, 1e-9)

	// 強正向決策 → 類別 1
	class, conf, err = scorer.Predict([]float64{10, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, class)
	assert.Greater(t, conf, 99.0)
}

func TestLogisticScorerSoftmax(t *testing.T) {
	scorer := &logisticScorer{artifact: modelArtifact{
		Name: "step2",
		Kind: "logistic",
		Weights: [][]float64{
			{1, 0},
			{0, 1},
			{-1, -1},
		},
		Intercept: []float64{0, 0, 0},
	}}

	probabilities, err := scorer.Probabilities([]float64{3, 0})
	require.NoError(t, err)
	require.Len(t, probabilities, 3)

	total := 0.0
	for _, p := range probabilities {
		total += p
	}
	assert.InDelta(t, 1.0, total, 1e-12)

	class, conf, err := scorer.Predict([]float64{3, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, class)
	assert.Equal(t, probabilities[0]*100, conf)
}

func TestSvmScorerPlatt(t *testing.T) {
	scorer := &svmScorer{artifact: modelArtifact{
		Name:      "svm",
		Kind:      "svm_platt",
		Weights:   [][]float64{{2}},
		Intercept: []float64{1},
		PlattA:    -1.5,
		PlattB:    0.2,
	}}

	// decision = 2*1 + 1 = 3, p = sigmoid(-(-1.5*3 + 0.2)) = sigmoid(4.3)
	probabilities, err := scorer.Probabilities([]float64{1})
	require.NoError(t, err)
	expected := 1.0 / (1.0 + math.Exp(-4.3))
	assert.InDelta(t, expected, probabilities[1], 1e-12)
	assert.InDelta(t, 1-expected, probabilities[0], 1e-12)
}

func TestClassifyGenderPicksHighestConfidence(t *testing.T) {
	bundle := &Bundle{
		GenderScaler: identityScaler(2),
		GenderScorers: []Scorer{
			&stubScorer{name: "svm", class: 0, conf: 80},
			&stubScorer{name: "lr", class: 1, conf: 91},
		},
	}

	result, err := ClassifyGender(bundle, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, core.GenderFemale, result.Label)
	assert.Equal(t, "lr", result.Model)
	assert.InDelta(t, 91, result.Confidence, 1e-9)
}

func TestClassifyGenderTieKeepsFirstRegistered(t *testing.T) {
	bundle := &Bundle{
		GenderScaler: identityScaler(2),
		GenderScorers: []Scorer{
			&stubScorer{name: "svm", class: 0, conf: 75},
			&stubScorer{name: "lr", class: 1, conf: 75},
		},
	}

	result, err := ClassifyGender(bundle, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, "svm", result.Model)
	assert.Equal(t, core.GenderMale, result.Label)
}

func ageBundle(step1 Scorer, step2 Scorer) *Bundle {
	return &Bundle{
		FeatureList: []string{"f0", "f1"},
		Step1Model:  step1,
		Step1Scaler: identityScaler(3, "gender", "f1", "f0"),
		Step1Decoder: []string{
			"adult", "child",
		},
		Step2Model:   step2,
		Step2Scaler:  identityScaler(3, "gender", "f1", "f0"),
		Step2Decoder: []string{"eighties", "fifties", "fourties", "seventies", "sixties", "teen", "thirties", "twenties"},
		AgeClassMap:  core.AgeClassMap,
	}
}

func TestClassifyAgeChildShortCircuit(t *testing.T) {
	step1 := &stubScorer{name: "step1", class: 1, conf: 88}
	step2 := &stubScorer{name: "step2", class: 0, conf: 10}

	result, err := ClassifyAge(ageBundle(step1, step2), []float64{0.5, -0.5}, core.GenderFemale)
	require.NoError(t, err)
	assert.Equal(t, core.BracketChild, result.Bracket)
	assert.Equal(t, 1, result.Stage)
	assert.InDelta(t, 88, result.Confidence, 1e-9)
	// 第二階段不得被呼叫
	assert.Nil(t, step2.seen)
}

func TestClassifyAgeNameProjection(t *testing.T) {
	step1 := &stubScorer{name: "step1", class: 0, conf: 60}
	step2 := &stubScorer{name: "step2", class: 7, conf: 70}

	result, err := ClassifyAge(ageBundle(step1, step2), []float64{0.5, -0.5}, core.GenderFemale)
	require.NoError(t, err)
	assert.Equal(t, core.BracketTwenties, result.Bracket)
	assert.Equal(t, 2, result.Stage)

	// 欄位名稱投影：gender 在前，f1 與 f0 依 scaler 宣告的順序
	assert.Equal(t, []float64{1, -0.5, 0.5}, step1.seen)
	assert.Equal(t, []float64{1, -0.5, 0.5}, step2.seen)
}

func TestClassifyAgeUnknownCodeFallsBackToDecoder(t *testing.T) {
	step1 := &stubScorer{name: "step1", class: 0, conf: 60}
	step2 := &stubScorer{name: "step2", class: 3, conf: 40}

	bundle := ageBundle(step1, step2)
	bundle.AgeClassMap = map[int]core.AgeBracket{} // 模擬對照表缺項

	result, err := ClassifyAge(bundle, []float64{1, 2}, core.GenderMale)
	require.NoError(t, err)
	assert.Equal(t, core.AgeBracket("seventies"), result.Bracket)
}

func TestClassifyAgeMissingFeatureName(t *testing.T) {
	step1 := &stubScorer{name: "step1", class: 0, conf: 60}
	step2 := &stubScorer{name: "step2", class: 0, conf: 60}

	bundle := ageBundle(step1, step2)
	bundle.Step1Scaler = identityScaler(3, "gender", "f1", "nonexistent")

	_, err := ClassifyAge(bundle, []float64{1, 2}, core.GenderMale)
	assert.ErrorContains(t, err, "missing feature")
}

func writeJSON(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func writeModelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	features := []string{"f0", "f1"}
	scaler := map[string]any{"mean": []float64{0, 0}, "scale": []float64{1, 1}}
	stageScaler := map[string]any{
		"mean":          []float64{0, 0, 0},
		"scale":         []float64{1, 1, 1},
		"feature_names": []string{"gender", "f0", "f1"},
	}
	lr := map[string]any{"name": "lr", "kind": "logistic", "weights": [][]float64{{1, -1}}, "intercept": []float64{0}}
	svm := map[string]any{"name": "svm", "kind": "svm_platt", "weights": [][]float64{{1, 1}}, "intercept": []float64{0}, "platt_a": -1.0, "platt_b": 0.0}
	step := map[string]any{"name": "step", "kind": "logistic", "weights": [][]float64{{1, 0, 0}, {0, 1, 0}}, "intercept": []float64{0, 0}}

	writeJSON(t, dir, FileGenderSVM, svm)
	writeJSON(t, dir, FileGenderLR, lr)
	writeJSON(t, dir, FileGenderScaler, scaler)
	writeJSON(t, dir, FileFeatureList, features)
	writeJSON(t, dir, FileStep1Model, step)
	writeJSON(t, dir, FileStep1Scaler, stageScaler)
	writeJSON(t, dir, FileStep1Encoder, []string{"adult", "child"})
	writeJSON(t, dir, FileStep2Model, step)
	writeJSON(t, dir, FileStep2Scaler, stageScaler)
	writeJSON(t, dir, FileStep2Encoder, []string{"eighties", "fifties"})
	return dir
}

func TestRegistryLoadsOnce(t *testing.T) {
	dir := writeModelDir(t)
	registry := &Registry{dir: dir, logger: zap.NewNop()}

	bundle, err := registry.Bundle()
	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Len(t, bundle.GenderScorers, 2)
	assert.Equal(t, "svm", bundle.GenderScorers[0].Name())
	assert.Equal(t, []string{"f0", "f1"}, bundle.FeatureList)

	again, err := registry.Bundle()
	require.NoError(t, err)
	assert.Same(t, bundle, again)
}

func TestRegistryMissingArtifactFails(t *testing.T) {
	dir := writeModelDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, FileStep2Model)))

	registry := &Registry{dir: dir, logger: zap.NewNop()}
	_, err := registry.Bundle()
	assert.Error(t, err)
}

func TestRegistryFeatureCountMismatchFails(t *testing.T) {
	dir := writeModelDir(t)
	writeJSON(t, dir, FileFeatureList, []string{"f0", "f1", "f2"})

	registry := &Registry{dir: dir, logger: zap.NewNop()}
	_, err := registry.Bundle()
	assert.ErrorContains(t, err, "feature list")
}
