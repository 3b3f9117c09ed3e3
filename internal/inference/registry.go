// Package inference 載入訓練端匯出的模型 artifact，
// 提供性別集成與兩階段年齡分類。
package inference

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"vocalis/config"
	"vocalis/internal/core"

	"go.uber.org/zap"
)

// artifact 檔名（訓練端匯出的固定名稱）
const (
	FileGenderSVM     = "gender_model_svm.json"
	FileGenderLR      = "gender_model_lr.json"
	FileGenderScaler  = "scaler.json"
	FileFeatureList   = "feature_list.json"
	FileStep1Model    = "model_step1.json"
	FileStep1Scaler   = "scaler_step1.json"
	FileStep1Encoder  = "label_encoder_step1.json"
	FileStep2Model    = "model_step2.json"
	FileStep2Scaler   = "scaler_step2.json"
	FileStep2Encoder  = "label_encoder_step2.json"
)

// Bundle 載入完成、唯讀的模型組
type Bundle struct {
	GenderScorers []Scorer // 註冊順序即平手時的優先序
	GenderScaler  *Scaler
	FeatureList   []string

	Step1Model   Scorer
	Step1Scaler  *Scaler
	Step1Decoder []string

	Step2Model   Scorer
	Step2Scaler  *Scaler
	Step2Decoder []string

	AgeClassMap map[int]core.AgeBracket
}

// Registry 單飛載入器：首次取用時載入全部 artifact，之後共用同一份。
// 任一 artifact 缺漏或毀損時回傳錯誤，啟動流程據此直接終止。
type Registry struct {
	dir    string
	logger *zap.Logger

	once   sync.Once
	bundle *Bundle
	err    error
}

func NewRegistry(conf *config.Configuration, logger *zap.Logger) *Registry {
	return &Registry{dir: conf.Models.Dir, logger: logger}
}

// Bundle 取得模型組；併發呼叫只會載入一次
func (r *Registry) Bundle() (*Bundle, error) {
	r.once.Do(func() {
		r.bundle, r.err = r.load()
		if r.err != nil {
			r.logger.Error("model bundle load failed", zap.Error(r.err))
			return
		}
		r.logger.Info("model bundle loaded",
			zap.String("dir", r.dir),
			zap.Int("features", len(r.bundle.FeatureList)),
			zap.Int("gender_scorers", len(r.bundle.GenderScorers)),
		)
	})
	return r.bundle, r.err
}

func (r *Registry) load() (*Bundle, error) {
	bundle := &Bundle{AgeClassMap: core.AgeClassMap}

	// 性別集成：svm 先註冊，平手時勝出
	for _, file := range []string{FileGenderSVM, FileGenderLR} {
		scorer, err := LoadScorer(filepath.Join(r.dir, file))
		if err != nil {
			return nil, err
		}
		bundle.GenderScorers = append(bundle.GenderScorers, scorer)
	}

	var err error
	if bundle.GenderScaler, err = LoadScaler(filepath.Join(r.dir, FileGenderScaler)); err != nil {
		return nil, err
	}
	if bundle.FeatureList, err = loadStringList(filepath.Join(r.dir, FileFeatureList)); err != nil {
		return nil, err
	}
	if len(bundle.FeatureList) != len(bundle.GenderScaler.Mean) {
		return nil, fmt.Errorf("feature list has %d entries, gender scaler expects %d",
			len(bundle.FeatureList), len(bundle.GenderScaler.Mean))
	}

	if bundle.Step1Model, err = LoadScorer(filepath.Join(r.dir, FileStep1Model)); err != nil {
		return nil, err
	}
	if bundle.Step1Scaler, err = LoadScaler(filepath.Join(r.dir, FileStep1Scaler)); err != nil {
		return nil, err
	}
	if bundle.Step1Decoder, err = loadStringList(filepath.Join(r.dir, FileStep1Encoder)); err != nil {
		return nil, err
	}

	if bundle.Step2Model, err = LoadScorer(filepath.Join(r.dir, FileStep2Model)); err != nil {
		return nil, err
	}
	if bundle.Step2Scaler, err = LoadScaler(filepath.Join(r.dir, FileStep2Scaler)); err != nil {
		return nil, err
	}
	if bundle.Step2Decoder, err = loadStringList(filepath.Join(r.dir, FileStep2Encoder)); err != nil {
		return nil, err
	}

	return bundle, nil
}

func loadStringList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: empty list", path)
	}
	return list, nil
}
