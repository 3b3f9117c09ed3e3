package service

import (
	"math/rand"
	"time"

	"vocalis/config"
	"vocalis/internal/dsp"
	"vocalis/internal/inference"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewUserService,
	NewQuotaService,
	NewPredictionService,
	NewHealthService,
	inference.NewRegistry,
	ProvideExtractor,
)

// ProvideExtractor 建立特徵抽取器；隨機裁切用的 rng 以時間為種子
func ProvideExtractor(conf *config.Configuration) *dsp.Extractor {
	return dsp.NewExtractor(dsp.DefaultConfig(), rand.New(rand.NewSource(time.Now().UnixNano())))
}
