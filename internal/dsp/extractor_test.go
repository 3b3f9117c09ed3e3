package dsp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq float64, sampleRate int, seconds float64) []float64 {
	n := int(float64(sampleRate) * seconds)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.8 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return samples
}

func TestFeatureNamesMatchVectorLayout(t *testing.T) {
	e := NewExtractor(DefaultConfig(), rand.New(rand.NewSource(1)))

	names := e.FeatureNames()
	assert.Len(t, names, e.NumFeatures())
	assert.Equal(t, 78, e.NumFeatures())

	seen := map[string]bool{}
	for _, name := range names {
		assert.False(t, seen[name], "duplicate feature name %s", name)
		seen[name] = true
	}
	assert.Equal(t, "mfcc_mean_0", names[0])
	assert.Equal(t, "pitch_std", names[len(names)-1])
}

func TestExtractExactLengthIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	e := NewExtractor(cfg, rand.New(rand.NewSource(1)))

	samples := sine(440, cfg.SampleRate, 5)

	first, err := e.Extract(samples, cfg.SampleRate)
	require.NoError(t, err)
	second, err := e.Extract(samples, cfg.SampleRate)
	require.NoError(t, err)

	// 剛好 5 秒不經過隨機裁切，兩次結果必須完全相同
	assert.Equal(t, first, second)
	assert.Len(t, first, e.NumFeatures())
	for i, v := range first {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "feature %d not finite", i)
	}
}

func TestExtractShortInputIsPadded(t *testing.T) {
	cfg := DefaultConfig()
	e := NewExtractor(cfg, rand.New(rand.NewSource(1)))

	vector, err := e.Extract(sine(220, cfg.SampleRate, 1), cfg.SampleRate)
	require.NoError(t, err)
	assert.Len(t, vector, e.NumFeatures())
}

func TestExtractLongInputCropDependsOnSeed(t *testing.T) {
	cfg := DefaultConfig()
	samples := sine(330, cfg.SampleRate, 8)

	a := NewExtractor(cfg, rand.New(rand.NewSource(7)))
	b := NewExtractor(cfg, rand.New(rand.NewSource(7)))

	va, err := a.Extract(samples, cfg.SampleRate)
	require.NoError(t, err)
	vb, err := b.Extract(samples, cfg.SampleRate)
	require.NoError(t, err)

	// 相同 seed → 相同裁切起點 → 相同向量
	assert.Equal(t, va, vb)
}

func TestExtractResamplesForeignRate(t *testing.T) {
	cfg := DefaultConfig()
	e := NewExtractor(cfg, rand.New(rand.NewSource(1)))

	vector, err := e.Extract(sine(440, 44100, 5), 44100)
	require.NoError(t, err)
	assert.Len(t, vector, e.NumFeatures())
}

func TestExtractEmptySignalFails(t *testing.T) {
	e := NewExtractor(DefaultConfig(), rand.New(rand.NewSource(1)))
	_, err := e.Extract(nil, 16000)
	assert.Error(t, err)
}

func TestNormalizeDuration(t *testing.T) {
	cfg := DefaultConfig()
	e := NewExtractor(cfg, rand.New(rand.NewSource(3)))
	target := cfg.SampleRate * cfg.TargetSeconds

	short := e.normalizeDuration(make([]float64, 100))
	assert.Len(t, short, target)

	long := e.normalizeDuration(make([]float64, target*2))
	assert.Len(t, long, target)

	exact := make([]float64, target)
	assert.Len(t, e.normalizeDuration(exact), target)
}

func TestZeroCrossingRateOfAlternatingSignal(t *testing.T) {
	// 交錯正負的訊號幾乎每個取樣都過零
	samples := make([]float64, 2048)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 1
		} else {
			samples[i] = -1
		}
	}
	rates := zeroCrossingRate(samples, 2048, 512)
	require.GreaterOrEqual(t, len(rates), 3)
	// frame 2 完全落在訊號內（前面的 frame 含置中補零）
	assert.Greater(t, rates[2], 0.9)

	silent := zeroCrossingRate(make([]float64, 2048), 2048, 512)
	assert.Equal(t, 0.0, silent[2])
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5, mean, 1e-12)
	// 母體標準差
	assert.InDelta(t, 2, std, 1e-12)

	mean, std = meanStd(nil)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, std)
}

func TestMelFilterBankShape(t *testing.T) {
	bank := melFilterBank(128, 2048, 16000, 0, 8000)
	require.Len(t, bank, 128)
	for _, row := range bank {
		assert.Len(t, row, 2048/2+1)
	}
	// 每個濾波器至少涵蓋一個 bin
	nonEmpty := 0
	for _, row := range bank {
		for _, w := range row {
			if w > 0 {
				nonEmpty++
				break
			}
		}
	}
	assert.Greater(t, nonEmpty, 100)
}
