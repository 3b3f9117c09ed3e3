// Package dsp 實作聲音特徵抽取：WAV 解碼、重取樣、5 秒長度正規化，
// 以及十組描述子的 (mean, std) 聚合，輸出固定順序的特徵向量。
package dsp

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sync"
)

// Config 特徵抽取參數
type Config struct {
	SampleRate     int     // 目標取樣率（預設 16000）
	TargetSeconds  int     // 正規化長度（預設 5 秒）
	FFTSize        int     // FFT 長度（預設 2048）
	HopSize        int     // frame 間距（預設 512）
	NumMFCC        int     // 倒頻譜係數數（預設 13）
	NumMels        int     // mel 濾波器數（預設 128）
	ContrastBands  int     // spectral contrast 頻帶數（預設 6，輸出 7 列）
	ContrastFmin   float64 // contrast 第一帶下緣（預設 200 Hz）
	RolloffPercent float64 // rolloff 能量比（預設 0.85）
	PitchFmin      float64 // 音高追蹤下限（預設 150 Hz）
	PitchFmax      float64 // 音高追蹤上限（預設 4000 Hz）
	PitchThreshold float64 // 峰值門檻（frame 最大值的倍率，預設 0.1）
}

func DefaultConfig() Config {
	return Config{
		SampleRate:     16000,
		TargetSeconds:  5,
		FFTSize:        2048,
		HopSize:        512,
		NumMFCC:        13,
		NumMels:        128,
		ContrastBands:  6,
		ContrastFmin:   200,
		RolloffPercent: 0.85,
		PitchFmin:      150,
		PitchFmax:      4000,
		PitchThreshold: 0.1,
	}
}

// Extractor 把解碼後的取樣轉成固定長度特徵向量。
// rng 只用於超長音檔的隨機起點裁切；測試可注入固定 seed。
type Extractor struct {
	cfg    Config
	window []float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewExtractor(cfg Config, rng *rand.Rand) *Extractor {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Extractor{
		cfg:    cfg,
		window: hammingWindow(cfg.FFTSize),
		rng:    rng,
	}
}

// FeatureNames 特徵向量各維度的正準名稱，順序即向量順序。
// 模型 artifact 的 feature list 必須與此逐一相符。
func (e *Extractor) FeatureNames() []string {
	var names []string
	for i := 0; i < e.cfg.NumMFCC; i++ {
		names = append(names, fmt.Sprintf("mfcc_mean_%d", i))
	}
	for i := 0; i < e.cfg.NumMFCC; i++ {
		names = append(names, fmt.Sprintf("mfcc_std_%d", i))
	}
	for i := 0; i < 12; i++ {
		names = append(names, fmt.Sprintf("chroma_mean_%d", i))
	}
	for i := 0; i < 12; i++ {
		names = append(names, fmt.Sprintf("chroma_std_%d", i))
	}
	for i := 0; i <= e.cfg.ContrastBands; i++ {
		names = append(names, fmt.Sprintf("contrast_mean_%d", i))
	}
	for i := 0; i <= e.cfg.ContrastBands; i++ {
		names = append(names, fmt.Sprintf("contrast_std_%d", i))
	}
	names = append(names,
		"zcr_mean", "zcr_std",
		"rms_mean", "rms_std",
		"centroid_mean", "centroid_std",
		"bandwidth_mean", "bandwidth_std",
		"rolloff_mean", "rolloff_std",
		"harmonic_mean", "harmonic_std",
		"pitch_mean", "pitch_std",
	)
	return names
}

// NumFeatures 特徵向量長度
func (e *Extractor) NumFeatures() int {
	return 2*e.cfg.NumMFCC + 2*12 + 2*(e.cfg.ContrastBands+1) + 14
}

// ExtractFile 讀取 WAV 檔並抽取特徵
func (e *Extractor) ExtractFile(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return e.ExtractReader(file)
}

// ExtractReader 從 io.ReadSeeker 解碼並抽取特徵
func (e *Extractor) ExtractReader(r io.ReadSeeker) ([]float64, error) {
	samples, sampleRate, err := DecodeWAV(r)
	if err != nil {
		return nil, err
	}
	return e.Extract(samples, sampleRate)
}

// Extract 對 [-1,1] 單聲道取樣抽取特徵。
// 非目標取樣率先重取樣；長度正規化到 TargetSeconds。
func (e *Extractor) Extract(samples []float64, sampleRate int) ([]float64, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("empty audio signal")
	}

	samples, err := Resample(samples, sampleRate, e.cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	samples = e.normalizeDuration(samples)

	cfg := e.cfg
	spec := stft(samples, cfg.FFTSize, cfg.HopSize, cfg.SampleRate, e.window)

	vector := make([]float64, 0, e.NumFeatures())

	// MFCC：每列（係數）各取 mean/std，先 means 後 stds
	mfccMatrix := mfcc(spec, cfg.NumMFCC, cfg.NumMels)
	means, stds := rowMeanStd(mfccMatrix)
	vector = append(vector, means...)
	vector = append(vector, stds...)

	chromaMatrix := chroma(spec)
	means, stds = rowMeanStd(chromaMatrix)
	vector = append(vector, means...)
	vector = append(vector, stds...)

	contrastMatrix := spectralContrast(spec, cfg.ContrastBands, cfg.ContrastFmin, 0.02)
	means, stds = rowMeanStd(contrastMatrix)
	vector = append(vector, means...)
	vector = append(vector, stds...)

	// 單列描述子：各貢獻一組 (mean, std)
	appendPair := func(values []float64) {
		mean, std := meanStd(values)
		vector = append(vector, mean, std)
	}
	appendPair(zeroCrossingRate(samples, cfg.FFTSize, cfg.HopSize))
	appendPair(rootMeanSquare(samples, cfg.FFTSize, cfg.HopSize))
	centroids := spectralCentroid(spec)
	appendPair(centroids)
	appendPair(spectralBandwidth(spec, centroids))
	appendPair(spectralRolloff(spec, cfg.RolloffPercent))
	appendPair(harmonicSignal(samples, cfg.FFTSize, cfg.HopSize, e.window))

	pitches := pitchTrack(spec, cfg.PitchFmin, cfg.PitchFmax, cfg.PitchThreshold)
	flattened := make([]float64, 0, len(pitches)*spec.numFrames())
	for _, row := range pitches {
		flattened = append(flattened, row...)
	}
	appendPair(flattened)

	if len(vector) != e.NumFeatures() {
		return nil, fmt.Errorf("feature vector length %d, expected %d", len(vector), e.NumFeatures())
	}
	for _, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite value in feature vector")
		}
	}
	return vector, nil
}

// normalizeDuration 裁切或右補零到剛好 TargetSeconds。
// 超長時起點隨機（訓練端同樣行為）；剛好等長不裁切，抽取為確定性。
func (e *Extractor) normalizeDuration(samples []float64) []float64 {
	target := e.cfg.SampleRate * e.cfg.TargetSeconds
	switch {
	case len(samples) > target:
		e.mu.Lock()
		start := e.rng.Intn(len(samples) - target)
		e.mu.Unlock()
		return samples[start : start+target]
	case len(samples) < target:
		padded := make([]float64, target)
		copy(padded, samples)
		return padded
	default:
		return samples
	}
}
