package dsp

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample 把 [-1,1] 單聲道取樣轉換到目標取樣率。相同取樣率直接原樣回傳。
func Resample(samples []float64, fromRate, toRate int) ([]float64, error) {
	if fromRate == toRate {
		return samples, nil
	}
	if fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("invalid sample rates: %d -> %d", fromRate, toRate)
	}

	config := &resampling.Config{
		InputRate:  float64(fromRate),
		OutputRate: float64(toRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	}
	resampler, err := resampling.New(config)
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}

	output, err := resampler.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("resample %d -> %d: %w", fromRate, toRate, err)
	}
	// 濾波器延遲會留一段尾巴在內部緩衝，flush 出來才不會丟樣本
	tail, err := resampler.Flush()
	if err != nil {
		return nil, fmt.Errorf("flush resampler %d -> %d: %w", fromRate, toRate, err)
	}
	return append(output, tail...), nil
}
