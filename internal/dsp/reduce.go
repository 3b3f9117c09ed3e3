package dsp

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// meanStd 母體統計（分母 n），與訓練端的聚合方式一致
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := stat.Mean(values, nil)
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// rowMeanStd 對矩陣每一列做 meanStd，回傳 means 與 stds
func rowMeanStd(rows [][]float64) ([]float64, []float64) {
	means := make([]float64, len(rows))
	stds := make([]float64, len(rows))
	for i, row := range rows {
		means[i], stds[i] = meanStd(row)
	}
	return means, stds
}
