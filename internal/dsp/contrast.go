package dsp

import (
	"math"
	"sort"
)

// spectralContrast 依八度頻帶計算 peak 與 valley 的能量差（dB），
// 回傳 [numBands+1][frames]。fmin 之下歸入第一帶。
func spectralContrast(spec *spectrogram, numBands int, fmin float64, quantile float64) [][]float64 {
	numFrames := spec.numFrames()
	numRows := numBands + 1

	// 頻帶邊界：[0, fmin, fmin*2, ..., sr/2]
	edges := make([]float64, numRows+1)
	edges[0] = 0
	for b := 1; b <= numRows; b++ {
		edges[b] = fmin * math.Pow(2, float64(b-1))
	}
	nyquist := float64(spec.sampleRate) / 2
	if edges[numRows] > nyquist {
		edges[numRows] = nyquist
	}

	contrast := make([][]float64, numRows)
	for b := range contrast {
		contrast[b] = make([]float64, numFrames)
	}

	for b := 0; b < numRows; b++ {
		var bandBins []int
		for k := 0; k < spec.numBins(); k++ {
			frequency := spec.binFrequency(k)
			if frequency >= edges[b] && frequency < edges[b+1] {
				bandBins = append(bandBins, k)
			}
		}
		if len(bandBins) == 0 {
			continue
		}
		take := int(math.Max(1, quantile*float64(len(bandBins))))

		magnitudes := make([]float64, len(bandBins))
		for t := 0; t < numFrames; t++ {
			for i, k := range bandBins {
				magnitudes[i] = spec.magnitude[t][k]
			}
			sort.Float64s(magnitudes)

			valley := 0.0
			for i := 0; i < take; i++ {
				valley += magnitudes[i]
			}
			valley /= float64(take)

			peak := 0.0
			for i := len(magnitudes) - take; i < len(magnitudes); i++ {
				peak += magnitudes[i]
			}
			peak /= float64(take)

			contrast[b][t] = 20 * (math.Log10(peak+1e-10) - math.Log10(valley+1e-10))
		}
	}
	return contrast
}
