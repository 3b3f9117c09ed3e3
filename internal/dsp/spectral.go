package dsp

import "math"

// zeroCrossingRate 每個 frame 的過零比率，frame 切法與 STFT 對齊（置中補零）
func zeroCrossingRate(samples []float64, frameSize, hopSize int) []float64 {
	pad := frameSize / 2
	padded := make([]float64, len(samples)+2*pad)
	copy(padded[pad:], samples)

	numFrames := 1 + len(samples)/hopSize
	rates := make([]float64, numFrames)
	for t := 0; t < numFrames; t++ {
		start := t * hopSize
		crossings := 0
		for i := 1; i < frameSize && start+i < len(padded); i++ {
			if (padded[start+i-1] >= 0) != (padded[start+i] >= 0) {
				crossings++
			}
		}
		rates[t] = float64(crossings) / float64(frameSize)
	}
	return rates
}

// rootMeanSquare 每個 frame 的 RMS 能量
func rootMeanSquare(samples []float64, frameSize, hopSize int) []float64 {
	pad := frameSize / 2
	padded := make([]float64, len(samples)+2*pad)
	copy(padded[pad:], samples)

	numFrames := 1 + len(samples)/hopSize
	energies := make([]float64, numFrames)
	for t := 0; t < numFrames; t++ {
		start := t * hopSize
		sum := 0.0
		count := 0
		for i := 0; i < frameSize && start+i < len(padded); i++ {
			sum += padded[start+i] * padded[start+i]
			count++
		}
		if count > 0 {
			energies[t] = math.Sqrt(sum / float64(count))
		}
	}
	return energies
}

// spectralCentroid 每個 frame 的頻譜重心（Hz）
func spectralCentroid(spec *spectrogram) []float64 {
	numFrames := spec.numFrames()
	centroids := make([]float64, numFrames)
	for t := 0; t < numFrames; t++ {
		weighted, total := 0.0, 0.0
		for k, mag := range spec.magnitude[t] {
			weighted += spec.binFrequency(k) * mag
			total += mag
		}
		if total > 0 {
			centroids[t] = weighted / total
		}
	}
	return centroids
}

// spectralBandwidth 每個 frame 以重心為中心的二階矩頻寬（Hz）
func spectralBandwidth(spec *spectrogram, centroids []float64) []float64 {
	numFrames := spec.numFrames()
	bandwidths := make([]float64, numFrames)
	for t := 0; t < numFrames; t++ {
		weighted, total := 0.0, 0.0
		for k, mag := range spec.magnitude[t] {
			deviation := spec.binFrequency(k) - centroids[t]
			weighted += mag * deviation * deviation
			total += mag
		}
		if total > 0 {
			bandwidths[t] = math.Sqrt(weighted / total)
		}
	}
	return bandwidths
}

// spectralRolloff 每個 frame 累積能量達到 rollPercent 的最低頻率（Hz）
func spectralRolloff(spec *spectrogram, rollPercent float64) []float64 {
	numFrames := spec.numFrames()
	rolloffs := make([]float64, numFrames)
	for t := 0; t < numFrames; t++ {
		total := 0.0
		for _, mag := range spec.magnitude[t] {
			total += mag
		}
		threshold := rollPercent * total
		cumulative := 0.0
		for k, mag := range spec.magnitude[t] {
			cumulative += mag
			if cumulative >= threshold && total > 0 {
				rolloffs[t] = spec.binFrequency(k)
				break
			}
		}
	}
	return rolloffs
}
