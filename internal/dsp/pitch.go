package dsp

// pitchTrack 頻譜峰值音高追蹤。每個 frame 在 [fmin,fmax] 範圍內
// 找幅度超過門檻（frame 最大值的 threshold 倍）的局部峰值，
// 以拋物線內插修正頻率；其餘位置為 0。
// 回傳 [bins][frames] 矩陣，聚合時對整個矩陣取 mean/std（含零）。
func pitchTrack(spec *spectrogram, fmin, fmax, threshold float64) [][]float64 {
	numFrames := spec.numFrames()
	numBins := spec.numBins()

	pitches := make([][]float64, numBins)
	for k := range pitches {
		pitches[k] = make([]float64, numFrames)
	}

	binWidth := float64(spec.sampleRate) / float64(spec.fftSize)

	for t := 0; t < numFrames; t++ {
		peak := 0.0
		for _, mag := range spec.magnitude[t] {
			if mag > peak {
				peak = mag
			}
		}
		gate := threshold * peak

		for k := 1; k < numBins-1; k++ {
			frequency := spec.binFrequency(k)
			if frequency < fmin || frequency > fmax {
				continue
			}
			mag := spec.magnitude[t][k]
			if mag < gate || mag <= spec.magnitude[t][k-1] || mag < spec.magnitude[t][k+1] {
				continue
			}
			// 拋物線內插：以相鄰 bin 修正峰值位置
			alpha := spec.magnitude[t][k-1]
			beta := mag
			gamma := spec.magnitude[t][k+1]
			denominator := alpha - 2*beta + gamma
			shift := 0.0
			if denominator != 0 {
				shift = 0.5 * (alpha - gamma) / denominator
			}
			pitches[k][t] = (float64(k) + shift) * binWidth
		}
	}
	return pitches
}
