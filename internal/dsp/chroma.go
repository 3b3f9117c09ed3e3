package dsp

import "math"

// chroma 把頻譜能量折疊到 12 個半音音級，回傳 [12][frames]。
// 每個 frame 以最大值正規化到 [0,1]。
func chroma(spec *spectrogram) [][]float64 {
	const numClasses = 12
	numFrames := spec.numFrames()

	chromagram := make([][]float64, numClasses)
	for p := range chromagram {
		chromagram[p] = make([]float64, numFrames)
	}

	// bin → 音級對照（以 A440 為基準），過低頻率略過
	pitchClass := make([]int, spec.numBins())
	for k := range pitchClass {
		frequency := spec.binFrequency(k)
		if frequency < 20 {
			pitchClass[k] = -1
			continue
		}
		midi := 69 + 12*math.Log2(frequency/440.0)
		pitchClass[k] = ((int(math.Round(midi)) % numClasses) + numClasses) % numClasses
	}

	for t := 0; t < numFrames; t++ {
		for k, p := range pitchClass {
			if p < 0 {
				continue
			}
			mag := spec.magnitude[t][k]
			chromagram[p][t] += mag * mag
		}
		peak := 0.0
		for p := 0; p < numClasses; p++ {
			if chromagram[p][t] > peak {
				peak = chromagram[p][t]
			}
		}
		if peak > 0 {
			for p := 0; p < numClasses; p++ {
				chromagram[p][t] /= peak
			}
		}
	}
	return chromagram
}
