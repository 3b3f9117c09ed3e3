package dsp

import "math"

// mfcc 計算倒頻譜係數矩陣 [numCoefficients][frames]。
// 流程：power 頻譜 → mel 濾波器組 → dB → DCT-II（正交正規化）。
func mfcc(spec *spectrogram, numCoefficients, numMels int) [][]float64 {
	melBank := melFilterBank(numMels, spec.fftSize, spec.sampleRate, 0, float64(spec.sampleRate)/2)
	numFrames := spec.numFrames()

	// log-mel 能量 [numMels][frames]
	logMel := make([][]float64, numMels)
	for m := range logMel {
		logMel[m] = make([]float64, numFrames)
	}
	for t := 0; t < numFrames; t++ {
		for m := 0; m < numMels; m++ {
			sum := 0.0
			for k, w := range melBank[m] {
				mag := spec.magnitude[t][k]
				sum += w * mag * mag
			}
			if sum < 1e-10 {
				sum = 1e-10
			}
			logMel[m][t] = 10 * math.Log10(sum)
		}
	}

	// DCT-II，每個 frame 由 mel 軸壓成 numCoefficients 維
	coefficients := make([][]float64, numCoefficients)
	for c := range coefficients {
		coefficients[c] = make([]float64, numFrames)
	}
	scale0 := math.Sqrt(1.0 / float64(numMels))
	scale := math.Sqrt(2.0 / float64(numMels))
	for t := 0; t < numFrames; t++ {
		for c := 0; c < numCoefficients; c++ {
			sum := 0.0
			for m := 0; m < numMels; m++ {
				sum += logMel[m][t] * math.Cos(math.Pi*float64(c)*(float64(m)+0.5)/float64(numMels))
			}
			if c == 0 {
				coefficients[c][t] = sum * scale0
			} else {
				coefficients[c][t] = sum * scale
			}
		}
	}
	return coefficients
}
