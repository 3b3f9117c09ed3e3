package dsp

import (
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
)

// harmonicSignal 抽出諧波成分訊號（median-filtering HPSS）。
// 沿時間軸做中值濾波強化諧波、沿頻率軸強化打擊成分，
// 以軟遮罩套回複數頻譜後 overlap-add 還原時域訊號。
func harmonicSignal(samples []float64, fftSize, hopSize int, window []float64) []float64 {
	const kernel = 31 // 中值濾波核長（frame / bin 數）

	pad := fftSize / 2
	padded := make([]float64, len(samples)+2*pad)
	copy(padded[pad:], samples)

	numFrames := 1 + len(samples)/hopSize
	halfFFT := fftSize/2 + 1
	fft := fourier.NewFFT(fftSize)

	// 複數頻譜與幅度
	complexSpec := make([][]complex128, numFrames)
	magnitude := make([][]float64, numFrames)
	frame := make([]float64, fftSize)
	for t := 0; t < numFrames; t++ {
		start := t * hopSize
		for i := 0; i < fftSize; i++ {
			if start+i < len(padded) {
				frame[i] = padded[start+i] * window[i]
			} else {
				frame[i] = 0
			}
		}
		coefficients := fft.Coefficients(nil, frame)
		complexSpec[t] = coefficients
		row := make([]float64, halfFFT)
		for k, c := range coefficients {
			row[k] = fhypot(real(c), imag(c))
		}
		magnitude[t] = row
	}

	// 諧波強化：每個 bin 沿時間做中值
	harmonicMag := make([][]float64, numFrames)
	for t := range harmonicMag {
		harmonicMag[t] = make([]float64, halfFFT)
	}
	buffer := make([]float64, 0, kernel)
	half := kernel / 2
	for k := 0; k < halfFFT; k++ {
		for t := 0; t < numFrames; t++ {
			buffer = buffer[:0]
			for dt := -half; dt <= half; dt++ {
				if t+dt >= 0 && t+dt < numFrames {
					buffer = append(buffer, magnitude[t+dt][k])
				}
			}
			harmonicMag[t][k] = median(buffer)
		}
	}

	// 打擊強化：每個 frame 沿頻率做中值
	percussiveMag := make([][]float64, numFrames)
	for t := 0; t < numFrames; t++ {
		percussiveMag[t] = make([]float64, halfFFT)
		for k := 0; k < halfFFT; k++ {
			buffer = buffer[:0]
			for dk := -half; dk <= half; dk++ {
				if k+dk >= 0 && k+dk < halfFFT {
					buffer = append(buffer, magnitude[t][k+dk])
				}
			}
			percussiveMag[t][k] = median(buffer)
		}
	}

	// Wiener 軟遮罩（power=2）套到複數頻譜
	masked := make([][]complex128, numFrames)
	for t := 0; t < numFrames; t++ {
		masked[t] = make([]complex128, halfFFT)
		for k := 0; k < halfFFT; k++ {
			h := harmonicMag[t][k] * harmonicMag[t][k]
			p := percussiveMag[t][k] * percussiveMag[t][k]
			mask := 0.0
			if h+p > 0 {
				mask = h / (h + p)
			}
			masked[t][k] = complex(mask, 0) * complexSpec[t][k]
		}
	}

	// overlap-add 還原，含窗函數平方正規化
	output := make([]float64, len(padded))
	windowSum := make([]float64, len(padded))
	timeFrame := make([]float64, fftSize)
	for t := 0; t < numFrames; t++ {
		timeFrame = fft.Sequence(timeFrame, masked[t])
		start := t * hopSize
		for i := 0; i < fftSize && start+i < len(output); i++ {
			// gonum 的 Sequence 未正規化，需除以 fftSize
			output[start+i] += (timeFrame[i] / float64(fftSize)) * window[i]
			windowSum[start+i] += window[i] * window[i]
		}
	}
	for i := range output {
		if windowSum[i] > 1e-8 {
			output[i] /= windowSum[i]
		}
	}

	return output[pad : pad+len(samples)]
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
