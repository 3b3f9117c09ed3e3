package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// spectrogram 短時傅立葉轉換結果。magnitude[frame][bin]，bin 數為 fftSize/2+1。
type spectrogram struct {
	magnitude  [][]float64
	fftSize    int
	hopSize    int
	sampleRate int
}

func (s *spectrogram) numFrames() int { return len(s.magnitude) }
func (s *spectrogram) numBins() int   { return s.fftSize/2 + 1 }

// binFrequency 第 k 個 FFT bin 對應的頻率（Hz）
func (s *spectrogram) binFrequency(k int) float64 {
	return float64(k) * float64(s.sampleRate) / float64(s.fftSize)
}

// stft 計算幅度頻譜。訊號前後各補 fftSize/2 個零讓 frame 置中，
// frame 數 = 1 + len/hop。
func stft(samples []float64, fftSize, hopSize, sampleRate int, window []float64) *spectrogram {
	pad := fftSize / 2
	padded := make([]float64, len(samples)+2*pad)
	copy(padded[pad:], samples)

	numFrames := 1 + len(samples)/hopSize
	fft := fourier.NewFFT(fftSize)
	halfFFT := fftSize/2 + 1

	magnitude := make([][]float64, numFrames)
	frame := make([]float64, fftSize)
	coefficients := make([]complex128, halfFFT)

	for t := 0; t < numFrames; t++ {
		start := t * hopSize
		for i := 0; i < fftSize; i++ {
			if start+i < len(padded) {
				frame[i] = padded[start+i] * window[i]
			} else {
				frame[i] = 0
			}
		}
		coefficients = fft.Coefficients(coefficients, frame)

		row := make([]float64, halfFFT)
		for k, c := range coefficients {
			re := real(c)
			im := imag(c)
			row[k] = fhypot(re, im)
		}
		magnitude[t] = row
	}

	return &spectrogram{
		magnitude:  magnitude,
		fftSize:    fftSize,
		hopSize:    hopSize,
		sampleRate: sampleRate,
	}
}

func fhypot(re, im float64) float64 {
	return math.Sqrt(re*re + im*im)
}
