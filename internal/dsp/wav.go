package dsp

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

// DecodeWAV 解碼 WAV 容器成 [-1,1] 單聲道 float64 取樣與取樣率。
// 多聲道取平均混成 mono。
func DecodeWAV(r io.ReadSeeker) ([]float64, int, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav file")
	}

	buffer, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode pcm: %w", err)
	}
	if buffer == nil || len(buffer.Data) == 0 {
		return nil, 0, fmt.Errorf("empty pcm payload")
	}

	numChannels := buffer.Format.NumChannels
	if numChannels <= 0 {
		numChannels = 1
	}
	sampleRate := buffer.Format.SampleRate
	if sampleRate <= 0 {
		return nil, 0, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << uint(bitDepth-1))

	numFrames := len(buffer.Data) / numChannels
	samples := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		sum := 0.0
		for ch := 0; ch < numChannels; ch++ {
			sum += float64(buffer.Data[i*numChannels+ch]) / scale
		}
		samples[i] = sum / float64(numChannels)
	}
	return samples, sampleRate, nil
}
