package dsp

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestWAV(t *testing.T, path string, sampleRate, numChannels int, samples []int) {
	t.Helper()
	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()

	encoder := wav.NewEncoder(out, sampleRate, 16, numChannels, 1)
	buffer := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChannels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	require.NoError(t, encoder.Write(buffer))
	require.NoError(t, encoder.Close())
}

func TestDecodeWAVMono(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")

	const sampleRate = 16000
	raw := make([]int, sampleRate)
	for i := range raw {
		raw[i] = int(10000 * math.Sin(2*math.Pi*440*float64(i)/sampleRate))
	}
	writeTestWAV(t, path, sampleRate, 1, raw)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	samples, rate, err := DecodeWAV(file)
	require.NoError(t, err)
	assert.Equal(t, sampleRate, rate)
	assert.Len(t, samples, len(raw))
	// 16-bit 正規化到 [-1,1]
	assert.InDelta(t, float64(raw[10])/32768.0, samples[10], 1e-9)
}

func TestDecodeWAVStereoDownmix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stereo.wav")

	// 左 +8000、右 -8000 → 混音後為 0
	frames := 1000
	raw := make([]int, frames*2)
	for i := 0; i < frames; i++ {
		raw[i*2] = 8000
		raw[i*2+1] = -8000
	}
	writeTestWAV(t, path, 16000, 2, raw)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	samples, rate, err := DecodeWAV(file)
	require.NoError(t, err)
	assert.Equal(t, 16000, rate)
	assert.Len(t, samples, frames)
	for _, v := range samples[:10] {
		assert.InDelta(t, 0, v, 1e-9)
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	_, _, err := DecodeWAV(strings.NewReader("definitely not a wav file"))
	assert.Error(t, err)
}

func TestResamplePassthroughSameRate(t *testing.T) {
	in := []float64{0.1, 0.2, 0.3}
	out, err := Resample(in, 16000, 16000)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestResampleChangesLength(t *testing.T) {
	in := make([]float64, 44100)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 44100)
	}
	out, err := Resample(in, 44100, 16000)
	require.NoError(t, err)
	// 含 flush 後的尾巴，長度應貼近 16000；
	// 漏掉 flush 會短少兩百多個樣本，這裡的窗口抓得到
	assert.InDelta(t, 16000, len(out), 100)
}
