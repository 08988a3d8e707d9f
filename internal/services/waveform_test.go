package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveformRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, writeTone(path, TargetSampleRate, 320))

	w, err := LoadWaveform(path)
	require.NoError(t, err)
	assert.Equal(t, TargetSampleRate, w.SampleRate)
	require.Len(t, w.Samples, 320)
	assert.InDelta(t, 0.5, w.Samples[0], 0.001)
	assert.InDelta(t, -0.5, w.Samples[1], 0.001)
	assert.InDelta(t, 0.02, w.Duration(), 1e-9)
}

func TestLoadWaveformKeepsFirstChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, TargetSampleRate, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: TargetSampleRate},
		Data:           []int{16384, -16384, 16384, -16384, 0, 32767},
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	w, err := LoadWaveform(path)
	require.NoError(t, err)
	require.Len(t, w.Samples, 3)
	assert.InDelta(t, 0.5, w.Samples[0], 0.001)
	assert.InDelta(t, 0.5, w.Samples[1], 0.001)
	assert.InDelta(t, 0, w.Samples[2], 0.001)
}

func TestLoadWaveformRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not riff"), 0o644))
	_, err := LoadWaveform(path)
	assert.Error(t, err)
}

func TestResample(t *testing.T) {
	w := &Waveform{Samples: []float32{0, 1, 0, -1}, SampleRate: 8000}

	up := w.Resample(16000)
	assert.Equal(t, 16000, up.SampleRate)
	require.Len(t, up.Samples, 8)
	assert.InDelta(t, 0.5, up.Samples[1], 1e-6)
	assert.InDelta(t, 1, up.Samples[2], 1e-6)

	down := (&Waveform{Samples: make([]float32, 48000), SampleRate: 48000}).Resample(TargetSampleRate)
	assert.Len(t, down.Samples, 16000)

	same := w.Resample(8000)
	assert.Equal(t, w.Samples, same.Samples)
}
